package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable renders rows with rounded borders. rightAligned lists the
// 1-based column numbers that hold numeric data.
func renderTable(headers table.Row, rows []table.Row, rightAligned ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(headers)
	tw.AppendRows(rows)

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, col := range rightAligned {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
