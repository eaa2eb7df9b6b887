package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var platformFlag string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List cached movies for a platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			platform := strings.TrimSpace(platformFlag)
			if platform == "" {
				platform = cfg.Provider.Name
			}

			movies, err := st.ListByPlatform(cmd.Context(), platform)
			if err != nil {
				return err
			}
			if len(movies) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No cached movies for %s\n", platform)
				return nil
			}

			rows := make([]table.Row, 0, len(movies))
			for _, movie := range movies {
				year := ""
				if movie.Year > 0 {
					year = strconv.Itoa(movie.Year)
				}
				rating := ""
				if movie.LetterboxdRating != nil {
					rating = fmt.Sprintf("%.2f", *movie.LetterboxdRating)
				}
				rows = append(rows, table.Row{
					movie.Title,
					year,
					rating,
					strings.Join(movie.Genres, ", "),
					movie.IMDbID,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				table.Row{"Title", "Year", "Rating", "Genres", "IMDb"},
				rows,
				2, 3,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformFlag, "platform", "p", "", "Platform name (defaults to the configured provider)")
	return cmd
}
