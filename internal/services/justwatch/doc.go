// Package justwatch scrapes a streaming provider's full movie catalog from
// its JustWatch provider page.
//
// The listing is paginated with a sliding window, so the scraper walks
// ?page=N until a page yields no movie links. A politeness pause separates
// page fetches. A failure on the first page is a total fetch failure; a
// failure mid-pagination ends the walk with the entries collected so far,
// matching how the listing behaves when the window slides past the end.
package justwatch
