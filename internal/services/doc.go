// Package services defines the shared error taxonomy for the external
// collaborators reelsync talks to: the JustWatch catalog pages and the
// Letterboxd rating service.
//
// Callers classify failures with the exported sentinels. A catalog fetch
// failure is fatal to the sync cycle that issued it; a rating lookup failure
// is recovered locally by degrading the affected entry to a partial match.
package services
