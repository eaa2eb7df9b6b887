// Package textutil normalizes movie titles for comparison keys and derives
// the URL slugs Letterboxd uses for film pages.
package textutil
