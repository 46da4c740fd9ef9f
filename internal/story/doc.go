// Package story provides types and functions for BBC Formula 1 news stories.
//
// The story package handles story representation, classification of the loosely
// structured metadata spans that accompany each story (post time versus category
// labels), and change detection against the titles recorded by the previous run.
// Titles are the deduplication key: a story is new when its title was not present
// in the last archive.
package story
