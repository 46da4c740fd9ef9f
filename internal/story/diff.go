package story

// KnownTitles is the set of titles recorded by the previous run
type KnownTitles map[string]struct{}

// NewKnownTitles creates a set from the given titles
func NewKnownTitles(titles ...string) KnownTitles {
	known := make(KnownTitles, len(titles))
	for _, t := range titles {
		known.Add(t)
	}
	return known
}

// Add records a title
func (k KnownTitles) Add(title string) {
	k[title] = struct{}{}
}

// Contains reports whether the title was seen before
func (k KnownTitles) Contains(title string) bool {
	_, ok := k[title]
	return ok
}

// DiffResult contains the results of comparing today's stories with the archive
type DiffResult struct {
	NewStories []Story
	Total      int
}

// Diff compares current stories against the previously known titles and returns
// the new ones in page order. Untitled stories are never new. The known set is
// only read, so a story repeated on the page is reported once per appearance.
func Diff(previous KnownTitles, current []Story) *DiffResult {
	result := &DiffResult{
		NewStories: make([]Story, 0),
		Total:      len(current),
	}

	for _, s := range current {
		if !s.Trackable() {
			continue
		}
		if previous.Contains(s.Title) {
			continue
		}
		result.NewStories = append(result.NewStories, s)
	}

	return result
}
