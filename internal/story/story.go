package story

const (
	// Untitled is the title given to a story container that has no hyperlink.
	// Untitled stories are archived but never reported as new.
	Untitled = "无标题"

	// DetailsPlaceholder replaces a missing or mis-extracted summary.
	DetailsPlaceholder = "（点击查看详情）"

	// DefaultCategory is used when a story carries no category labels.
	DefaultCategory = "Formula 1"

	// CategorySeparator joins multiple category labels.
	CategorySeparator = " | "
)

// Story represents a single news story extracted from the listing page
type Story struct {
	PostTime string `json:"post_time"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Link     string `json:"link,omitempty"` // not persisted in the archive
}

// IsUntitled reports whether the story was extracted without a hyperlink
func (s Story) IsUntitled() bool {
	return s.Title == Untitled
}

// Trackable reports whether the story's title can serve as a dedup key
func (s Story) Trackable() bool {
	return s.Title != "" && !s.IsUntitled()
}

// Summarize picks the summary to store for a story. text is the summary
// paragraph's text and found reports whether the paragraph exists. A missing
// paragraph, or one repeating the title, yields DetailsPlaceholder; an empty
// paragraph stays empty.
func Summarize(text string, found bool, title string) string {
	if !found || text == title {
		return DetailsPlaceholder
	}
	return text
}

// NewStory creates a Story. An empty summary means the story had no summary
// paragraph, see Summarize.
func NewStory(postTime, category, title, summary, link string) Story {
	return Story{
		PostTime: postTime,
		Category: category,
		Title:    title,
		Summary:  Summarize(summary, summary != "", title),
		Link:     link,
	}
}
