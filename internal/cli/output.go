package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/paddocknews/f1news/internal/pipeline"
	"github.com/paddocknews/f1news/internal/story"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	RunID       string        `json:"run_id"`
	CheckedAt   time.Time     `json:"checked_at"`
	Total       int           `json:"total"`
	NewStories  []story.Story `json:"new_stories"`
	StoryCount  int           `json:"story_count"`
	Notified    bool          `json:"notified"`
	NotifyError string        `json:"notify_error,omitempty"`
	ArchivePath string        `json:"archive_path"`
}

// NewOutputResult converts a pipeline result for display
func NewOutputResult(r *pipeline.Result) *OutputResult {
	out := &OutputResult{
		RunID:       r.RunID,
		CheckedAt:   r.CheckedAt,
		Total:       r.Total,
		NewStories:  r.NewStories,
		StoryCount:  len(r.NewStories),
		Notified:    r.Notified,
		ArchivePath: r.ArchivePath,
	}
	if out.NewStories == nil {
		out.NewStories = []story.Story{}
	}
	if r.NotifyErr != nil {
		out.NotifyError = r.NotifyErr.Error()
	}
	return out
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.StoryCount == 0 {
		fmt.Fprintf(w, "No new stories (%d on page).\n", result.Total)
	} else {
		for _, s := range result.NewStories {
			fmt.Fprintf(w, "NEW: %s\n", s.Title)
			fmt.Fprintf(w, "     %s\n", s.Link)
			if verbose {
				if s.PostTime != "" {
					fmt.Fprintf(w, "     Time: %s\n", s.PostTime)
				}
				fmt.Fprintf(w, "     Category: %s\n", s.Category)
				fmt.Fprintf(w, "     Summary: %s\n", s.Summary)
			}
		}
		fmt.Fprintf(w, "\nTotal: %d new of %d on page\n", result.StoryCount, result.Total)
	}

	switch {
	case result.NotifyError != "":
		fmt.Fprintf(w, "Email failed: %s\n", result.NotifyError)
	case result.Notified:
		fmt.Fprintln(w, "Email sent.")
	}
	fmt.Fprintf(w, "Archive: %s\n", result.ArchivePath)

	return nil
}

// archiveOutput is the JSON shape of the show command
type archiveOutput struct {
	Path    string        `json:"path"`
	Count   int           `json:"count"`
	Stories []story.Story `json:"stories"`
}

// WriteArchive prints archived stories in the specified format
func WriteArchive(w io.Writer, path string, stories []story.Story, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, archiveOutput{Path: path, Count: len(stories), Stories: stories})
	case FormatText:
		if len(stories) == 0 {
			fmt.Fprintf(w, "Archive %s is empty.\n", path)
			return nil
		}
		for _, s := range stories {
			if s.PostTime != "" {
				fmt.Fprintf(w, "[%s] ", s.PostTime)
			}
			fmt.Fprintf(w, "%s (%s)\n", s.Title, s.Category)
			fmt.Fprintf(w, "    %s\n", s.Summary)
		}
		fmt.Fprintf(w, "\nTotal: %d stories in %s\n", len(stories), path)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
