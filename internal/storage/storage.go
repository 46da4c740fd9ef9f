package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/paddocknews/f1news/internal/story"
)

// Header is the first row of every archive
var Header = []string{"发布时间", "类型/来源", "标题", "简讯"}

// titleColumn is the position of the title in a data row
const titleColumn = 2

// Archive handles persistence of the story archive
type Archive struct {
	path string
}

// New creates a new Archive for dataDir/filename, creating dataDir if needed
func New(dataDir, filename string) (*Archive, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Archive{
		path: filepath.Join(dataDir, filename),
	}, nil
}

// Path returns the archive file path
func (a *Archive) Path() string {
	return a.path
}

// LoadKnownTitles reads the titles recorded by the previous run.
// A missing or empty archive yields an empty set.
func (a *Archive) LoadKnownTitles() (story.KnownTitles, error) {
	known := story.NewKnownTitles()

	err := a.eachRow(func(row []string) {
		if len(row) > titleColumn {
			known.Add(row[titleColumn])
		}
	})
	if err != nil {
		return nil, err
	}

	return known, nil
}

// Load reads every archived story. Links are not archived and come back empty.
func (a *Archive) Load() ([]story.Story, error) {
	stories := make([]story.Story, 0)

	err := a.eachRow(func(row []string) {
		var s story.Story
		fields := []*string{&s.PostTime, &s.Category, &s.Title, &s.Summary}
		for i := 0; i < len(fields) && i < len(row); i++ {
			*fields[i] = row[i]
		}
		stories = append(stories, s)
	})
	if err != nil {
		return nil, err
	}

	return stories, nil
}

// eachRow calls fn for every data row, skipping the header
func (a *Archive) eachRow(fn func(row []string)) error {
	f, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No previous archive
			return nil
		}
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("reading archive header: %w", err)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		fn(row)
	}
}

// Save replaces the archive with the given stories
func (a *Archive) Save(stories []story.Story) error {
	pending, err := renameio.NewPendingFile(a.path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("creating pending archive: %w", err)
	}
	defer pending.Cleanup()

	encoder := transform.NewWriter(pending, unicode.UTF8BOM.NewEncoder())
	if err := writeRows(encoder, stories); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	return nil
}

func writeRows(w io.Writer, stories []story.Story) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("writing archive header: %w", err)
	}
	for _, s := range stories {
		if err := writer.Write([]string{s.PostTime, s.Category, s.Title, s.Summary}); err != nil {
			return fmt.Errorf("writing archive row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing archive: %w", err)
	}
	return nil
}
