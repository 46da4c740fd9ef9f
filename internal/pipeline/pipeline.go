// Package pipeline runs one fetch, extract, diff, notify and persist cycle.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paddocknews/f1news/internal/logger"
	"github.com/paddocknews/f1news/internal/notifier"
	"github.com/paddocknews/f1news/internal/story"
)

// Fetcher retrieves today's stories from the listing page
type Fetcher interface {
	FetchStories(ctx context.Context) ([]story.Story, error)
}

// Archive reads the previous run's titles and stores today's stories
type Archive interface {
	LoadKnownTitles() (story.KnownTitles, error)
	Save(stories []story.Story) error
	Path() string
}

// Deps wires the collaborators of a run
type Deps struct {
	Fetcher  Fetcher
	Archive  Archive
	Notifier notifier.Notifier
	Logger   *logger.Logger
	Metrics  *logger.Metrics
}

// Runner executes pipeline runs
type Runner struct {
	fetcher  Fetcher
	archive  Archive
	notifier notifier.Notifier
	log      *logger.Logger
	metrics  *logger.Metrics
	now      func() time.Time
}

// Result summarises one run
type Result struct {
	RunID       string        `json:"run_id"`
	CheckedAt   time.Time     `json:"checked_at"`
	Total       int           `json:"total"`
	Stories     []story.Story `json:"-"`
	NewStories  []story.Story `json:"new_stories"`
	Notified    bool          `json:"notified"`
	NotifyErr   error         `json:"-"`
	ArchivePath string        `json:"archive_path"`
}

// New creates a Runner
func New(deps Deps) *Runner {
	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = logger.DefaultMetrics()
	}

	return &Runner{
		fetcher:  deps.Fetcher,
		archive:  deps.Archive,
		notifier: deps.Notifier,
		log:      log,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Run performs one cycle. A failed fetch aborts the run before anything is
// sent or written. A failed notification is logged and recorded in the result
// but does not stop the archive from being rewritten.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := r.now()
	result := &Result{
		RunID:       uuid.NewString(),
		CheckedAt:   start.UTC(),
		ArchivePath: r.archive.Path(),
	}
	log := r.log.With(logger.Fields{"run_id": result.RunID})
	defer func() {
		r.metrics.RecordTiming("pipeline.run", r.now().Sub(start))
		r.metrics.Report(log)
	}()

	known, err := r.archive.LoadKnownTitles()
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}
	log.Debug("Loaded previous archive", logger.Fields{"titles": len(known), "path": result.ArchivePath})

	stories, err := r.fetcher.FetchStories(ctx)
	if err != nil {
		r.metrics.IncrCounter("fetch.failed")
		log.Error("Fetching listing failed", nil, err)
		return nil, fmt.Errorf("fetching stories: %w", err)
	}
	result.Stories = stories
	result.Total = len(stories)
	r.metrics.AddCounter("stories.fetched", int64(len(stories)))

	if len(stories) == 0 {
		log.Warn("No story containers found, the page layout may have changed", nil)
	} else {
		log.Info("Fetched listing", logger.Fields{"stories": len(stories)})
	}

	diff := story.Diff(known, stories)
	result.NewStories = diff.NewStories
	r.metrics.AddCounter("stories.new", int64(len(diff.NewStories)))

	if len(diff.NewStories) > 0 {
		log.Info("Sending notification", logger.Fields{"new_stories": len(diff.NewStories)})
		if err := r.notifier.Notify(ctx, diff.NewStories); err != nil {
			result.NotifyErr = err
			r.metrics.IncrCounter("notify.failed")
			log.Error("Notification failed", logger.Fields{"new_stories": len(diff.NewStories)}, err)
		} else {
			result.Notified = true
			r.metrics.IncrCounter("notify.sent")
			log.Info("Notification sent", nil)
		}
	} else {
		log.Info("No new stories, skipping notification", nil)
	}

	if err := r.archive.Save(stories); err != nil {
		return result, fmt.Errorf("saving archive: %w", err)
	}
	r.metrics.SetGauge("archive.rows", float64(len(stories)))
	log.Info("Archive updated", logger.Fields{"path": result.ArchivePath, "rows": len(stories)})

	return result, nil
}
