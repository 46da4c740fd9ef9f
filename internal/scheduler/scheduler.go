// Package scheduler repeats pipeline runs on a cron schedule.
//
// Runs never overlap within one process: a tick that arrives while the previous
// run is still going is skipped.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/paddocknews/f1news/internal/logger"
)

// Scheduler triggers a job on a cron schedule
type Scheduler struct {
	cron  *cron.Cron
	entry cron.EntryID
	log   *logger.Logger
}

// New creates a Scheduler running job on spec, a standard five-field cron
// expression or a descriptor such as "@hourly" or "@every 10m".
func New(spec string, job func(), log *logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Default()
	}
	cl := cronLogger{log: log}

	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	id, err := c.AddFunc(spec, job)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	return &Scheduler{cron: c, entry: id, log: log}, nil
}

// Run executes the job once right away, then on schedule until ctx is done.
// It waits for a job in progress to finish before returning.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.cron.Entry(s.entry).WrappedJob.Run()

	s.log.Info("Waiting for next run", logger.Fields{"next": s.Next().Format(time.RFC3339)})

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped", nil)
}

// Next returns the time of the next scheduled run
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug("cron: "+msg, toFields(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error("cron: "+msg, toFields(keysAndValues), err)
}

func toFields(keysAndValues []interface{}) logger.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(logger.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
