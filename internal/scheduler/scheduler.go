// Package scheduler runs periodic maintenance jobs on fixed intervals.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one recurring maintenance task. Run errors are logged and the
// job keeps its schedule.
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

type Scheduler struct {
	jobs []Job
	log  *slog.Logger
}

func New(log *slog.Logger, jobs ...Job) *Scheduler {
	if log == nil {
		log = slog.Default()
	}

	return &Scheduler{jobs: jobs, log: log}
}

// Start runs every job on its own ticker until ctx is cancelled. Blocks
// until all job loops have drained.
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup

	for _, j := range s.jobs {
		wg.Add(1)
		go func(j Job) {
			defer wg.Done()
			s.runLoop(ctx, j)
		}(j)
	}

	wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, j Job) {
	ticker := time.NewTicker(j.Interval())
	defer ticker.Stop()

	s.log.Info("job scheduled", "job", j.Name(), "interval", j.Interval())

	for {
		select {
		case <-ctx.Done():
			s.log.Info("job stopped", "job", j.Name())
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				s.log.Error("job run failed", "job", j.Name(), "error", err)
			}
		}
	}
}
