package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

// Job is a named periodic task.
type Job struct {
	Name    string
	Spec    string // cron spec, "@every 1m" style descriptors are accepted
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Cron runs jobs on a robfig/cron scheduler, one run per job at a time.
type Cron struct {
	c   *cron.Cron
	ctx context.Context
	log logger.Logger
}

func New(ctx context.Context, log logger.Logger) *Cron {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	return &Cron{c: c, ctx: ctx, log: log}
}

// Add registers a job. It does not start the scheduler.
func (cr *Cron) Add(job Job) (cron.EntryID, error) {
	return cr.c.AddFunc(job.Spec, func() {
		ctx := wrap.WithAction(cr.ctx, job.Name)
		if job.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, job.Timeout)
			defer cancel()
		}

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			cr.log.Error(wrap.ErrorCtx(ctx, err), "scheduled job failed", err)
			return
		}
		cr.log.Debug(ctx, "scheduled job done", "duration", time.Since(start).String())
	})
}

func (cr *Cron) Start() { cr.c.Start() }

// Stop stops scheduling and waits for running jobs.
func (cr *Cron) Stop() {
	<-cr.c.Stop().Done()
}

func (cr *Cron) Entries() []cron.Entry { return cr.c.Entries() }
