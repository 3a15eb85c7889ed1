package scheduler

import (
	"context"
	"fmt"
	"time"

	"leyning_exporter/internal/infra/logger"

	"github.com/robfig/cron/v3"
)

// runTimeout bounds a single scheduled export; rate-limit pauses make runs
// slow, but not this slow.
const runTimeout = 30 * time.Minute

// RunFunc executes one full export run.
type RunFunc func(ctx context.Context) error

// ExportScheduler re-runs the export on a cron spec so the target sheet
// tracks the date range without manual invocations.
type ExportScheduler struct {
	cronEngine *cron.Cron
	run        RunFunc
	spec       string
}

func NewExportScheduler(spec string, run RunFunc) *ExportScheduler {
	return &ExportScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		run:        run,
		spec:       spec,
	}
}

func (s *ExportScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.spec, func() {
		logger.Log.Infof("Scheduled export triggered (spec %q)", s.spec)
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if err := s.run(ctx); err != nil {
			logger.Log.Errorf("Scheduled export failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("could not add export cron job: %w", err)
	}

	s.cronEngine.Start()
	logger.Log.Infof("Export scheduler started with spec %q", s.spec)
	return nil
}

func (s *ExportScheduler) Stop() {
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	logger.Log.Info("Export scheduler stopped")
}
