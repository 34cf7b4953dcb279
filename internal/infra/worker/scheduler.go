package worker

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type ProposalExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// DefaultExpirySchedule runs the sweep at minute zero of every hour.
const DefaultExpirySchedule = "0 * * * *"

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		logger: logger,
	}
}

// ScheduleExpiry registers the proposal expiry sweep. ctx bounds every run.
func (s *Scheduler) ScheduleExpiry(ctx context.Context, spec string, expirer ProposalExpirer) error {
	if spec == "" {
		spec = DefaultExpirySchedule
	}
	_, err := s.cron.AddFunc(spec, func() {
		n, err := expirer.ExpireStale(ctx)
		if err != nil {
			s.logger.Error("proposal expiry sweep failed", "error", err)
			return
		}
		s.logger.Debug("proposal expiry sweep finished", "expired", n)
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
