// Package rollover resets pick counters on a schedule.
//
// Out of the box the service never resets anyone's counter: the "weekly"
// free limit and "daily" paid limit are lifetime ceilings, and the only
// reset path is the upgrade. This job is the opt-in alternative: when
// picks.rollover is enabled it walks every stored ledger on two cron
// schedules and zeroes picksMade for the matching tier — weekly for free
// ledgers, daily for paid ones. Picked ids and purchase records are never
// touched; only the counter rolls over.
package rollover

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/sakif/breakout-edge/internal/model"
	"github.com/sakif/breakout-edge/internal/repository"
)

// Job owns the cron runner and the two reset entries.
type Job struct {
	ledgers repository.LedgerRepository
	logger  *slog.Logger
	cron    *cron.Cron
}

// New builds the job with the two schedules in standard 5-field cron
// syntax (descriptors like @weekly work too). The job is inert until
// Start.
func New(ledgers repository.LedgerRepository, logger *slog.Logger, freeSchedule, paidSchedule string) (*Job, error) {
	j := &Job{
		ledgers: ledgers,
		logger:  logger,
		cron:    cron.New(),
	}

	if _, err := j.cron.AddFunc(freeSchedule, func() { j.run(model.TierFree) }); err != nil {
		return nil, fmt.Errorf("rollover: bad free schedule %q: %w", freeSchedule, err)
	}
	if _, err := j.cron.AddFunc(paidSchedule, func() { j.run(model.TierPaid) }); err != nil {
		return nil, fmt.Errorf("rollover: bad paid schedule %q: %w", paidSchedule, err)
	}

	return j, nil
}

// Start launches the scheduler in its own goroutine.
func (j *Job) Start() {
	j.cron.Start()
	j.logger.Info("pick rollover scheduler started")
}

// Stop halts the scheduler and waits for any in-flight reset to finish.
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("pick rollover scheduler stopped")
}

func (j *Job) run(tier model.Tier) {
	if err := j.Reset(context.Background(), tier); err != nil {
		j.logger.Error("pick rollover failed",
			slog.String("tier", string(tier)),
			slog.String("error", err.Error()),
		)
	}
}

// Reset zeroes the pick counter of every stored ledger on the given tier.
// Ledgers on the other tier, picked ids, and purchase records are left
// alone. Each ledger is written individually; a failure mid-walk leaves
// earlier resets in place.
func (j *Job) Reset(ctx context.Context, tier model.Tier) error {
	usernames, err := j.ledgers.Usernames(ctx)
	if err != nil {
		return fmt.Errorf("rollover: listing ledgers: %w", err)
	}

	reset := 0
	for _, username := range usernames {
		ledger, err := j.ledgers.Get(ctx, username)
		if err != nil {
			return fmt.Errorf("rollover: loading ledger for %s: %w", username, err)
		}
		if ledger.Tier != tier || ledger.PicksMade == 0 {
			continue
		}

		ledger.PicksMade = 0
		if err := j.ledgers.Save(ctx, username, ledger); err != nil {
			return fmt.Errorf("rollover: saving ledger for %s: %w", username, err)
		}
		reset++
	}

	j.logger.Info("pick counters rolled over",
		slog.String("tier", string(tier)),
		slog.Int("ledgers", reset),
	)
	return nil
}
