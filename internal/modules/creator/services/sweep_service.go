package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/credits"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/health"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/repositories"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/shared/utils"
)

const (
	sweepBatch   = 200
	sweepTimeout = 50 * time.Second
)

// SweepService runs the periodic refill and account-health passes
type SweepService struct {
	users    repositories.UserRepo
	accounts *AccountService
	ledger   *credits.Ledger
	now      func() time.Time
}

func NewSweepService(users repositories.UserRepo, accounts *AccountService, ledger *credits.Ledger) *SweepService {
	return &SweepService{
		users:    users,
		accounts: accounts,
		ledger:   ledger,
		now:      time.Now,
	}
}

// Register adds both sweeps to s
func (s *SweepService) Register(sched *scheduler.Scheduler, refillSpec, healthSpec string) error {
	if err := sched.Add("refill", refillSpec, s.job("refill", func(ctx context.Context) error {
		_, err := s.RefillDue(ctx)
		return err
	})); err != nil {
		return err
	}
	return sched.Add("health", healthSpec, s.job("health", func(ctx context.Context) error {
		_, err := s.Health(ctx)
		return err
	}))
}

func (s *SweepService) job(name string, fn func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			utils.LogError("❌ Sweep failed", err, map[string]interface{}{"sweep": name})
		}
	}
}

// RefillDue restores every account whose refill window has elapsed and
// returns how many were refilled.
func (s *SweepService) RefillDue(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ledger.Window())
	users, err := s.users.ListRefillDue(ctx, cutoff, sweepBatch)
	if err != nil {
		return 0, err
	}

	refilled := 0
	for _, u := range users {
		_, ok, err := s.accounts.RefillIfDue(ctx, u.UID, "sweep")
		if err != nil {
			log.Warn().Err(err).Str("uid", u.UID).Msg("refill sweep skipped account")
			continue
		}
		if ok {
			refilled++
		}
	}
	if refilled > 0 {
		log.Info().Int("refilled", refilled).Msg("🔄 Refill sweep")
	}
	return refilled, nil
}

// Health strikes signups that never picked a plan, spent nothing and have
// no checkout open. Everything else is only evaluated when it signs in.
func (s *SweepService) Health(ctx context.Context) (map[health.Outcome]int, error) {
	counts := make(map[health.Outcome]int)
	var after repositories.UserCursor
	for {
		users, err := s.users.ListAbandoned(ctx, after, sweepBatch)
		if err != nil {
			return counts, err
		}

		for i := range users {
			outcome, err := s.accounts.EvaluateHealth(ctx, &users[i])
			if err != nil {
				log.Warn().Err(err).Str("uid", users[i].UID).Msg("health sweep skipped account")
				continue
			}
			counts[outcome]++
		}

		if len(users) < sweepBatch || ctx.Err() != nil {
			break
		}
		after = repositories.CursorOf(users[len(users)-1])
	}

	if counts[health.Strike] > 0 || counts[health.Remove] > 0 {
		log.Info().Int("strikes", counts[health.Strike]).Int("removed", counts[health.Remove]).Msg("🩺 Health sweep")
	}
	return counts, nil
}
