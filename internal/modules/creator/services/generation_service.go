package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/credits"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/script"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/repositories"
)

// Generator is the LLM backend; llm.Service satisfies it
type Generator interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GetProviderName() string
}

type GenerationService struct {
	accounts *AccountService
	users    repositories.UserRepo
	scripts  repositories.ScriptRepo
	llm      Generator
	ledger   *credits.Ledger
	events   audit.Recorder
	now      func() time.Time
}

func NewGenerationService(
	accounts *AccountService,
	users repositories.UserRepo,
	scripts repositories.ScriptRepo,
	llm Generator,
	ledger *credits.Ledger,
	events audit.Recorder,
) *GenerationService {
	return &GenerationService{
		accounts: accounts,
		users:    users,
		scripts:  scripts,
		llm:      llm,
		ledger:   ledger,
		events:   events,
		now:      time.Now,
	}
}

// Generate writes a script for req and charges one generation. The balance
// is checked before the LLM call and debited under a row lock afterwards,
// so a concurrent request that spent the last credits fails cleanly.
func (s *GenerationService) Generate(ctx context.Context, uid string, req script.Request) (*GenerationResult, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	u, _, err := s.accounts.RefillIfDue(ctx, uid, "generate")
	if err != nil {
		return nil, err
	}
	if !s.ledger.CanAfford(u.Balance()) {
		metrics.GenerationsTotal.WithLabelValues("insufficient").Inc()
		return nil, fmt.Errorf("%w: have %d, need %d", credits.ErrInsufficientCredits, u.Credits, s.ledger.Cost())
	}

	start := time.Now()
	raw, err := s.llm.GenerateResponse(ctx, script.BuildSystemPrompt(), script.BuildUserPrompt(req))
	metrics.GenerationDuration.WithLabelValues(s.llm.GetProviderName()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("llm_error").Inc()
		log.Error().Err(err).Str("uid", uid).Str("provider", s.llm.GetProviderName()).Msg("❌ LLM call failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	text := script.Clean(raw)
	if text == "" {
		metrics.GenerationsTotal.WithLabelValues("empty").Inc()
		return nil, fmt.Errorf("%w: empty response from %s", ErrUpstream, s.llm.GetProviderName())
	}

	now := s.now()
	updated, err := s.users.Update(ctx, uid, func(row *models.User) error {
		b := row.Balance()
		if _, err := s.ledger.Debit(&b, now); err != nil {
			return err
		}
		row.SetBalance(b)
		row.RequestCount++
		return nil
	})
	if err != nil {
		if errors.Is(err, credits.ErrInsufficientCredits) {
			metrics.GenerationsTotal.WithLabelValues("insufficient").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("failed to debit credits: %w", notFound(err))
	}

	metrics.GenerationsTotal.WithLabelValues("ok").Inc()
	metrics.CreditsDebited.Add(float64(s.ledger.Cost()))
	if err := s.events.Record(ctx, uid, audit.ActionDebit, -s.ledger.Cost(), updated.Credits, map[string]interface{}{
		"niche": req.Niche,
		"tone":  req.Tone,
	}); err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("failed to record debit")
	}

	result := &GenerationResult{
		Response: text,
		Sections: script.Sections(text),
		Account:  s.accounts.view(updated),
	}
	if saved, err := s.save(ctx, uid, req, text); err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("saving script failed")
	} else {
		result.ScriptID = saved.ID.String()
	}
	return result, nil
}

func (s *GenerationService) save(ctx context.Context, uid string, req script.Request, text string) (*models.Script, error) {
	tags := make([]string, 0, 4)
	for _, t := range []string{req.Niche, req.SubCategory, req.FollowerCount, req.Tone} {
		if t != "" {
			tags = append(tags, t)
		}
	}

	sc := &models.Script{
		UserUID:       uid,
		Text:          text,
		Niche:         req.Niche,
		SubCategory:   req.SubCategory,
		FollowerCount: req.FollowerCount,
		Tone:          req.Tone,
		MoreSpecific:  req.MoreSpecific,
		Length:        len([]rune(text)),
		Tags:          datatypes.NewJSONSlice(tags),
	}
	if err := s.scripts.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}
