package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recorder stores credit events. Callers treat failures as non-fatal.
type Recorder interface {
	Record(ctx context.Context, uid, action string, amount, balanceAfter int, metadata interface{}) error
	History(ctx context.Context, uid string, limit int) ([]CreditEvent, error)
}

// Service provides the gorm-backed credit event log
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record appends an event for uid
func (s *Service) Record(ctx context.Context, uid, action string, amount, balanceAfter int, metadata interface{}) error {
	meta, err := toJSON(metadata)
	if err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("failed to serialize event metadata")
	}

	event := &CreditEvent{
		UserUID:      uid,
		Action:       action,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Metadata:     meta,
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create credit event: %w", err)
	}
	return nil
}

// History returns the newest events for uid
func (s *Service) History(ctx context.Context, uid string, limit int) ([]CreditEvent, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var events []CreditEvent
	err := s.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get credit history: %w", err)
	}
	return events, nil
}

func toJSON(value interface{}) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}

	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(bytes), nil
}
