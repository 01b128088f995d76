package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/plan"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
)

type UserRepo interface {
	Get(ctx context.Context, uid string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// Update loads uid under a row lock, applies fn and saves the result in
	// the same transaction. Nothing is written when fn returns an error.
	Update(ctx context.Context, uid string, fn func(*models.User) error) (*models.User, error)
	Delete(ctx context.Context, uid string) error
	ListRefillDue(ctx context.Context, depletedBefore time.Time, limit int) ([]models.User, error)
	// ListAbandoned pages through unconfirmed signups that hold no credits,
	// no plan and no checkout, ordered by (first_seen, uid) after the cursor.
	ListAbandoned(ctx context.Context, after UserCursor, limit int) ([]models.User, error)
}

// UserCursor is a keyset position; the zero value starts from the beginning
type UserCursor struct {
	FirstSeen time.Time
	UID       string
}

// CursorOf returns the position just after u
func CursorOf(u models.User) UserCursor {
	return UserCursor{FirstSeen: u.FirstSeen, UID: u.UID}
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Get(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "uid = ?", uid).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) Update(ctx context.Context, uid string, fn func(*models.User) error) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "uid = ?", uid).Error; err != nil {
			return err
		}
		if err := fn(&user); err != nil {
			return err
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Delete(ctx context.Context, uid string) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "uid = ?", uid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListRefillDue returns auto-refill accounts that ran dry before the cutoff
func (r *userRepo) ListRefillDue(ctx context.Context, depletedBefore time.Time, limit int) ([]models.User, error) {
	var refillable []string
	for _, t := range plan.All() {
		if t.AutoRefill {
			refillable = append(refillable, t.Plan.String())
		}
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Where("credits = 0 AND credit_depleted_at IS NOT NULL AND credit_depleted_at <= ?", depletedBefore).
		Where("subscription_plan IN ?", refillable).
		Order("credit_depleted_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListAbandoned(ctx context.Context, after UserCursor, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("subscription_selected = ? AND credits = 0 AND subscription_plan = '' AND pending_plan = ''", false).
		Where("(first_seen, uid) > (?, ?)", after.FirstSeen, after.UID).
		Order("first_seen ASC").
		Order("uid ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
