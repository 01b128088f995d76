package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
)

type ScriptRepo interface {
	Create(ctx context.Context, script *models.Script) error
	Get(ctx context.Context, userUID string, id uuid.UUID) (*models.Script, error)
	List(ctx context.Context, filter models.ScriptFilter) ([]models.Script, error)
	Count(ctx context.Context, userUID, query string) (int64, error)
}

type scriptRepo struct {
	db *gorm.DB
}

func NewScriptRepo(db *gorm.DB) ScriptRepo {
	return &scriptRepo{db: db}
}

func (r *scriptRepo) Create(ctx context.Context, script *models.Script) error {
	return r.db.WithContext(ctx).Create(script).Error
}

func (r *scriptRepo) Get(ctx context.Context, userUID string, id uuid.UUID) (*models.Script, error) {
	var script models.Script
	err := r.db.WithContext(ctx).
		Where("user_uid = ? AND id = ?", userUID, id).
		First(&script).Error
	if err != nil {
		return nil, err
	}
	return &script, nil
}

// List pages newest first. The cursor is keyset on (created_at, id) so
// scripts saved in the same instant are neither skipped nor repeated.
func (r *scriptRepo) List(ctx context.Context, filter models.ScriptFilter) ([]models.Script, error) {
	query := r.search(r.db.WithContext(ctx).Model(&models.Script{}), filter.UserUID, filter.Query)

	if filter.After != nil {
		var last models.Script
		if err := r.db.WithContext(ctx).
			Select("created_at", "id").
			Where("user_uid = ? AND id = ?", filter.UserUID, *filter.After).
			First(&last).Error; err != nil {
			return nil, err
		}
		query = query.Where("(created_at, id) < (?, ?)", last.CreatedAt, last.ID)
	}

	var scripts []models.Script
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Find(&scripts).Error
	return scripts, err
}

func (r *scriptRepo) Count(ctx context.Context, userUID, query string) (int64, error) {
	var total int64
	err := r.search(r.db.WithContext(ctx).Model(&models.Script{}), userUID, query).
		Count(&total).Error
	return total, err
}

// likeEscaper makes a search term match literally inside an ILIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *scriptRepo) search(q *gorm.DB, userUID, term string) *gorm.DB {
	q = q.Where("user_uid = ?", userUID)
	if term != "" {
		pattern := "%" + likeEscaper.Replace(term) + "%"
		q = q.Where(`(text ILIKE ? ESCAPE '\' OR niche ILIKE ? ESCAPE '\' OR sub_category ILIKE ? ESCAPE '\' OR follower_count ILIKE ? ESCAPE '\' OR tone ILIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern, pattern)
	}
	return q
}
