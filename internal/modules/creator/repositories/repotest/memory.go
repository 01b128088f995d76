// Package repotest provides in-memory repositories for service and handler
// tests. They honour the same contracts as the GORM repositories, including
// gorm.ErrRecordNotFound for missing rows.
package repotest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/models"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/repositories"
)

type Users struct {
	mu    sync.Mutex
	rows  map[string]models.User
	Fails map[string]error // per-method injected errors, e.g. "Delete"
}

func NewUsers(seed ...models.User) *Users {
	u := &Users{rows: make(map[string]models.User), Fails: make(map[string]error)}
	for _, row := range seed {
		u.rows[row.UID] = row
	}
	return u
}

// Row returns a copy of the stored user
func (u *Users) Row(uid string) (models.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	row, ok := u.rows[uid]
	return row, ok
}

func (u *Users) Get(_ context.Context, uid string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.Fails["Get"]; err != nil {
		return nil, err
	}
	row, ok := u.rows[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (u *Users) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.rows[user.UID]; ok {
		return gorm.ErrDuplicatedKey
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	u.rows[user.UID] = *user
	return nil
}

func (u *Users) Update(_ context.Context, uid string, fn func(*models.User) error) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.Fails["Update"]; err != nil {
		return nil, err
	}
	row, ok := u.rows[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if err := fn(&row); err != nil {
		return nil, err
	}
	row.UpdatedAt = time.Now()
	u.rows[uid] = row
	return &row, nil
}

func (u *Users) Delete(_ context.Context, uid string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.Fails["Delete"]; err != nil {
		return err
	}
	if _, ok := u.rows[uid]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(u.rows, uid)
	return nil
}

func (u *Users) ListRefillDue(_ context.Context, depletedBefore time.Time, limit int) ([]models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []models.User
	for _, row := range u.rows {
		if row.Credits == 0 && row.CreditDepletedAt != nil && !row.CreditDepletedAt.After(depletedBefore) &&
			row.Plan().AutoRefill() {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreditDepletedAt.Before(*out[j].CreditDepletedAt) })
	return head(out, limit), nil
}

func (u *Users) ListAbandoned(_ context.Context, after repositories.UserCursor, limit int) ([]models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []models.User
	for _, row := range u.rows {
		if row.SubscriptionSelected || row.Credits != 0 || row.SubscriptionPlan != "" || row.PendingPlan != "" {
			continue
		}
		if !cursorLess(after, repositories.CursorOf(row)) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return cursorLess(repositories.CursorOf(out[i]), repositories.CursorOf(out[j]))
	})
	return head(out, limit), nil
}

func cursorLess(a, b repositories.UserCursor) bool {
	if !a.FirstSeen.Equal(b.FirstSeen) {
		return a.FirstSeen.Before(b.FirstSeen)
	}
	return a.UID < b.UID
}

type Scripts struct {
	mu    sync.Mutex
	rows  []models.Script
	Fails map[string]error
}

func NewScripts(seed ...models.Script) *Scripts {
	return &Scripts{rows: seed, Fails: make(map[string]error)}
}

// All returns the stored scripts in insertion order
func (s *Scripts) All() []models.Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Script(nil), s.rows...)
}

func (s *Scripts) Create(_ context.Context, script *models.Script) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Fails["Create"]; err != nil {
		return err
	}
	if script.ID == uuid.Nil {
		script.ID = uuid.New()
	}
	if script.CreatedAt.IsZero() {
		script.CreatedAt = time.Now()
	}
	s.rows = append(s.rows, *script)
	return nil
}

func (s *Scripts) Get(_ context.Context, userUID string, id uuid.UUID) (*models.Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.UserUID == userUID && row.ID == id {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Scripts) List(_ context.Context, filter models.ScriptFilter) ([]models.Script, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.matching(filter.UserUID, filter.Query)
	if filter.After != nil {
		idx := -1
		for i, row := range matched {
			if row.ID == *filter.After {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, gorm.ErrRecordNotFound
		}
		matched = matched[idx+1:]
	}
	return head(matched, filter.Limit), nil
}

func (s *Scripts) Count(_ context.Context, userUID, query string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.matching(userUID, query))), nil
}

// matching mirrors the ILIKE search and the (created_at, id) DESC order
func (s *Scripts) matching(userUID, query string) []models.Script {
	q := strings.ToLower(query)
	var out []models.Script
	for _, row := range s.rows {
		if row.UserUID != userUID {
			continue
		}
		if q == "" || anyContains(q, row.Text, row.Niche, row.SubCategory, row.FollowerCount, row.Tone) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) > 0
	})
	return out
}

// anyContains matches q literally, so % and _ are plain characters here
// just as they are in the escaped ILIKE pattern.
func anyContains(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func head[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// ErrInjected is a convenience failure for Fails maps
var ErrInjected = errors.New("injected failure")

// Events records credit events in memory
type Events struct {
	mu     sync.Mutex
	events []audit.CreditEvent
}

func NewEvents() *Events {
	return &Events{}
}

func (e *Events) Record(_ context.Context, uid, action string, amount, balanceAfter int, _ interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, audit.CreditEvent{
		ID:           uuid.New(),
		UserUID:      uid,
		Action:       action,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now(),
	})
	return nil
}

func (e *Events) History(_ context.Context, uid string, limit int) ([]audit.CreditEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []audit.CreditEvent
	for i := len(e.events) - 1; i >= 0; i-- {
		if e.events[i].UserUID == uid {
			out = append(out, e.events[i])
		}
	}
	return head(out, limit), nil
}

// Actions lists recorded actions for uid, oldest first
func (e *Events) Actions(uid string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, ev := range e.events {
		if ev.UserUID == uid {
			out = append(out, ev.Action)
		}
	}
	return out
}
