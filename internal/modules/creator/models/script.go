package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Script is one saved generation
type Script struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserUID string    `gorm:"type:text;not null;index:idx_scripts_user_created,priority:1" json:"-"`

	Text          string `gorm:"type:text;not null" json:"text"`
	Niche         string `gorm:"type:text" json:"niche,omitempty"`
	SubCategory   string `gorm:"type:text" json:"sub_category,omitempty"`
	FollowerCount string `gorm:"type:text" json:"follower_count,omitempty"`
	Tone          string `gorm:"type:text" json:"tone,omitempty"`
	MoreSpecific  string `gorm:"type:text" json:"more_specific,omitempty"`
	Length        int    `gorm:"not null;default:0" json:"length"`

	Tags datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_scripts_user_created,priority:2" json:"created_at"`

	User User `gorm:"foreignKey:UserUID;references:UID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Script) TableName() string {
	return "creator_scripts"
}

// BeforeCreate sets UUID before creating
func (s *Script) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ScriptFilter selects a page of a user's scripts, newest first.
// After is the id of the last script of the previous page.
type ScriptFilter struct {
	UserUID string
	Query   string
	After   *uuid.UUID
	Limit   int
}

// ScriptPage is one page of the script list
type ScriptPage struct {
	Scripts    []Script `json:"scripts"`
	Total      int64    `json:"total"`
	NextCursor string   `json:"next_cursor,omitempty"`
}
