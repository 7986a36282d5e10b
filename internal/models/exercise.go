package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exercise is a coding task with instructions and starter code.
type Exercise struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string    `gorm:"size:100;not null" json:"name"`
	Slug               string    `gorm:"size:120;not null;index" json:"slug"`
	Instructions       string    `gorm:"type:text" json:"instructions"`
	OutputInstructions string    `gorm:"type:text" json:"output_instructions"`
	Code               string    `gorm:"type:text" json:"code"`
	CreatorID          uint      `gorm:"not null;index" json:"creator_id"`
	Creator            User      `gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random identifier when none was provided.
func (e *Exercise) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
