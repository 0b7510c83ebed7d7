package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateKind string

const (
	TemplateInitial  TemplateKind = "initial"
	TemplateResponse TemplateKind = "response"
	TemplateBlock    TemplateKind = "block"
)

func (k TemplateKind) Valid() bool {
	switch k {
	case TemplateInitial, TemplateResponse, TemplateBlock:
		return true
	}
	return false
}

// Template content may contain [fieldName] placeholders.
type Template struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID    `gorm:"type:uuid;not null;index" json:"projectId"`
	Name      string       `gorm:"type:varchar(255)" json:"name,omitempty"`
	Kind      TemplateKind `gorm:"type:varchar(20);not null" json:"kind"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (Template) TableName() string {
	return "templates"
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
