package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Turn string

const (
	TurnYours  Turn = "your turn"
	TurnTheirs Turn = "their turn"
)

// Conversation is the append-only message thread between a project and one
// contact. At most one exists per (ProjectID, ContactID).
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_project_contact,priority:1" json:"projectId"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_project_contact,priority:2" json:"contactId"`
	Messages  []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Turn reports who is expected to write next. An empty thread counts as
// their turn.
func (c *Conversation) Turn() Turn {
	if n := len(c.Messages); n > 0 && c.Messages[n-1].Direction == DirectionInbound {
		return TurnYours
	}
	return TurnTheirs
}

// LastMessage returns the newest message, or nil for an empty thread.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}
