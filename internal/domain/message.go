package domain

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Message is a single entry of a conversation thread. Status is whatever the
// provider reported and is stored verbatim.
type Message struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	ConversationID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_messages_seq,priority:1" json:"-"`
	Seq               int       `gorm:"not null;uniqueIndex:idx_conversation_messages_seq,priority:2" json:"-"`
	Body              string    `gorm:"type:text;not null" json:"body"`
	Direction         Direction `gorm:"type:varchar(10);not null;index" json:"direction"`
	Status            string    `gorm:"type:varchar(32)" json:"status"`
	ProviderMessageID string    `gorm:"type:varchar(64)" json:"providerMessageId,omitempty"`
	Timestamp         time.Time `gorm:"not null" json:"timestamp"`
}

func (Message) TableName() string {
	return "conversation_messages"
}
