package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_projects_user_name,priority:1" json:"userId"`
	Name              string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_user_name,priority:2" json:"name"`
	OriginationNumber string    `gorm:"type:varchar(20)" json:"originationNumber,omitempty"`
	RotationSchedule  string    `gorm:"type:varchar(64)" json:"rotationSchedule,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Overview summarizes every project owned by one user.
type Overview struct {
	TotalProjects      int64 `json:"totalProjects"`
	TotalContacts      int64 `json:"totalContacts"`
	TotalConversations int64 `json:"totalConversations"`
	TotalMessages      int64 `json:"totalMessages"`
}
