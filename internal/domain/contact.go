package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Contact struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"projectId"`
	Phone      string            `gorm:"type:varchar(20);index" json:"phone"`
	FName      string            `gorm:"column:fname;type:varchar(255)" json:"fname"`
	LName      string            `gorm:"column:lname;type:varchar(255)" json:"lname"`
	SurveyLink string            `gorm:"type:text" json:"surveyLink"`
	Fields     datatypes.JSONMap `json:"fields,omitempty"` // imported columns beyond the named ones
	ImportRow  int               `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FieldMap flattens the contact into placeholder keys. Named fields win over
// extension fields of the same name.
func (c *Contact) FieldMap() map[string]string {
	fields := make(map[string]string, len(c.Fields)+4)
	for k, v := range c.Fields {
		if v == nil {
			continue
		}
		fields[k] = fmt.Sprint(v)
	}
	fields["phone"] = c.Phone
	fields["fname"] = c.FName
	fields["lname"] = c.LName
	fields["surveyLink"] = c.SurveyLink
	return fields
}

// DisplayName is "fname lname" as used in reports.
func (c *Contact) DisplayName() string {
	return c.FName + " " + c.LName
}
