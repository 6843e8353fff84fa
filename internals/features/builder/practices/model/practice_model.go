package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PracticeModel is a profession/category. practice_templates lists the
// section templates every subject carrying this practice is entitled to.
type PracticeModel struct {
	PracticeID uuid.UUID `gorm:"column:practice_id;type:uuid;primaryKey" json:"practice_id"`

	PracticeName  string `gorm:"column:practice_name;type:varchar(120);not null" json:"practice_name"`
	PracticeSlug  string `gorm:"column:practice_slug;type:varchar(160);not null" json:"practice_slug"`
	PracticeURL   string `gorm:"column:practice_url;type:varchar(160);not null" json:"practice_url"`
	PracticeImage string `gorm:"column:practice_image;type:text" json:"practice_image"`

	PracticeTemplates pq.StringArray `gorm:"column:practice_templates;type:text[]" json:"practice_templates"`

	PracticeStatus    int       `gorm:"column:practice_status;not null;default:1" json:"practice_status"`
	PracticeCreatedBy string    `gorm:"column:practice_created_by;type:varchar(120)" json:"practice_created_by"`
	PracticeCreatedAt time.Time `gorm:"column:practice_created_at;not null;autoCreateTime" json:"practice_created_at"`
	PracticeUpdatedAt time.Time `gorm:"column:practice_updated_at;not null;autoUpdateTime" json:"practice_updated_at"`
}

func (PracticeModel) TableName() string { return "practices" }

func (m *PracticeModel) BeforeCreate(tx *gorm.DB) error {
	if m.PracticeID == uuid.Nil {
		m.PracticeID = uuid.New()
	}
	return nil
}

// TemplateIDs parses the stored list, dropping entries that are not uuids.
func (m PracticeModel) TemplateIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m.PracticeTemplates))
	for _, s := range m.PracticeTemplates {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// HasTemplate reports whether the practice references the given template.
func (m PracticeModel) HasTemplate(id uuid.UUID) bool {
	s := id.String()
	for _, t := range m.PracticeTemplates {
		if t == s {
			return true
		}
	}
	return false
}
