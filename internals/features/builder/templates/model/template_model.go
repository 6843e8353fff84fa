package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SectionTemplateModel bundles an ordered set of section ids under a title.
// section_template_sections keeps input order; duplicates are the caller's
// responsibility, the model stores the list as given.
type SectionTemplateModel struct {
	SectionTemplateID uuid.UUID `gorm:"column:section_template_id;type:uuid;primaryKey" json:"section_template_id"`

	SectionTemplateTitle string `gorm:"column:section_template_title;type:varchar(160);not null" json:"section_template_title"`
	SectionTemplateURL   string `gorm:"column:section_template_url;type:varchar(160);not null" json:"section_template_url"`

	SectionTemplateSections pq.StringArray `gorm:"column:section_template_sections;type:text[]" json:"section_template_sections"`

	SectionTemplateStatus    int       `gorm:"column:section_template_status;not null;default:1" json:"section_template_status"`
	SectionTemplateCreatedBy string    `gorm:"column:section_template_created_by;type:varchar(120)" json:"section_template_created_by"`
	SectionTemplateCreatedAt time.Time `gorm:"column:section_template_created_at;not null;autoCreateTime" json:"section_template_created_at"`
	SectionTemplateUpdatedAt time.Time `gorm:"column:section_template_updated_at;not null;autoUpdateTime" json:"section_template_updated_at"`
}

func (SectionTemplateModel) TableName() string { return "section_templates" }

func (m *SectionTemplateModel) BeforeCreate(tx *gorm.DB) error {
	if m.SectionTemplateID == uuid.Nil {
		m.SectionTemplateID = uuid.New()
	}
	return nil
}

// SectionIDs parses the stored list, dropping entries that are not uuids.
func (m SectionTemplateModel) SectionIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m.SectionTemplateSections))
	for _, s := range m.SectionTemplateSections {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
