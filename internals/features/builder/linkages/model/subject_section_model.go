package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectSectionModel is one materialized (subject, practice, template,
// section) entitlement. Rows are created only by the sync engine and never
// updated in place; the composite unique index turns the engine's
// check-then-insert race into a harmless conflict.
type SubjectSectionModel struct {
	SubjectSectionID uuid.UUID `gorm:"column:subject_section_id;type:uuid;primaryKey" json:"subject_section_id"`

	SubjectSectionSubjectID  uuid.UUID `gorm:"column:subject_section_subject_id;type:uuid;not null;uniqueIndex:uq_subject_sections_tuple;index" json:"subject_section_subject_id"`
	SubjectSectionPracticeID uuid.UUID `gorm:"column:subject_section_practice_id;type:uuid;not null;uniqueIndex:uq_subject_sections_tuple" json:"subject_section_practice_id"`
	SubjectSectionTemplateID uuid.UUID `gorm:"column:subject_section_template_id;type:uuid;not null;uniqueIndex:uq_subject_sections_tuple" json:"subject_section_template_id"`
	SubjectSectionSectionID  uuid.UUID `gorm:"column:subject_section_section_id;type:uuid;not null;uniqueIndex:uq_subject_sections_tuple" json:"subject_section_section_id"`

	// Denormalized copy of the section name at creation time so listing for
	// rendering does not need a registry join.
	SubjectSectionNameSnapshot string `gorm:"column:subject_section_name_snapshot;type:varchar(120);not null" json:"subject_section_name_snapshot"`

	SubjectSectionCreatedAt time.Time `gorm:"column:subject_section_created_at;not null;autoCreateTime" json:"subject_section_created_at"`
}

func (SubjectSectionModel) TableName() string { return "subject_sections" }

func (m *SubjectSectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectSectionID == uuid.Nil {
		m.SubjectSectionID = uuid.New()
	}
	return nil
}
