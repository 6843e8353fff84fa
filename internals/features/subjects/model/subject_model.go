package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID uuid.UUID `gorm:"column:subject_id;type:uuid;primaryKey" json:"subject_id"`

	SubjectName string `gorm:"column:subject_name;type:varchar(160);not null" json:"subject_name"`
	SubjectSlug string `gorm:"column:subject_slug;type:varchar(160);not null" json:"subject_slug"`
	SubjectURL  string `gorm:"column:subject_url;type:varchar(160);not null" json:"subject_url"`

	SubjectShortInfo *string `gorm:"column:subject_short_info;type:text" json:"subject_short_info,omitempty"`
	SubjectBiography *string `gorm:"column:subject_biography;type:text" json:"subject_biography,omitempty"`
	SubjectGender    *string `gorm:"column:subject_gender;type:varchar(20)" json:"subject_gender,omitempty"`
	SubjectDOB       *string `gorm:"column:subject_dob;type:varchar(20)" json:"subject_dob,omitempty"`

	SubjectStatus    int       `gorm:"column:subject_status;not null;default:1" json:"subject_status"`
	SubjectCreatedBy string    `gorm:"column:subject_created_by;type:varchar(120)" json:"subject_created_by"`
	SubjectCreatedAt time.Time `gorm:"column:subject_created_at;not null;autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt time.Time `gorm:"column:subject_updated_at;not null;autoUpdateTime" json:"subject_updated_at"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectID == uuid.Nil {
		m.SubjectID = uuid.New()
	}
	return nil
}

// SubjectPracticeModel is the subject ↔ practice membership row. It is the
// canonical source for "which subjects carry practice X" used by the sync
// engine (both the practice-update and template-update paths).
type SubjectPracticeModel struct {
	SubjectPracticeID         uuid.UUID `gorm:"column:subject_practice_id;type:uuid;primaryKey" json:"subject_practice_id"`
	SubjectPracticeSubjectID  uuid.UUID `gorm:"column:subject_practice_subject_id;type:uuid;not null;uniqueIndex:uq_subject_practices;index" json:"subject_practice_subject_id"`
	SubjectPracticePracticeID uuid.UUID `gorm:"column:subject_practice_practice_id;type:uuid;not null;uniqueIndex:uq_subject_practices;index" json:"subject_practice_practice_id"`
	SubjectPracticeCreatedAt  time.Time `gorm:"column:subject_practice_created_at;not null;autoCreateTime" json:"subject_practice_created_at"`
}

func (SubjectPracticeModel) TableName() string { return "subject_practices" }

func (m *SubjectPracticeModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectPracticeID == uuid.Nil {
		m.SubjectPracticeID = uuid.New()
	}
	return nil
}
