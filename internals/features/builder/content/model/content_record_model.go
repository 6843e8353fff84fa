package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentRecordModel is one open-shape document in a dynamic container.
// The container is the lower-cased section name; nothing binds the stored
// values to the section's declared field shapes, whatever the client
// submits is persisted verbatim.
type ContentRecordModel struct {
	ContentRecordID uuid.UUID `gorm:"column:content_record_id;type:uuid;primaryKey" json:"content_record_id"`

	ContentRecordContainer string    `gorm:"column:content_record_container;type:varchar(160);not null;index:idx_content_records_lookup" json:"content_record_container"`
	ContentRecordSubjectID uuid.UUID `gorm:"column:content_record_subject_id;type:uuid;not null;index:idx_content_records_lookup" json:"content_record_subject_id"`

	ContentRecordTemplateID uuid.UUID `gorm:"column:content_record_template_id;type:uuid" json:"content_record_template_id"`

	ContentRecordValues datatypes.JSONMap `gorm:"column:content_record_values;type:jsonb" json:"content_record_values"`

	ContentRecordCreatedAt time.Time `gorm:"column:content_record_created_at;not null;autoCreateTime" json:"content_record_created_at"`
	ContentRecordUpdatedAt time.Time `gorm:"column:content_record_updated_at;not null;autoUpdateTime" json:"content_record_updated_at"`
}

func (ContentRecordModel) TableName() string { return "content_records" }

func (m *ContentRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.ContentRecordID == uuid.Nil {
		m.ContentRecordID = uuid.New()
	}
	return nil
}
