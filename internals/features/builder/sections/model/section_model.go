package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SectionModel is an admin-defined, reusable field-shape ("what fields does
// a section have"). section_fields_config holds the ordered field list as
// JSONB; the stored content records are NOT bound to it (see content store).
type SectionModel struct {
	SectionID uuid.UUID `gorm:"column:section_id;type:uuid;primaryKey" json:"section_id"`

	SectionName string `gorm:"column:section_name;type:varchar(120);not null" json:"section_name"`
	SectionSlug string `gorm:"column:section_slug;type:varchar(160);not null" json:"section_slug"`
	SectionURL  string `gorm:"column:section_url;type:varchar(160);not null" json:"section_url"`

	SectionLayout     string `gorm:"column:section_layout;type:varchar(60)" json:"section_layout"`
	SectionIsRepeater bool   `gorm:"column:section_is_repeater;not null;default:false" json:"section_is_repeater"`

	SectionFieldsConfig datatypes.JSON `gorm:"column:section_fields_config;type:jsonb" json:"section_fields_config"`

	SectionStatus    int       `gorm:"column:section_status;not null;default:1" json:"section_status"`
	SectionCreatedBy string    `gorm:"column:section_created_by;type:varchar(120)" json:"section_created_by"`
	SectionCreatedAt time.Time `gorm:"column:section_created_at;not null;autoCreateTime" json:"section_created_at"`
	SectionUpdatedAt time.Time `gorm:"column:section_updated_at;not null;autoUpdateTime" json:"section_updated_at"`
}

func (SectionModel) TableName() string { return "sections" }

func (m *SectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SectionID == uuid.Nil {
		m.SectionID = uuid.New()
	}
	return nil
}
