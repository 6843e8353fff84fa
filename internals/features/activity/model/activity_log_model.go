package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityLogModel struct {
	ActivityLogID        uuid.UUID      `gorm:"column:activity_log_id;type:uuid;primaryKey" json:"activity_log_id"`
	ActivityLogActor     string         `gorm:"column:activity_log_actor;type:varchar(120)" json:"activity_log_actor"`
	ActivityLogAction    string         `gorm:"column:activity_log_action;type:varchar(40);not null" json:"activity_log_action"`
	ActivityLogModule    string         `gorm:"column:activity_log_module;type:varchar(60);not null;index" json:"activity_log_module"`
	ActivityLogTargetID  string         `gorm:"column:activity_log_target_id;type:varchar(60)" json:"activity_log_target_id"`
	ActivityLogMeta      datatypes.JSON `gorm:"column:activity_log_meta;type:jsonb" json:"activity_log_meta,omitempty"`
	ActivityLogCreatedAt time.Time      `gorm:"column:activity_log_created_at;not null;autoCreateTime;index" json:"activity_log_created_at"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

func (m *ActivityLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.ActivityLogID == uuid.Nil {
		m.ActivityLogID = uuid.New()
	}
	return nil
}
