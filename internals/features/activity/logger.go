package activity

import (
	"encoding/json"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/abhishekdev8928/wefanss-backend/internals/features/activity/model"
)

// Record writes one audit row. Best effort: a failed insert is logged and
// swallowed so it can never break the mutation that triggered it.
func Record(db *gorm.DB, actor, action, module, targetID string, meta map[string]any) {
	row := model.ActivityLogModel{
		ActivityLogActor:    actor,
		ActivityLogAction:   action,
		ActivityLogModule:   module,
		ActivityLogTargetID: targetID,
	}
	if len(meta) > 0 {
		if raw, err := json.Marshal(meta); err == nil {
			row.ActivityLogMeta = datatypes.JSON(raw)
		}
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("[ERROR] activity log failed module=%s action=%s target=%s: %v", module, action, targetID, err)
	}
}
