package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activityModel "github.com/abhishekdev8928/wefanss-backend/internals/features/activity/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type ActivityController struct {
	DB *gorm.DB
}

// GET /api/a/activity?module=sections
func (h *ActivityController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := h.DB.Model(&activityModel.ActivityLogModel{})
	if mod := c.Query("module"); mod != "" {
		q = q.Where("activity_log_module = ?", mod)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count activity")
	}

	var rows []activityModel.ActivityLogModel
	if err := q.Order("activity_log_created_at desc").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load activity")
	}

	return helper.JsonList(c, "Activity loaded", rows, helper.BuildMeta(total, p))
}
