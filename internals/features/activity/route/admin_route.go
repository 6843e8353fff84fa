package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activityController "github.com/abhishekdev8928/wefanss-backend/internals/features/activity/controller"
)

func ActivityAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := &activityController.ActivityController{DB: db}
	r.Get("/activity", ctl.List)
}
