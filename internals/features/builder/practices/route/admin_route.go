package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	practiceController "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/controller"
)

func PracticeAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := practiceController.NewPracticeController(db)
	practices := r.Group("/practices")
	practices.Post("/", ctl.Create)
	practices.Get("/", ctl.List)
	practices.Get("/options", ctl.Options)
	practices.Patch("/status", ctl.UpdateStatus)
	practices.Get("/:id", ctl.GetByID)
	practices.Patch("/:id", ctl.Update)
	practices.Delete("/:id", ctl.Delete)
}
