package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sectionController "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/controller"
)

// SectionAdminRoutes mounts the section registry CRUD.
func SectionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := sectionController.NewSectionController(db)
	sections := r.Group("/sections")
	sections.Post("/", ctl.Create)
	sections.Get("/", ctl.List)
	sections.Get("/options", ctl.Options)
	sections.Patch("/status", ctl.UpdateStatus)
	sections.Get("/:id", ctl.GetByID)
	sections.Patch("/:id", ctl.Update)
	sections.Delete("/:id", ctl.Delete)
}
