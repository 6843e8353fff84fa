package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	templateController "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/controller"
)

func TemplateAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := templateController.NewTemplateController(db)
	templates := r.Group("/templates")
	templates.Post("/", ctl.Create)
	templates.Get("/", ctl.List)
	templates.Get("/options", ctl.Options)
	templates.Patch("/status", ctl.UpdateStatus)
	templates.Get("/:id", ctl.GetByID)
	templates.Patch("/:id", ctl.Update)
	templates.Delete("/:id", ctl.Delete)
}
