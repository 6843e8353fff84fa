package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subjectController "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/controller"
)

func SubjectAdminRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := subjectController.NewSubjectController(db)

	subjects := router.Group("/subjects")
	subjects.Post("/", ctrl.Create)
	subjects.Get("/", ctrl.List)
	subjects.Get("/options", ctrl.Options)
	subjects.Patch("/status", ctrl.UpdateStatus)
	subjects.Get("/:id", ctrl.GetByID)
	subjects.Patch("/:id", ctrl.Update)
	subjects.Delete("/:id", ctrl.Delete)
}
