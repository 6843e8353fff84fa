package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	contentController "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/content/controller"
)

func ContentAdminRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := contentController.NewContentController(db)

	content := router.Group("/content")
	content.Post("/", ctrl.Save)
	content.Post("/update", ctrl.Update)
	content.Post("/validate", ctrl.ValidatePayload)
	content.Get("/:subjectId/:sectionId", ctrl.ListBySection)
	content.Get("/:subjectId/:sectionId/:recordId", ctrl.GetByID)
	content.Delete("/:subjectId/:sectionName/:recordId", ctrl.Delete)
}

// ContentPublicRoutes exposes the read side only.
func ContentPublicRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := contentController.NewContentController(db)

	content := router.Group("/content")
	content.Get("/:subjectId/:sectionId", ctrl.ListBySection)
	content.Get("/:subjectId/:sectionId/:recordId", ctrl.GetByID)
}
