package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	linkageController "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/controller"
)

func LinkagePublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := &linkageController.LinkageController{DB: db}
	r.Get("/subjects/:subjectId/linkages", ctl.ListBySubject)
}
