package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activityRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/activity/route"
	contentRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/content/route"
	linkageRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/route"
	practiceRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/route"
	sectionRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/route"
	templateRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/route"
	subjectRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/route"
	"github.com/abhishekdev8928/wefanss-backend/internals/middlewares"
)

// SetupRoutes mounts the admin surface under /api/a (token-guarded) and
// the read-only public surface under /api/public.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	admin := api.Group("/a", middlewares.AdminGuard())
	sectionRoute.SectionAdminRoutes(admin, db)
	templateRoute.TemplateAdminRoutes(admin, db)
	practiceRoute.PracticeAdminRoutes(admin, db)
	subjectRoute.SubjectAdminRoutes(admin, db)
	contentRoute.ContentAdminRoutes(admin, db)
	activityRoute.ActivityAdminRoutes(admin, db)

	public := api.Group("/public")
	linkageRoute.LinkagePublicRoutes(public, db)
	contentRoute.ContentPublicRoutes(public, db)

	log.Println("[INFO] ✅ Routes mounted: /api/a (admin), /api/public")
}
