package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	activityModel "github.com/abhishekdev8928/wefanss-backend/internals/features/activity/model"
	linkageModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/model"
	syncService "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/service"
	practiceModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/model"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
	templateModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/model"
	templateRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/route"
	subjectModel "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/model"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&sectionModel.SectionModel{},
		&subjectModel.SubjectModel{},
		&subjectModel.SubjectPracticeModel{},
		&linkageModel.SubjectSectionModel{},
		&activityModel.ActivityLogModel{},
	))

	// array columns as plain text, pq arrays round-trip through their
	// text representation
	require.NoError(t, db.Exec(`CREATE TABLE section_templates (
		section_template_id text PRIMARY KEY,
		section_template_title text NOT NULL,
		section_template_url text NOT NULL DEFAULT '',
		section_template_sections text,
		section_template_status integer NOT NULL DEFAULT 1,
		section_template_created_by text,
		section_template_created_at datetime,
		section_template_updated_at datetime
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE practices (
		practice_id text PRIMARY KEY,
		practice_name text NOT NULL,
		practice_slug text NOT NULL DEFAULT '',
		practice_url text NOT NULL DEFAULT '',
		practice_image text NOT NULL DEFAULT '',
		practice_templates text,
		practice_status integer NOT NULL DEFAULT 1,
		practice_created_by text,
		practice_created_at datetime,
		practice_updated_at datetime
	)`).Error)

	app := fiber.New()
	templateRoute.TemplateAdminRoutes(app.Group("/api/a"), db)
	return app, db
}

func seedSection(t *testing.T, db *gorm.DB, name string) sectionModel.SectionModel {
	t.Helper()
	s := sectionModel.SectionModel{SectionName: name, SectionSlug: name, SectionURL: name, SectionStatus: 1}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedTemplate(t *testing.T, db *gorm.DB, title, url string, sectionIDs ...uuid.UUID) templateModel.SectionTemplateModel {
	t.Helper()
	tpl := templateModel.SectionTemplateModel{
		SectionTemplateTitle:  title,
		SectionTemplateURL:    url,
		SectionTemplateStatus: 1,
	}
	for _, id := range sectionIDs {
		tpl.SectionTemplateSections = append(tpl.SectionTemplateSections, id.String())
	}
	require.NoError(t, db.Create(&tpl).Error)
	return tpl
}

func seedEntitledSubject(t *testing.T, db *gorm.DB, templateID uuid.UUID) (practiceModel.PracticeModel, subjectModel.SubjectModel) {
	t.Helper()
	p := practiceModel.PracticeModel{
		PracticeName: "Politics", PracticeSlug: "politics", PracticeURL: "politics",
		PracticeTemplates: []string{templateID.String()}, PracticeStatus: 1,
	}
	require.NoError(t, db.Create(&p).Error)
	s := subjectModel.SubjectModel{SubjectName: "subject-a", SubjectSlug: "subject-a", SubjectURL: "subject-a", SubjectStatus: 1}
	require.NoError(t, db.Create(&s).Error)
	require.NoError(t, db.Create(&subjectModel.SubjectPracticeModel{
		SubjectPracticeSubjectID:  s.SubjectID,
		SubjectPracticePracticeID: p.PracticeID,
	}).Error)
	return p, s
}

func patchJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Removing a section from a template must never retract linkage rows that
// were materialized while it was listed.
func TestUpdateTemplateRemovedSectionKeepsLinkages(t *testing.T) {
	app, db := newTestApp(t)

	positions := seedSection(t, db, "Positions")
	elections := seedSection(t, db, "Elections")
	tpl := seedTemplate(t, db, "Politician", "politician", positions.SectionID, elections.SectionID)
	practice, _ := seedEntitledSubject(t, db, tpl.SectionTemplateID)

	svc := syncService.NewSyncService(db)
	require.NoError(t, svc.Sync(context.Background(), practice.PracticeID, practice.TemplateIDs(), nil))

	var total int64
	require.NoError(t, db.Model(&linkageModel.SubjectSectionModel{}).Count(&total).Error)
	require.EqualValues(t, 2, total)

	resp := patchJSON(t, app, "/api/a/templates/"+tpl.SectionTemplateID.String(), map[string]any{
		"title":    "Politician",
		"sections": []string{positions.SectionID.String()},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// the template shrank but the materialized rows survive
	var reloaded templateModel.SectionTemplateModel
	require.NoError(t, db.First(&reloaded, "section_template_id = ?", tpl.SectionTemplateID).Error)
	require.Equal(t, []uuid.UUID{positions.SectionID}, reloaded.SectionIDs())

	require.NoError(t, db.Model(&linkageModel.SubjectSectionModel{}).Count(&total).Error)
	require.EqualValues(t, 2, total)

	var kept int64
	require.NoError(t, db.Model(&linkageModel.SubjectSectionModel{}).
		Where("subject_section_section_id = ?", elections.SectionID).
		Count(&kept).Error)
	require.EqualValues(t, 1, kept)
}

func TestUpdateTemplateAddedSectionPropagates(t *testing.T) {
	app, db := newTestApp(t)

	positions := seedSection(t, db, "Positions")
	tpl := seedTemplate(t, db, "Politician", "politician", positions.SectionID)
	practice, subject := seedEntitledSubject(t, db, tpl.SectionTemplateID)

	svc := syncService.NewSyncService(db)
	require.NoError(t, svc.Sync(context.Background(), practice.PracticeID, practice.TemplateIDs(), nil))

	elections := seedSection(t, db, "Elections")
	resp := patchJSON(t, app, "/api/a/templates/"+tpl.SectionTemplateID.String(), map[string]any{
		"title":    "Politician",
		"sections": []string{positions.SectionID.String(), elections.SectionID.String()},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rows []linkageModel.SubjectSectionModel
	require.NoError(t, db.Where("subject_section_section_id = ?", elections.SectionID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, subject.SubjectID, rows[0].SubjectSectionSubjectID)
	require.Equal(t, "Elections", rows[0].SubjectSectionNameSnapshot)
}

// Distinct titles can slugify to the same url; a rename must not silently
// take another template's url.
func TestUpdateTemplateURLAvoidsCollision(t *testing.T) {
	app, db := newTestApp(t)

	seedTemplate(t, db, "Alpha", "alpha")
	other := seedTemplate(t, db, "Beta", "beta")

	resp := patchJSON(t, app, "/api/a/templates/"+other.SectionTemplateID.String(), map[string]any{
		"title":    "Alpha&",
		"sections": []string{},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	data := body["data"].(map[string]any)
	require.Equal(t, "alpha-2", data["url"])

	// renaming back to its own slug keeps it, self is excluded
	resp = patchJSON(t, app, "/api/a/templates/"+other.SectionTemplateID.String(), map[string]any{
		"title":    "Beta",
		"sections": []string{},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "beta", body["data"].(map[string]any)["url"])
}
