package controller_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	activityModel "github.com/abhishekdev8928/wefanss-backend/internals/features/activity/model"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
	sectionRoute "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/route"
)

func newTestApp(t *testing.T) *fiber.App {
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
		&activityModel.ActivityLogModel{},
	))

	app := fiber.New()
	sectionRoute.SectionAdminRoutes(app.Group("/api/a"), db)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCreateSection(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/a/sections/", map[string]any{
		"name":          "Awards",
		"fields_config": `[{"title":"Award Type","type":"select","options":["Best Actor","Best Director"]}]`,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	require.Equal(t, "Awards", data["name"])
	require.Equal(t, "awards", data["slug"])

	fields := data["fields_config"].([]any)
	require.Len(t, fields, 1)
	options := fields[0].(map[string]any)["options"].([]any)
	require.Equal(t, "best_actor", options[0].(map[string]any)["value"])
}

func TestCreateSectionDuplicateName(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/a/sections/", map[string]any{"name": "Awards"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// same name, different casing
	resp = postJSON(t, app, "/api/a/sections/", map[string]any{"name": "awards"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateSectionMissingName(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/a/sections/", map[string]any{"layout": "grid"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, false, body["success"])
	require.Equal(t, "VALIDATION_ERROR", body["error_code"])
}

func TestListSections(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/a/sections/", map[string]any{"name": "Awards"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/a/sections/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.Len(t, body["data"].([]any), 1)
	require.NotNil(t, body["pagination"])
}
