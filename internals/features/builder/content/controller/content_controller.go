package controller

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	activity "github.com/abhishekdev8928/wefanss-backend/internals/features/activity"
	contentModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/content/model"
	contentService "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/content/service"
	sectionDTO "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/dto"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type ContentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Gateway  *contentService.ContentGateway
}

func NewContentController(db *gorm.DB) *ContentController {
	return &ContentController{
		DB:       db,
		Validate: validator.New(),
		Gateway:  contentService.NewContentGateway(db),
	}
}

// POST /api/a/content (multipart)
//
// Form keys of the shape "<section>.<field>" are grouped per section; each
// group becomes one record in that section's container. File parts use the
// same key shape and are stored to disk, with the public path saved in
// place of the file.
func (h *ContentController) Save(c *fiber.Ctx) error {
	subjectID, err := uuid.Parse(strings.TrimSpace(c.FormValue("subject_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subject_id")
	}
	templateID, err := uuid.Parse(strings.TrimSpace(c.FormValue("template_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid template_id")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form payload")
	}

	groups := contentService.ParseSectionGroups(form.Value)

	fileRefs := make(map[string]map[string]interface{})
	for key, headers := range form.File {
		idx := strings.Index(key, ".")
		if idx <= 0 || len(headers) == 0 {
			continue
		}
		section := strings.TrimSpace(key[:idx])
		field := strings.TrimSpace(strings.TrimSuffix(key[idx+1:], "[]"))
		if section == "" || field == "" {
			continue
		}
		path, err := helper.SaveUploadedFile("content", headers[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to store file")
		}
		if fileRefs[section] == nil {
			fileRefs[section] = make(map[string]interface{})
		}
		fileRefs[section][field] = path
	}

	saved, err := h.Gateway.Save(c.UserContext(), subjectID, templateID, groups, fileRefs)
	if err != nil {
		log.Printf("[ERROR] save content for subject %s: %v", subjectID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save content")
	}
	if saved == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No content fields submitted")
	}

	activity.Record(h.DB, "", "create", "content", subjectID.String(), map[string]interface{}{
		"records": saved,
	})
	return helper.JsonCreated(c, "Data saved successfully", fiber.Map{"records": saved})
}

// GET /api/a/content/:subjectId/:sectionId
func (h *ContentController) ListBySection(c *fiber.Ctx) error {
	subjectID, err := uuid.Parse(strings.TrimSpace(c.Params("subjectId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subject id")
	}
	sectionID, err := uuid.Parse(strings.TrimSpace(c.Params("sectionId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid section id")
	}

	section, rows, err := h.Gateway.ListBySection(c.UserContext(), subjectID, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Section not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load content")
	}

	return helper.JsonOK(c, "Content loaded", fiber.Map{
		"section_name":  section.SectionName,
		"fields_config": fieldsOf(section),
		"records":       recordsOut(rows),
	})
}

// GET /api/a/content/:subjectId/:sectionId/:recordId
func (h *ContentController) GetByID(c *fiber.Ctx) error {
	subjectID, err := uuid.Parse(strings.TrimSpace(c.Params("subjectId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subject id")
	}
	sectionID, err := uuid.Parse(strings.TrimSpace(c.Params("sectionId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid section id")
	}
	recordID, err := uuid.Parse(strings.TrimSpace(c.Params("recordId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid record id")
	}

	section, row, err := h.Gateway.GetByID(c.UserContext(), subjectID, sectionID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Record not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load record")
	}

	return helper.JsonOK(c, "Record found", fiber.Map{
		"section_name":  section.SectionName,
		"fields_config": fieldsOf(section),
		"record":        recordOut(*row),
	})
}

// POST /api/a/content/update (multipart)
//
// Envelope fields: subject_id, section_name, record_id. Content fields use
// the "<section>.<field>" shape; fields absent from the patch keep their
// stored value.
func (h *ContentController) Update(c *fiber.Ctx) error {
	subjectID, err := uuid.Parse(strings.TrimSpace(c.FormValue("subject_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subject_id")
	}
	recordID, err := uuid.Parse(strings.TrimSpace(c.FormValue("record_id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid record_id")
	}
	sectionName := strings.TrimSpace(c.FormValue("section_name"))
	if sectionName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "section_name is required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form payload")
	}

	fields := contentService.ParseSectionFields(form.Value, sectionName)
	for key, headers := range form.File {
		idx := strings.Index(key, ".")
		if idx <= 0 || len(headers) == 0 {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(key[:idx]), sectionName) {
			continue
		}
		field := strings.TrimSpace(strings.TrimSuffix(key[idx+1:], "[]"))
		if field == "" {
			continue
		}
		path, err := helper.SaveUploadedFile("content", headers[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to store file")
		}
		fields[field] = path
	}
	if len(fields) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No content fields submitted")
	}

	row, err := h.Gateway.Update(c.UserContext(), subjectID, sectionName, recordID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Record not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update record")
	}

	activity.Record(h.DB, "", "update", "content", recordID.String(), nil)
	return helper.JsonUpdated(c, "Data updated successfully", recordOut(*row))
}

// DELETE /api/a/content/:subjectId/:sectionName/:recordId
func (h *ContentController) Delete(c *fiber.Ctx) error {
	subjectID, err := uuid.Parse(strings.TrimSpace(c.Params("subjectId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subject id")
	}
	recordID, err := uuid.Parse(strings.TrimSpace(c.Params("recordId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid record id")
	}
	sectionName := strings.TrimSpace(c.Params("sectionName"))
	if sectionName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Section name is required")
	}

	if err := h.Gateway.Delete(c.UserContext(), subjectID, sectionName, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Record not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete record")
	}

	activity.Record(h.DB, "", "delete", "content", recordID.String(), nil)
	return helper.JsonDeleted(c, "Data deleted successfully", nil)
}

type validatePayload struct {
	SectionID uuid.UUID              `json:"section_id" validate:"required"`
	Values    map[string]interface{} `json:"values"`
}

// POST /api/a/content/validate
//
// Optional pre-save check of a value map against a section's declared
// field shapes. Saving never calls this; submissions are stored as-is.
func (h *ContentController) ValidatePayload(c *fiber.Ctx) error {
	var req validatePayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var section sectionModel.SectionModel
	if err := h.DB.First(&section, "section_id = ?", req.SectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Section not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load section")
	}

	issues := contentService.ValidateValues(fieldsOf(&section), req.Values)
	if issues == nil {
		issues = []string{}
	}
	return helper.JsonOK(c, "Validation finished", fiber.Map{
		"valid":  len(issues) == 0,
		"issues": issues,
	})
}

func fieldsOf(s *sectionModel.SectionModel) []sectionDTO.FieldConfig {
	fields := []sectionDTO.FieldConfig{}
	if len(s.SectionFieldsConfig) > 0 {
		_ = json.Unmarshal(s.SectionFieldsConfig, &fields)
	}
	return fields
}

func recordOut(r contentModel.ContentRecordModel) fiber.Map {
	return fiber.Map{
		"record_id":   r.ContentRecordID,
		"container":   r.ContentRecordContainer,
		"subject_id":  r.ContentRecordSubjectID,
		"template_id": r.ContentRecordTemplateID,
		"values":      r.ContentRecordValues,
		"created_at":  r.ContentRecordCreatedAt,
		"updated_at":  r.ContentRecordUpdatedAt,
	}
}

func recordsOut(rows []contentModel.ContentRecordModel) []fiber.Map {
	out := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, recordOut(r))
	}
	return out
}
