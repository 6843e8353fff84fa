package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	activity "github.com/abhishekdev8928/wefanss-backend/internals/features/activity"
	syncService "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/service"
	templateDTO "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/dto"
	templateModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type TemplateController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Sync     *syncService.SyncService
}

func NewTemplateController(db *gorm.DB) *TemplateController {
	return &TemplateController{
		DB:       db,
		Validate: validator.New(),
		Sync:     syncService.NewSyncService(db),
	}
}

// POST /api/a/templates
func (h *TemplateController) Create(c *fiber.Ctx) error {
	var req templateDTO.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var cnt int64
	if err := h.DB.Model(&templateModel.SectionTemplateModel{}).
		Where("lower(section_template_title) = lower(?)", req.Title).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check duplicates")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Section template already exists")
	}

	m := req.ToModel()

	// distinct titles can still slugify to the same url ("A&B" vs "A-B")
	url, err := helper.EnsureUniqueSlugCI(c.UserContext(), h.DB,
		"section_templates", "section_template_url", m.SectionTemplateURL, nil, 160)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to derive url")
	}
	m.SectionTemplateURL = url

	if err := h.DB.Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create template")
	}

	activity.Record(h.DB, req.CreatedBy, "create", "templates", m.SectionTemplateID.String(), nil)
	return helper.JsonCreated(c, "Section template created successfully", templateDTO.FromTemplateModel(m))
}

// PATCH /api/a/templates/:id
//
// Sections newly added to the template are propagated to every subject
// already entitled to it (additive only: removed sections keep their
// existing linkage rows).
func (h *TemplateController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var req templateDTO.UpdateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m templateModel.SectionTemplateModel
	if err := h.DB.First(&m, "section_template_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Section template not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load template")
	}

	var cnt int64
	if err := h.DB.Model(&templateModel.SectionTemplateModel{}).
		Where("lower(section_template_title) = lower(?) AND section_template_id <> ?", req.Title, id).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check duplicates")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Section template already exists")
	}

	// diff before overwrite
	oldSet := make(map[string]struct{}, len(m.SectionTemplateSections))
	for _, s := range m.SectionTemplateSections {
		oldSet[s] = struct{}{}
	}
	var added []uuid.UUID
	for _, sid := range req.Sections {
		if _, ok := oldSet[sid.String()]; !ok {
			added = append(added, sid)
		}
	}

	m.SectionTemplateTitle = req.Title
	url, err := helper.EnsureUniqueSlugCI(c.UserContext(), h.DB,
		"section_templates", "section_template_url", helper.Slugify(req.Title, 160),
		func(q *gorm.DB) *gorm.DB { return q.Where("section_template_id <> ?", id) }, 160)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to derive url")
	}
	m.SectionTemplateURL = url
	m.SectionTemplateSections = templateDTO.ToStringArray(req.Sections)
	if err := h.DB.Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update template")
	}

	if len(added) > 0 {
		if err := h.Sync.ExtendTemplateSections(c.UserContext(), id, added); err != nil {
			// the template save stands; propagation is retryable
			log.Printf("[SYNC] extend template %s failed: %v", id, err)
		}
	}

	activity.Record(h.DB, "", "update", "templates", id.String(), nil)
	return helper.JsonUpdated(c, "Section template updated successfully", templateDTO.FromTemplateModel(m))
}

// PATCH /api/a/templates/status
func (h *TemplateController) UpdateStatus(c *fiber.Ctx) error {
	var req templateDTO.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := h.DB.Model(&templateModel.SectionTemplateModel{}).
		Where("section_template_id = ?", req.ID).
		Update("section_template_status", req.Status)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update status")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Section template not found")
	}
	return helper.JsonUpdated(c, "Status updated successfully", nil)
}

// GET /api/a/templates
func (h *TemplateController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "section_template_created_at",
		"title":      "section_template_title",
	}, "created_at")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Invalid sort")
	}

	var total int64
	if err := h.DB.Model(&templateModel.SectionTemplateModel{}).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count templates")
	}

	var rows []templateModel.SectionTemplateModel
	if err := h.DB.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load templates")
	}

	return helper.JsonList(c, "Templates loaded", templateDTO.FromTemplateModels(rows), helper.BuildMeta(total, p))
}

// GET /api/a/templates/options, active templates for dropdowns
func (h *TemplateController) Options(c *fiber.Ctx) error {
	var rows []templateModel.SectionTemplateModel
	if err := h.DB.Where("section_template_status = 1").
		Order("section_template_title asc").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load templates")
	}
	return helper.JsonOK(c, "ok", templateDTO.FromTemplateModels(rows))
}

// GET /api/a/templates/:id
func (h *TemplateController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	var m templateModel.SectionTemplateModel
	if err := h.DB.First(&m, "section_template_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Section template not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load template")
	}
	return helper.JsonOK(c, "Section template found", templateDTO.FromTemplateModel(m))
}

// DELETE /api/a/templates/:id. Hard delete; practices referencing the id
// and existing linkage rows are untouched.
func (h *TemplateController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	res := h.DB.Delete(&templateModel.SectionTemplateModel{}, "section_template_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete template")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Section template not found")
	}
	activity.Record(h.DB, "", "delete", "templates", id.String(), nil)
	return helper.JsonDeleted(c, "Section template deleted successfully", nil)
}
