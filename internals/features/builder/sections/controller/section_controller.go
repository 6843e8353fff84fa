package controller

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	activity "github.com/abhishekdev8928/wefanss-backend/internals/features/activity"
	sectionDTO "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/dto"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type SectionController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewSectionController(db *gorm.DB) *SectionController {
	return &SectionController{DB: db, Validate: validator.New()}
}

// POST /api/a/sections
func (h *SectionController) Create(c *fiber.Ctx) error {
	var req sectionDTO.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// duplicate name/slug, case-insensitive
	var cnt int64
	if err := h.DB.Model(&sectionModel.SectionModel{}).
		Where("lower(section_name) = lower(?) OR lower(section_slug) = lower(?)", req.Name, req.Slug).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check duplicates")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Section already exists")
	}

	m, err := req.ToModel()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid fields_config format")
	}
	if err := h.DB.Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create section")
	}

	activity.Record(h.DB, req.CreatedBy, "create", "sections", m.SectionID.String(), nil)
	return helper.JsonCreated(c, "Section created successfully", sectionDTO.FromSectionModel(m))
}

// PATCH /api/a/sections/:id
func (h *SectionController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var req sectionDTO.UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m sectionModel.SectionModel
	if err := h.DB.First(&m, "section_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Section not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load section")
	}

	name := m.SectionName
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		name = strings.TrimSpace(*req.Name)
	}
	slug := m.SectionSlug
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		slug = strings.TrimSpace(*req.Slug)
	}

	// duplicate check excluding self
	var cnt int64
	if err := h.DB.Model(&sectionModel.SectionModel{}).
		Where("(lower(section_name) = lower(?) OR lower(section_slug) = lower(?)) AND section_id <> ?", name, slug, id).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check duplicates")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Section already exists")
	}

	m.SectionName = name
	m.SectionSlug = slug
	m.SectionURL = helper.Slugify(name, 160)
	if req.Layout != nil {
		m.SectionLayout = strings.TrimSpace(*req.Layout)
	}
	if req.IsRepeater != nil {
		m.SectionIsRepeater = *req.IsRepeater == "1" || *req.IsRepeater == "true"
	}
	if req.FieldsConfig != nil {
		fields, err := sectionDTO.ParseFieldsConfig(*req.FieldsConfig)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid fields_config format")
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to encode fields_config")
		}
		m.SectionFieldsConfig = datatypes.JSON(raw)
	}

	if err := h.DB.Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update section")
	}

	actor := ""
	if req.UpdatedBy != nil {
		actor = *req.UpdatedBy
	}
	activity.Record(h.DB, actor, "update", "sections", m.SectionID.String(), nil)
	return helper.JsonUpdated(c, "Section updated successfully", sectionDTO.FromSectionModel(m))
}

// PATCH /api/a/sections/status
func (h *SectionController) UpdateStatus(c *fiber.Ctx) error {
	var req sectionDTO.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := h.DB.Model(&sectionModel.SectionModel{}).
		Where("section_id = ?", req.ID).
		Update("section_status", req.Status)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update status")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Section not found")
	}
	return helper.JsonUpdated(c, "Status updated successfully", nil)
}

// GET /api/a/sections
func (h *SectionController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "section_created_at",
		"name":       "section_name",
	}, "created_at")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Invalid sort")
	}

	var total int64
	if err := h.DB.Model(&sectionModel.SectionModel{}).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count sections")
	}

	var rows []sectionModel.SectionModel
	if err := h.DB.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load sections")
	}

	return helper.JsonList(c, "Sections loaded", sectionDTO.FromSectionModels(rows), helper.BuildMeta(total, p))
}

// GET /api/a/sections/options, active sections for dropdowns
func (h *SectionController) Options(c *fiber.Ctx) error {
	var rows []sectionModel.SectionModel
	if err := h.DB.Where("section_status = 1").Order("section_name asc").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load sections")
	}
	return helper.JsonOK(c, "ok", sectionDTO.FromSectionModels(rows))
}

// GET /api/a/sections/:id
func (h *SectionController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	var m sectionModel.SectionModel
	if err := h.DB.First(&m, "section_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Section not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load section")
	}
	return helper.JsonOK(c, "Section found", sectionDTO.FromSectionModel(m))
}

// DELETE /api/a/sections/:id. Hard delete, no cascade. Templates keeping
// this id and content containers named after it are left as-is.
func (h *SectionController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	res := h.DB.Delete(&sectionModel.SectionModel{}, "section_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete section")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Section not found")
	}
	activity.Record(h.DB, "", "delete", "sections", id.String(), nil)
	return helper.JsonDeleted(c, "Section deleted successfully", nil)
}
