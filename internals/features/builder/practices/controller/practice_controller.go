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
	practiceDTO "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/dto"
	practiceModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type PracticeController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Sync     *syncService.SyncService
}

func NewPracticeController(db *gorm.DB) *PracticeController {
	return &PracticeController{
		DB:       db,
		Validate: validator.New(),
		Sync:     syncService.NewSyncService(db),
	}
}

// POST /api/a/practices (multipart)
func (h *PracticeController) Create(c *fiber.Ctx) error {
	req, imageFH := practiceDTO.BindMultipart(c)
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var cnt int64
	if err := h.DB.Model(&practiceModel.PracticeModel{}).
		Where("lower(practice_name) = lower(?) OR lower(practice_slug) = lower(?)", req.Name, req.Slug).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check duplicates")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Practice already exists")
	}

	m := req.ToModel()
	if imageFH != nil {
		path, err := helper.SaveImageAsWebP("practice", imageFH)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to store image")
		}
		m.PracticeImage = path
	}

	if err := h.DB.Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create practice")
	}

	activity.Record(h.DB, req.CreatedBy, "create", "practices", m.PracticeID.String(), nil)
	return helper.JsonCreated(c, "Practice added successfully", practiceDTO.FromPracticeModel(m))
}

// PATCH /api/a/practices/:id (multipart)
//
// When the template set changed and is non-empty, the sync engine extends
// linkage rows for every member subject. The practice save never fails on
// a sync error; sync is best-effort and retryable.
func (h *PracticeController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var m practiceModel.PracticeModel
	if err := h.DB.First(&m, "practice_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Practice not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load practice")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if name == "" {
		name = m.PracticeName
	}
	if slug == "" {
		slug = m.PracticeSlug
	}

	var cnt int64
	if err := h.DB.Model(&practiceModel.PracticeModel{}).
		Where("(lower(practice_name) = lower(?) OR lower(practice_slug) = lower(?)) AND practice_id <> ?", name, slug, id).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check duplicates")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Practice with this name or slug already exists")
	}

	oldTemplates := append([]string{}, m.PracticeTemplates...)

	m.PracticeName = name
	m.PracticeSlug = slug
	m.PracticeURL = helper.Slugify(name, 160)

	newTemplates := practiceDTO.ParseTemplateIDs(c.FormValue("templates"))
	if len(newTemplates) > 0 {
		m.PracticeTemplates = practiceDTO.ToStringArray(newTemplates)
	}

	if f, err := c.FormFile("image"); err == nil && f != nil {
		path, err := helper.SaveImageAsWebP("practice", f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to store image")
		}
		if m.PracticeImage != "" {
			if err := helper.DeleteLocalFile(m.PracticeImage); err != nil {
				log.Printf("[WARN] delete old practice image %s: %v", m.PracticeImage, err)
			}
		}
		m.PracticeImage = path
	}

	if err := h.DB.Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update practice")
	}

	if templateSetChanged(oldTemplates, m.PracticeTemplates) && len(m.PracticeTemplates) > 0 {
		if err := h.Sync.Sync(c.UserContext(), m.PracticeID, m.TemplateIDs(), nil); err != nil {
			log.Printf("[SYNC] practice %s sync failed (save kept): %v", m.PracticeID, err)
		}
	}

	activity.Record(h.DB, "", "update", "practices", id.String(), nil)
	return helper.JsonUpdated(c, "Practice updated successfully", practiceDTO.FromPracticeModel(m))
}

func templateSetChanged(before, after []string) bool {
	if len(before) != len(after) {
		return true
	}
	set := make(map[string]struct{}, len(before))
	for _, s := range before {
		set[s] = struct{}{}
	}
	for _, s := range after {
		if _, ok := set[s]; !ok {
			return true
		}
	}
	return false
}

// PATCH /api/a/practices/status
func (h *PracticeController) UpdateStatus(c *fiber.Ctx) error {
	var req practiceDTO.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := h.DB.Model(&practiceModel.PracticeModel{}).
		Where("practice_id = ?", req.ID).
		Update("practice_status", req.Status)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update status")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Practice not found")
	}
	return helper.JsonUpdated(c, "Status updated successfully", nil)
}

// GET /api/a/practices
func (h *PracticeController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "practice_created_at",
		"name":       "practice_name",
	}, "created_at")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Invalid sort")
	}

	var total int64
	if err := h.DB.Model(&practiceModel.PracticeModel{}).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count practices")
	}

	var rows []practiceModel.PracticeModel
	if err := h.DB.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load practices")
	}

	return helper.JsonList(c, "Practices loaded", practiceDTO.FromPracticeModels(rows), helper.BuildMeta(total, p))
}

// GET /api/a/practices/options, active practices for dropdowns
func (h *PracticeController) Options(c *fiber.Ctx) error {
	var rows []practiceModel.PracticeModel
	if err := h.DB.Where("practice_status = 1").Order("practice_name asc").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load practices")
	}
	return helper.JsonOK(c, "ok", practiceDTO.FromPracticeModels(rows))
}

// GET /api/a/practices/:id
func (h *PracticeController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	var m practiceModel.PracticeModel
	if err := h.DB.First(&m, "practice_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Practice not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load practice")
	}
	return helper.JsonOK(c, "Practice found", practiceDTO.FromPracticeModel(m))
}

// DELETE /api/a/practices/:id
func (h *PracticeController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	res := h.DB.Delete(&practiceModel.PracticeModel{}, "practice_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete practice")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Practice not found")
	}
	activity.Record(h.DB, "", "delete", "practices", id.String(), nil)
	return helper.JsonDeleted(c, "Practice deleted successfully", nil)
}
