package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	activity "github.com/abhishekdev8928/wefanss-backend/internals/features/activity"
	syncService "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/service"
	practiceModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/model"
	subjectDTO "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/dto"
	subjectModel "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type SubjectController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Sync     *syncService.SyncService
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{
		DB:       db,
		Validate: validator.New(),
		Sync:     syncService.NewSyncService(db),
	}
}

// POST /api/a/subjects (multipart)
//
// After the subject and its practice memberships are stored, a scoped sync
// runs per assigned practice so the new subject immediately carries the
// linkage rows its practices imply. Sync failures are logged, never
// propagated; the subject save stands.
func (h *SubjectController) Create(c *fiber.Ctx) error {
	req := subjectDTO.BindMultipart(c)
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var cnt int64
	if err := h.DB.Model(&subjectModel.SubjectModel{}).
		Where("lower(subject_name) = lower(?) OR lower(subject_slug) = lower(?)", req.Name, req.Slug).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check duplicates")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Subject already exists")
	}

	m := req.ToModel()
	if err := h.DB.Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create subject")
	}

	if err := h.setPractices(m.SubjectID, req.Practices); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to assign practices")
	}
	h.syncPractices(c, m.SubjectID, req.Practices)

	activity.Record(h.DB, req.CreatedBy, "create", "subjects", m.SubjectID.String(), nil)
	return helper.JsonCreated(c, "Subject added successfully", subjectDTO.FromSubjectModel(m, req.Practices))
}

// PATCH /api/a/subjects/:id (multipart)
func (h *SubjectController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var m subjectModel.SubjectModel
	if err := h.DB.First(&m, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Subject not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subject")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if name == "" {
		name = m.SubjectName
	}
	if slug == "" {
		slug = m.SubjectSlug
	}

	var cnt int64
	if err := h.DB.Model(&subjectModel.SubjectModel{}).
		Where("(lower(subject_name) = lower(?) OR lower(subject_slug) = lower(?)) AND subject_id <> ?", name, slug, id).
		Count(&cnt).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check duplicates")
	}
	if cnt > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Subject with this name or slug already exists")
	}

	m.SubjectName = name
	m.SubjectSlug = slug
	m.SubjectURL = helper.Slugify(name, 160)
	applyOptional(&m.SubjectShortInfo, c.FormValue("short_info"))
	applyOptional(&m.SubjectBiography, c.FormValue("biography"))
	applyOptional(&m.SubjectGender, c.FormValue("gender"))
	applyOptional(&m.SubjectDOB, c.FormValue("dob"))

	if err := h.DB.Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update subject")
	}

	// Membership replace: only when the form carries a practices value.
	// Practices added by the replace get a scoped sync so the subject
	// picks up their linkage rows.
	practices := h.practiceIDs(id)
	if raw := strings.TrimSpace(c.FormValue("practices")); raw != "" {
		newPractices := subjectDTO.ParsePracticeIDs(raw)
		added := diffIDs(practices, newPractices)
		if err := h.replacePractices(id, newPractices); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update practices")
		}
		h.syncPractices(c, id, added)
		practices = newPractices
	}

	activity.Record(h.DB, "", "update", "subjects", id.String(), nil)
	return helper.JsonUpdated(c, "Subject updated successfully", subjectDTO.FromSubjectModel(m, practices))
}

// PATCH /api/a/subjects/status
func (h *SubjectController) UpdateStatus(c *fiber.Ctx) error {
	var req subjectDTO.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := h.DB.Model(&subjectModel.SubjectModel{}).
		Where("subject_id = ?", req.ID).
		Update("subject_status", req.Status)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update status")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Subject not found")
	}
	return helper.JsonUpdated(c, "Status updated successfully", nil)
}

// GET /api/a/subjects
func (h *SubjectController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "subject_created_at",
		"name":       "subject_name",
	}, "created_at")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Invalid sort")
	}

	var total int64
	if err := h.DB.Model(&subjectModel.SubjectModel{}).Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count subjects")
	}

	var rows []subjectModel.SubjectModel
	if err := h.DB.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subjects")
	}

	out := make([]subjectDTO.SubjectResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, subjectDTO.FromSubjectModel(r, h.practiceIDs(r.SubjectID)))
	}
	return helper.JsonList(c, "Subjects loaded", out, helper.BuildMeta(total, p))
}

// GET /api/a/subjects/options, active subjects for dropdowns
func (h *SubjectController) Options(c *fiber.Ctx) error {
	var rows []subjectModel.SubjectModel
	if err := h.DB.Where("subject_status = 1").Order("subject_name asc").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subjects")
	}
	out := make([]subjectDTO.SubjectResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, subjectDTO.FromSubjectModel(r, nil))
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/a/subjects/:id
func (h *SubjectController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	var m subjectModel.SubjectModel
	if err := h.DB.First(&m, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Subject not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subject")
	}
	return helper.JsonOK(c, "Subject found", subjectDTO.FromSubjectModel(m, h.practiceIDs(id)))
}

// DELETE /api/a/subjects/:id removes the subject, its practice
// memberships, and its linkage rows. Content records are kept.
func (h *SubjectController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	res := h.DB.Delete(&subjectModel.SubjectModel{}, "subject_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete subject")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Subject not found")
	}

	if err := h.DB.Delete(&subjectModel.SubjectPracticeModel{}, "subject_practice_subject_id = ?", id).Error; err != nil {
		log.Printf("[WARN] delete practice memberships for subject %s: %v", id, err)
	}
	if err := h.Sync.DeleteForSubject(c.UserContext(), id); err != nil {
		log.Printf("[WARN] delete linkages for subject %s: %v", id, err)
	}

	activity.Record(h.DB, "", "delete", "subjects", id.String(), nil)
	return helper.JsonDeleted(c, "Subject deleted successfully", nil)
}

/* =========================================================
   internals
   ========================================================= */

func (h *SubjectController) practiceIDs(subjectID uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	if err := h.DB.Model(&subjectModel.SubjectPracticeModel{}).
		Where("subject_practice_subject_id = ?", subjectID).
		Pluck("subject_practice_practice_id", &ids).Error; err != nil {
		log.Printf("[WARN] load practices for subject %s: %v", subjectID, err)
	}
	return ids
}

func (h *SubjectController) setPractices(subjectID uuid.UUID, practiceIDs []uuid.UUID) error {
	for _, pid := range practiceIDs {
		row := subjectModel.SubjectPracticeModel{
			SubjectPracticeSubjectID:  subjectID,
			SubjectPracticePracticeID: pid,
		}
		if err := h.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (h *SubjectController) replacePractices(subjectID uuid.UUID, practiceIDs []uuid.UUID) error {
	if err := h.DB.Delete(&subjectModel.SubjectPracticeModel{},
		"subject_practice_subject_id = ?", subjectID).Error; err != nil {
		return err
	}
	return h.setPractices(subjectID, practiceIDs)
}

// syncPractices runs a subject-scoped sync for each practice that carries
// templates. Per-practice failures are logged and the loop continues.
func (h *SubjectController) syncPractices(c *fiber.Ctx, subjectID uuid.UUID, practiceIDs []uuid.UUID) {
	for _, pid := range practiceIDs {
		var p practiceModel.PracticeModel
		if err := h.DB.First(&p, "practice_id = ?", pid).Error; err != nil {
			log.Printf("[SYNC] practice %s not found for subject %s: %v", pid, subjectID, err)
			continue
		}
		templates := p.TemplateIDs()
		if len(templates) == 0 {
			continue
		}
		if err := h.Sync.Sync(c.UserContext(), pid, templates, &subjectID); err != nil {
			log.Printf("[SYNC] subject %s practice %s sync failed: %v", subjectID, pid, err)
		}
	}
}

func diffIDs(before, after []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(before))
	for _, id := range before {
		seen[id] = struct{}{}
	}
	var added []uuid.UUID
	for _, id := range after {
		if _, ok := seen[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}

func applyOptional(dst **string, raw string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = &v
}
