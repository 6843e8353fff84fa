package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	linkageModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type LinkageController struct {
	DB *gorm.DB
}

// linkageRow carries a row plus the section's live registry name; the
// snapshot renders even when the registry entry was renamed or deleted.
type linkageRow struct {
	linkageModel.SubjectSectionModel
	SectionMasterName *string `gorm:"column:section_master_name" json:"section_master_name"`
}

// GET /api/public/subjects/:subjectId/linkages
func (h *LinkageController) ListBySubject(c *fiber.Ctx) error {
	subjectID, err := uuid.Parse(strings.TrimSpace(c.Params("subjectId")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subject id")
	}

	var rows []linkageRow
	if err := h.DB.Table("subject_sections").
		Select("subject_sections.*, sections.section_name AS section_master_name").
		Joins("LEFT JOIN sections ON sections.section_id = subject_sections.subject_section_section_id").
		Where("subject_section_subject_id = ?", subjectID).
		Order("subject_section_created_at asc").
		Scan(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load linkages")
	}

	return helper.JsonOK(c, "Linkages loaded", rows)
}
