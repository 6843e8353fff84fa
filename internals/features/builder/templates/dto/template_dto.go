package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	m "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type CreateTemplateRequest struct {
	Title     string      `json:"title" validate:"required,min=1,max=160"`
	Sections  []uuid.UUID `json:"sections"`
	CreatedBy string      `json:"created_by"`
}

func (r *CreateTemplateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r CreateTemplateRequest) ToModel() m.SectionTemplateModel {
	return m.SectionTemplateModel{
		SectionTemplateTitle:     r.Title,
		SectionTemplateURL:       helper.Slugify(r.Title, 160),
		SectionTemplateSections:  ToStringArray(r.Sections),
		SectionTemplateStatus:    1,
		SectionTemplateCreatedBy: r.CreatedBy,
	}
}

type UpdateTemplateRequest struct {
	Title    string      `json:"title" validate:"required,min=1,max=160"`
	Sections []uuid.UUID `json:"sections"`
}

type UpdateStatusRequest struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Status int       `json:"status"`
}

func ToStringArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

type TemplateResponse struct {
	SectionTemplateID uuid.UUID `json:"section_template_id"`
	Title             string    `json:"title"`
	URL               string    `json:"url"`
	Sections          []string  `json:"sections"`
	Status            int       `json:"status"`
	CreatedBy         string    `json:"created_by,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromTemplateModel(t m.SectionTemplateModel) TemplateResponse {
	return TemplateResponse{
		SectionTemplateID: t.SectionTemplateID,
		Title:             t.SectionTemplateTitle,
		URL:               t.SectionTemplateURL,
		Sections:          append([]string{}, t.SectionTemplateSections...),
		Status:            t.SectionTemplateStatus,
		CreatedBy:         t.SectionTemplateCreatedBy,
		CreatedAt:         t.SectionTemplateCreatedAt,
		UpdatedAt:         t.SectionTemplateUpdatedAt,
	}
}

func FromTemplateModels(rows []m.SectionTemplateModel) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromTemplateModel(r))
	}
	return out
}
