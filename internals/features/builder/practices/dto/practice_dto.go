package dto

import (
	"encoding/json"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"

	m "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type PracticeRequest struct {
	Name      string `validate:"required,min=1,max=120"`
	Slug      string `validate:"omitempty,min=1,max=160"`
	CreatedBy string
	Templates []uuid.UUID
}

// ParseTemplateIDs accepts the template list either as a JSON array string
// (the admin UI posts multipart) or as comma-separated uuids. Unparseable
// entries are dropped.
func ParseTemplateIDs(raw string) []uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var asStrings []string
	if err := json.Unmarshal([]byte(raw), &asStrings); err != nil {
		asStrings = strings.Split(raw, ",")
	}
	out := make([]uuid.UUID, 0, len(asStrings))
	for _, s := range asStrings {
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// BindMultipart reads the practice fields + optional image part.
func BindMultipart(c *fiber.Ctx) (PracticeRequest, *multipart.FileHeader) {
	req := PracticeRequest{
		Name:      strings.TrimSpace(c.FormValue("name")),
		Slug:      strings.TrimSpace(c.FormValue("slug")),
		CreatedBy: strings.TrimSpace(c.FormValue("created_by")),
		Templates: ParseTemplateIDs(c.FormValue("templates")),
	}
	if req.Slug == "" && req.Name != "" {
		req.Slug = helper.Slugify(req.Name, 160)
	}

	var fh *multipart.FileHeader
	if f, err := c.FormFile("image"); err == nil && f != nil {
		fh = f
	}
	return req, fh
}

func (r PracticeRequest) ToModel() m.PracticeModel {
	return m.PracticeModel{
		PracticeName:      r.Name,
		PracticeSlug:      r.Slug,
		PracticeURL:       helper.Slugify(r.Name, 160),
		PracticeTemplates: ToStringArray(r.Templates),
		PracticeStatus:    1,
		PracticeCreatedBy: r.CreatedBy,
	}
}

func ToStringArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

type UpdateStatusRequest struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Status int       `json:"status"`
}

type PracticeResponse struct {
	PracticeID uuid.UUID `json:"practice_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	URL        string    `json:"url"`
	Image      string    `json:"image,omitempty"`
	Templates  []string  `json:"templates"`
	Status     int       `json:"status"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromPracticeModel(p m.PracticeModel) PracticeResponse {
	return PracticeResponse{
		PracticeID: p.PracticeID,
		Name:       p.PracticeName,
		Slug:       p.PracticeSlug,
		URL:        p.PracticeURL,
		Image:      p.PracticeImage,
		Templates:  append([]string{}, p.PracticeTemplates...),
		Status:     p.PracticeStatus,
		CreatedBy:  p.PracticeCreatedBy,
		CreatedAt:  p.PracticeCreatedAt,
		UpdatedAt:  p.PracticeUpdatedAt,
	}
}

func FromPracticeModels(rows []m.PracticeModel) []PracticeResponse {
	out := make([]PracticeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromPracticeModel(r))
	}
	return out
}
