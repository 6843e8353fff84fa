package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	m "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

type SubjectRequest struct {
	Name      string `form:"name" validate:"required,min=1,max=160"`
	Slug      string `form:"slug" validate:"omitempty,min=1,max=160"`
	ShortInfo string `form:"short_info"`
	Biography string `form:"biography"`
	Gender    string `form:"gender"`
	DOB       string `form:"dob"`
	CreatedBy string `form:"created_by"`

	// Parsed from the "practices" form value
	Practices []uuid.UUID `validate:"-"`
}

// ParsePracticeIDs accepts either a JSON array of uuid strings or a
// comma-separated list. Unparseable entries are dropped.
func ParsePracticeIDs(raw string) []uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			return nil
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	out := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// BindMultipart reads the subject form fields from a multipart request.
func BindMultipart(c *fiber.Ctx) SubjectRequest {
	req := SubjectRequest{
		Name:      strings.TrimSpace(c.FormValue("name")),
		Slug:      strings.TrimSpace(c.FormValue("slug")),
		ShortInfo: strings.TrimSpace(c.FormValue("short_info")),
		Biography: strings.TrimSpace(c.FormValue("biography")),
		Gender:    strings.TrimSpace(c.FormValue("gender")),
		DOB:       strings.TrimSpace(c.FormValue("dob")),
		CreatedBy: strings.TrimSpace(c.FormValue("created_by")),
		Practices: ParsePracticeIDs(c.FormValue("practices")),
	}
	if req.Slug == "" {
		req.Slug = helper.Slugify(req.Name, 160)
	}
	return req
}

func (r SubjectRequest) ToModel() m.SubjectModel {
	sm := m.SubjectModel{
		SubjectName:      r.Name,
		SubjectSlug:      r.Slug,
		SubjectURL:       helper.Slugify(r.Name, 160),
		SubjectStatus:    1,
		SubjectCreatedBy: r.CreatedBy,
	}
	if r.ShortInfo != "" {
		sm.SubjectShortInfo = &r.ShortInfo
	}
	if r.Biography != "" {
		sm.SubjectBiography = &r.Biography
	}
	if r.Gender != "" {
		sm.SubjectGender = &r.Gender
	}
	if r.DOB != "" {
		sm.SubjectDOB = &r.DOB
	}
	return sm
}

type UpdateStatusRequest struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Status int       `json:"status"`
}

type SubjectResponse struct {
	SubjectID uuid.UUID   `json:"subject_id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	URL       string      `json:"url"`
	ShortInfo string      `json:"short_info,omitempty"`
	Biography string      `json:"biography,omitempty"`
	Gender    string      `json:"gender,omitempty"`
	DOB       string      `json:"dob,omitempty"`
	Practices []uuid.UUID `json:"practices"`
	Status    int         `json:"status"`
	CreatedBy string      `json:"created_by,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func FromSubjectModel(s m.SubjectModel, practices []uuid.UUID) SubjectResponse {
	resp := SubjectResponse{
		SubjectID: s.SubjectID,
		Name:      s.SubjectName,
		Slug:      s.SubjectSlug,
		URL:       s.SubjectURL,
		Practices: practices,
		Status:    s.SubjectStatus,
		CreatedBy: s.SubjectCreatedBy,
		CreatedAt: s.SubjectCreatedAt,
		UpdatedAt: s.SubjectUpdatedAt,
	}
	if practices == nil {
		resp.Practices = []uuid.UUID{}
	}
	if s.SubjectShortInfo != nil {
		resp.ShortInfo = *s.SubjectShortInfo
	}
	if s.SubjectBiography != nil {
		resp.Biography = *s.SubjectBiography
	}
	if s.SubjectGender != nil {
		resp.Gender = *s.SubjectGender
	}
	if s.SubjectDOB != nil {
		resp.DOB = *s.SubjectDOB
	}
	return resp
}
