package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
	helper "github.com/abhishekdev8928/wefanss-backend/internals/helpers"
)

/* =========================================================
   FIELDS CONFIG
   ========================================================= */

type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type FieldConfig struct {
	Title      string        `json:"title" validate:"required,min=1,max=120"`
	Type       string        `json:"type"`
	IsRequired bool          `json:"is_required"`
	Options    []FieldOption `json:"options"`
}

// fieldConfigInput is the admin-facing shape: options arrive as raw labels.
type fieldConfigInput struct {
	Title      string `json:"title"`
	Type       string `json:"type"`
	IsRequired any    `json:"is_required"`
	Options    []any  `json:"options"`
}

// NormalizeOption derives the stored token from a label:
// trim, lower-case, spaces → underscores.
func NormalizeOption(label string) FieldOption {
	l := strings.TrimSpace(label)
	return FieldOption{
		Label: l,
		Value: strings.ReplaceAll(strings.ToLower(l), " ", "_"),
	}
}

// normalizeFieldConfigs turns the submitted field list into the stored
// shape. Non-string / empty option entries are discarded; is_required
// accepts bool or the strings "true"/"1".
func normalizeFieldConfigs(raw []fieldConfigInput) []FieldConfig {
	out := make([]FieldConfig, 0, len(raw))
	for _, f := range raw {
		title := strings.TrimSpace(f.Title)
		if title == "" {
			continue
		}
		cfg := FieldConfig{
			Title:      title,
			Type:       strings.TrimSpace(f.Type),
			IsRequired: parseBoolLoose(f.IsRequired),
			Options:    []FieldOption{},
		}
		for _, o := range f.Options {
			s, ok := o.(string)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			cfg.Options = append(cfg.Options, NormalizeOption(s))
		}
		out = append(out, cfg)
	}
	return out
}

func parseBoolLoose(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	}
	return false
}

// ParseFieldsConfig accepts either a JSON array or (from multipart forms)
// a JSON-encoded string of the array.
func ParseFieldsConfig(raw string) ([]FieldConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []FieldConfig{}, nil
	}
	var in []fieldConfigInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, err
	}
	return normalizeFieldConfigs(in), nil
}

/* =========================================================
   CREATE / UPDATE
   ========================================================= */

type CreateSectionRequest struct {
	Name       string `json:"name" form:"name" validate:"required,min=1,max=120"`
	Slug       string `json:"slug" form:"slug" validate:"omitempty,min=1,max=160"`
	Layout     string `json:"layout" form:"layout"`
	IsRepeater string `json:"is_repeater" form:"is_repeater"`
	CreatedBy  string `json:"created_by" form:"created_by"`
	// JSON string of the field list, same wire shape the admin UI posts
	FieldsConfig string `json:"fields_config" form:"fields_config"`
}

func (r *CreateSectionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Layout = strings.TrimSpace(r.Layout)
	if r.Slug == "" {
		r.Slug = helper.Slugify(r.Name, 160)
	}
}

func (r CreateSectionRequest) ToModel() (m.SectionModel, error) {
	fields, err := ParseFieldsConfig(r.FieldsConfig)
	if err != nil {
		return m.SectionModel{}, err
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return m.SectionModel{}, err
	}
	return m.SectionModel{
		SectionName:         r.Name,
		SectionSlug:         r.Slug,
		SectionURL:          helper.Slugify(r.Name, 160),
		SectionLayout:       r.Layout,
		SectionIsRepeater:   r.IsRepeater == "1" || r.IsRepeater == "true",
		SectionFieldsConfig: datatypes.JSON(raw),
		SectionStatus:       1,
		SectionCreatedBy:    r.CreatedBy,
	}, nil
}

type UpdateSectionRequest struct {
	Name       *string `json:"name" form:"name" validate:"omitempty,min=1,max=120"`
	Slug       *string `json:"slug" form:"slug" validate:"omitempty,min=1,max=160"`
	Layout     *string `json:"layout" form:"layout"`
	IsRepeater *string `json:"is_repeater" form:"is_repeater"`
	UpdatedBy  *string `json:"updated_by" form:"updated_by"`
	// When present, fully replaces the stored field list
	FieldsConfig *string `json:"fields_config" form:"fields_config"`
}

type UpdateStatusRequest struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Status int       `json:"status"`
}

/* =========================================================
   RESPONSE
   ========================================================= */

type SectionResponse struct {
	SectionID    uuid.UUID     `json:"section_id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	URL          string        `json:"url"`
	Layout       string        `json:"layout"`
	IsRepeater   bool          `json:"is_repeater"`
	FieldsConfig []FieldConfig `json:"fields_config"`
	Status       int           `json:"status"`
	CreatedBy    string        `json:"created_by,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func FromSectionModel(s m.SectionModel) SectionResponse {
	fields := []FieldConfig{}
	if len(s.SectionFieldsConfig) > 0 {
		_ = json.Unmarshal(s.SectionFieldsConfig, &fields)
	}
	return SectionResponse{
		SectionID:    s.SectionID,
		Name:         s.SectionName,
		Slug:         s.SectionSlug,
		URL:          s.SectionURL,
		Layout:       s.SectionLayout,
		IsRepeater:   s.SectionIsRepeater,
		FieldsConfig: fields,
		Status:       s.SectionStatus,
		CreatedBy:    s.SectionCreatedBy,
		CreatedAt:    s.SectionCreatedAt,
		UpdatedAt:    s.SectionUpdatedAt,
	}
}

func FromSectionModels(rows []m.SectionModel) []SectionResponse {
	out := make([]SectionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromSectionModel(r))
	}
	return out
}
