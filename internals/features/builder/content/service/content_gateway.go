package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	contentModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/content/model"
	sectionDTO "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/dto"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
)

// ContentGateway routes open-shape content submissions into per-section
// containers and reads them back with the owning section's field metadata.
type ContentGateway struct {
	DB *gorm.DB
}

func NewContentGateway(db *gorm.DB) *ContentGateway {
	return &ContentGateway{DB: db}
}

// ContainerName maps a section display name to its storage container.
func ContainerName(sectionName string) string {
	return strings.ToLower(strings.TrimSpace(sectionName))
}

// ParseSectionGroups splits flat form keys of the shape "<section>.<field>"
// into per-section value maps. A trailing "[]" on the field part is stripped.
// Keys without a dot are ignored (they are envelope fields, not content).
// Multi-valued keys are kept as slices, single values as scalars.
func ParseSectionGroups(values map[string][]string) map[string]map[string]interface{} {
	groups := make(map[string]map[string]interface{})
	for key, vals := range values {
		section, field, ok := splitContentKey(key)
		if !ok || len(vals) == 0 {
			continue
		}
		if groups[section] == nil {
			groups[section] = make(map[string]interface{})
		}
		if len(vals) == 1 && !strings.HasSuffix(key, "[]") {
			groups[section][field] = vals[0]
		} else {
			list := make([]interface{}, 0, len(vals))
			for _, v := range vals {
				list = append(list, v)
			}
			groups[section][field] = list
		}
	}
	return groups
}

// ParseSectionFields collects only the fields addressed to one section,
// used by the update path where the target container is already known.
func ParseSectionFields(values map[string][]string, sectionName string) map[string]interface{} {
	fields := make(map[string]interface{})
	want := ContainerName(sectionName)
	for key, vals := range values {
		section, field, ok := splitContentKey(key)
		if !ok || len(vals) == 0 || ContainerName(section) != want {
			continue
		}
		if len(vals) == 1 && !strings.HasSuffix(key, "[]") {
			fields[field] = vals[0]
		} else {
			list := make([]interface{}, 0, len(vals))
			for _, v := range vals {
				list = append(list, v)
			}
			fields[field] = list
		}
	}
	return fields
}

func splitContentKey(key string) (section, field string, ok bool) {
	idx := strings.Index(key, ".")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	section = strings.TrimSpace(key[:idx])
	field = strings.TrimSpace(strings.TrimSuffix(key[idx+1:], "[]"))
	if section == "" || field == "" {
		return "", "", false
	}
	return section, field, true
}

// Save persists one record per section group. File references resolved by
// the caller are merged into their group before insert.
func (g *ContentGateway) Save(
	ctx context.Context,
	subjectID, templateID uuid.UUID,
	groups map[string]map[string]interface{},
	fileRefs map[string]map[string]interface{},
) (int, error) {
	for section, refs := range fileRefs {
		if groups[section] == nil {
			groups[section] = make(map[string]interface{})
		}
		for field, ref := range refs {
			groups[section][field] = ref
		}
	}

	saved := 0
	for section, fields := range groups {
		if len(fields) == 0 {
			continue
		}
		row := contentModel.ContentRecordModel{
			ContentRecordContainer:  ContainerName(section),
			ContentRecordSubjectID:  subjectID,
			ContentRecordTemplateID: templateID,
			ContentRecordValues:     datatypes.JSONMap(fields),
		}
		if err := g.DB.WithContext(ctx).Create(&row).Error; err != nil {
			return saved, fmt.Errorf("save content for container %q: %w", section, err)
		}
		saved++
	}
	return saved, nil
}

// ListBySection returns the section (for its field metadata) together with
// every record the subject holds in the section's container.
func (g *ContentGateway) ListBySection(
	ctx context.Context,
	subjectID, sectionID uuid.UUID,
) (*sectionModel.SectionModel, []contentModel.ContentRecordModel, error) {
	var section sectionModel.SectionModel
	if err := g.DB.WithContext(ctx).
		First(&section, "section_id = ?", sectionID).Error; err != nil {
		return nil, nil, err
	}

	var rows []contentModel.ContentRecordModel
	if err := g.DB.WithContext(ctx).
		Where("content_record_container = ? AND content_record_subject_id = ?",
			ContainerName(section.SectionName), subjectID).
		Order("content_record_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	return &section, rows, nil
}

// GetByID fetches one record scoped to the subject and section container.
func (g *ContentGateway) GetByID(
	ctx context.Context,
	subjectID, sectionID, recordID uuid.UUID,
) (*sectionModel.SectionModel, *contentModel.ContentRecordModel, error) {
	var section sectionModel.SectionModel
	if err := g.DB.WithContext(ctx).
		First(&section, "section_id = ?", sectionID).Error; err != nil {
		return nil, nil, err
	}

	var row contentModel.ContentRecordModel
	if err := g.DB.WithContext(ctx).
		Where("content_record_id = ? AND content_record_subject_id = ? AND content_record_container = ?",
			recordID, subjectID, ContainerName(section.SectionName)).
		First(&row).Error; err != nil {
		return nil, nil, err
	}
	return &section, &row, nil
}

// Update merges the given fields into the record's stored values. Fields
// absent from the patch keep their current value; present fields are
// overwritten. The record must belong to the subject and container.
func (g *ContentGateway) Update(
	ctx context.Context,
	subjectID uuid.UUID,
	sectionName string,
	recordID uuid.UUID,
	fields map[string]interface{},
) (*contentModel.ContentRecordModel, error) {
	var row contentModel.ContentRecordModel
	if err := g.DB.WithContext(ctx).
		Where("content_record_id = ? AND content_record_subject_id = ? AND content_record_container = ?",
			recordID, subjectID, ContainerName(sectionName)).
		First(&row).Error; err != nil {
		return nil, err
	}

	if row.ContentRecordValues == nil {
		row.ContentRecordValues = datatypes.JSONMap{}
	}
	for k, v := range fields {
		row.ContentRecordValues[k] = v
	}

	if err := g.DB.WithContext(ctx).
		Model(&contentModel.ContentRecordModel{}).
		Where("content_record_id = ?", row.ContentRecordID).
		Update("content_record_values", row.ContentRecordValues).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes one record scoped to the subject and container. Returns
// gorm.ErrRecordNotFound when nothing matched.
func (g *ContentGateway) Delete(
	ctx context.Context,
	subjectID uuid.UUID,
	sectionName string,
	recordID uuid.UUID,
) error {
	res := g.DB.WithContext(ctx).
		Where("content_record_id = ? AND content_record_subject_id = ? AND content_record_container = ?",
			recordID, subjectID, ContainerName(sectionName)).
		Delete(&contentModel.ContentRecordModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ValidateValues checks submitted values against a section's declared
// field shapes: required fields must be present and non-empty, and
// choice-typed fields must use one of the declared options. Returns one
// message per violation; an empty slice means the payload conforms.
func ValidateValues(configs []sectionDTO.FieldConfig, values map[string]interface{}) []string {
	var issues []string
	for _, cfg := range configs {
		key := FieldKey(cfg.Title)
		val, present := values[key]
		if cfg.IsRequired {
			if !present || isEmptyValue(val) {
				issues = append(issues, fmt.Sprintf("field %q is required", key))
				continue
			}
		}
		if !present || len(cfg.Options) == 0 {
			continue
		}
		switch cfg.Type {
		case "select", "radio", "checkbox":
			allowed := make(map[string]bool, len(cfg.Options))
			for _, opt := range cfg.Options {
				allowed[opt.Value] = true
			}
			for _, v := range flattenValues(val) {
				if v != "" && !allowed[v] {
					issues = append(issues,
						fmt.Sprintf("field %q has no option %q", key, v))
				}
			}
		}
	}
	return issues
}

// FieldKey derives the form/storage key of a field from its display title,
// the same mapping used for option values.
func FieldKey(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "_")
}

func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

func flattenValues(v interface{}) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
