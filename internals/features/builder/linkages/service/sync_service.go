package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	linkageModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/model"
	practiceModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/model"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
	templateModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/model"
	subjectModel "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/model"
)

// SyncService materializes subject_sections rows from practice/template
// state. All of its operations are additive: rows whose backing association
// has since been removed are never deleted here.
type SyncService struct {
	DB *gorm.DB
}

func NewSyncService(db *gorm.DB) *SyncService { return &SyncService{DB: db} }

// Sync extends the linkage table for one practice. subjectID scopes the run
// to a single subject; nil means every subject carrying the practice.
//
// Failure policy: a missing template, a sectionless template or a failed
// row insert is logged and skipped; the call only errors when the target
// subject set cannot be resolved at all.
func (s *SyncService) Sync(ctx context.Context, practiceID uuid.UUID, templateIDs []uuid.UUID, subjectID *uuid.UUID) error {
	db := s.DB.WithContext(ctx)

	subjects, err := s.resolveSubjects(db, practiceID, subjectID)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		return nil
	}

	for _, templateID := range templateIDs {
		var tpl templateModel.SectionTemplateModel
		if err := db.First(&tpl, "section_template_id = ?", templateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[SYNC] template %s not found, skipping", templateID)
			} else {
				log.Printf("[SYNC] load template %s: %v", templateID, err)
			}
			continue
		}

		sectionIDs := tpl.SectionIDs()
		if len(sectionIDs) == 0 {
			log.Printf("[SYNC] template %s (%q) has no sections, skipping", templateID, tpl.SectionTemplateTitle)
			continue
		}

		names := s.sectionNames(db, sectionIDs)

		for _, subjID := range subjects {
			for _, sectionID := range sectionIDs {
				name, ok := names[sectionID]
				if !ok {
					// dangling section reference: keep the row renderable
					name = tpl.SectionTemplateTitle
				}
				s.insertRow(db, linkageModel.SubjectSectionModel{
					SubjectSectionSubjectID:    subjID,
					SubjectSectionPracticeID:   practiceID,
					SubjectSectionTemplateID:   templateID,
					SubjectSectionSectionID:    sectionID,
					SubjectSectionNameSnapshot: name,
				})
			}
		}
	}

	return nil
}

// ExtendTemplateSections propagates sections newly added to a template to
// every subject already entitled to it. The affected subject set is derived
// from current practice membership: practices referencing the template,
// then their member subjects.
func (s *SyncService) ExtendTemplateSections(ctx context.Context, templateID uuid.UUID, newSectionIDs []uuid.UUID) error {
	if len(newSectionIDs) == 0 {
		return nil
	}
	db := s.DB.WithContext(ctx)

	var tpl templateModel.SectionTemplateModel
	if err := db.First(&tpl, "section_template_id = ?", templateID).Error; err != nil {
		return err
	}

	// practices referencing this template; the list is admin-curated and
	// small, so filtering in memory beats a dialect-specific array query
	var practices []practiceModel.PracticeModel
	if err := db.Find(&practices).Error; err != nil {
		return err
	}

	names := s.sectionNames(db, newSectionIDs)

	for _, p := range practices {
		if !p.HasTemplate(templateID) {
			continue
		}
		subjects, err := s.resolveSubjects(db, p.PracticeID, nil)
		if err != nil {
			log.Printf("[SYNC] resolve members of practice %s: %v", p.PracticeID, err)
			continue
		}
		for _, subjID := range subjects {
			for _, sectionID := range newSectionIDs {
				name, ok := names[sectionID]
				if !ok {
					name = tpl.SectionTemplateTitle
				}
				s.insertRow(db, linkageModel.SubjectSectionModel{
					SubjectSectionSubjectID:    subjID,
					SubjectSectionPracticeID:   p.PracticeID,
					SubjectSectionTemplateID:   templateID,
					SubjectSectionSectionID:    sectionID,
					SubjectSectionNameSnapshot: name,
				})
			}
		}
	}

	return nil
}

// DeleteForSubject removes a subject's linkage rows (bulk subject delete is
// the only retraction path).
func (s *SyncService) DeleteForSubject(ctx context.Context, subjectID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Delete(&linkageModel.SubjectSectionModel{}, "subject_section_subject_id = ?", subjectID).Error
}

func (s *SyncService) resolveSubjects(db *gorm.DB, practiceID uuid.UUID, subjectID *uuid.UUID) ([]uuid.UUID, error) {
	if subjectID != nil {
		var cnt int64
		if err := db.Model(&subjectModel.SubjectModel{}).
			Where("subject_id = ?", *subjectID).
			Count(&cnt).Error; err != nil {
			return nil, err
		}
		if cnt == 0 {
			return nil, nil
		}
		return []uuid.UUID{*subjectID}, nil
	}

	var ids []uuid.UUID
	if err := db.Model(&subjectModel.SubjectPracticeModel{}).
		Where("subject_practice_practice_id = ?", practiceID).
		Order("subject_practice_created_at asc").
		Pluck("subject_practice_subject_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// sectionNames loads current names for the given section ids. Missing ids
// simply stay absent from the map.
func (s *SyncService) sectionNames(db *gorm.DB, ids []uuid.UUID) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(ids))
	var rows []sectionModel.SectionModel
	if err := db.Select("section_id", "section_name").
		Where("section_id IN ?", ids).
		Find(&rows).Error; err != nil {
		log.Printf("[SYNC] load section names: %v", err)
		return out
	}
	for _, r := range rows {
		out[r.SectionID] = r.SectionName
	}
	return out
}

// insertRow inserts one linkage row; a unique-index conflict means another
// run already materialized the tuple and is treated as success.
func (s *SyncService) insertRow(db *gorm.DB, row linkageModel.SubjectSectionModel) {
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		log.Printf("[SYNC] insert linkage subject=%s practice=%s template=%s section=%s: %v",
			row.SubjectSectionSubjectID, row.SubjectSectionPracticeID,
			row.SubjectSectionTemplateID, row.SubjectSectionSectionID, res.Error)
	}
}
