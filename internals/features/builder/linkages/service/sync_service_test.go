package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	linkageModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/model"
	practiceModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/model"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
	templateModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/model"
	subjectModel "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single conn keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&sectionModel.SectionModel{},
		&subjectModel.SubjectModel{},
		&subjectModel.SubjectPracticeModel{},
		&linkageModel.SubjectSectionModel{},
	))

	// section_templates / practices carry postgres array columns; plain
	// text columns are enough here since pq arrays round-trip as text
	require.NoError(t, db.Exec(`CREATE TABLE section_templates (
		section_template_id text PRIMARY KEY,
		section_template_title text NOT NULL,
		section_template_url text NOT NULL DEFAULT '',
		section_template_sections text,
		section_template_status integer NOT NULL DEFAULT 1,
		section_template_created_by text,
		section_template_created_at datetime,
		section_template_updated_at datetime
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE practices (
		practice_id text PRIMARY KEY,
		practice_name text NOT NULL,
		practice_slug text NOT NULL DEFAULT '',
		practice_url text NOT NULL DEFAULT '',
		practice_image text NOT NULL DEFAULT '',
		practice_templates text,
		practice_status integer NOT NULL DEFAULT 1,
		practice_created_by text,
		practice_created_at datetime,
		practice_updated_at datetime
	)`).Error)

	return db
}

func seedSection(t *testing.T, db *gorm.DB, name string) sectionModel.SectionModel {
	t.Helper()
	s := sectionModel.SectionModel{SectionName: name, SectionSlug: name, SectionURL: name, SectionStatus: 1}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedTemplate(t *testing.T, db *gorm.DB, title string, sectionIDs ...uuid.UUID) templateModel.SectionTemplateModel {
	t.Helper()
	tpl := templateModel.SectionTemplateModel{
		SectionTemplateTitle:  title,
		SectionTemplateURL:    title,
		SectionTemplateStatus: 1,
	}
	for _, id := range sectionIDs {
		tpl.SectionTemplateSections = append(tpl.SectionTemplateSections, id.String())
	}
	require.NoError(t, db.Create(&tpl).Error)
	return tpl
}

func seedPractice(t *testing.T, db *gorm.DB, name string, templateIDs ...uuid.UUID) practiceModel.PracticeModel {
	t.Helper()
	p := practiceModel.PracticeModel{PracticeName: name, PracticeSlug: name, PracticeURL: name, PracticeStatus: 1}
	for _, id := range templateIDs {
		p.PracticeTemplates = append(p.PracticeTemplates, id.String())
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedSubject(t *testing.T, db *gorm.DB, name string, practices ...uuid.UUID) subjectModel.SubjectModel {
	t.Helper()
	s := subjectModel.SubjectModel{SubjectName: name, SubjectSlug: name, SubjectURL: name, SubjectStatus: 1}
	require.NoError(t, db.Create(&s).Error)
	for _, pid := range practices {
		require.NoError(t, db.Create(&subjectModel.SubjectPracticeModel{
			SubjectPracticeSubjectID:  s.SubjectID,
			SubjectPracticePracticeID: pid,
		}).Error)
	}
	return s
}

func countLinkages(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&linkageModel.SubjectSectionModel{}).Count(&n).Error)
	return n
}

func TestSyncCrossProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db)
	ctx := context.Background()

	awards := seedSection(t, db, "Awards")
	movies := seedSection(t, db, "Movies")
	tpl := seedTemplate(t, db, "Actor Profile", awards.SectionID, movies.SectionID)
	practice := seedPractice(t, db, "Acting", tpl.SectionTemplateID)

	seedSubject(t, db, "subject-a", practice.PracticeID)
	seedSubject(t, db, "subject-b", practice.PracticeID)
	seedSubject(t, db, "subject-c", practice.PracticeID)

	require.NoError(t, svc.Sync(ctx, practice.PracticeID, practice.TemplateIDs(), nil))
	require.EqualValues(t, 6, countLinkages(t, db))

	var rows []linkageModel.SubjectSectionModel
	require.NoError(t, db.Where("subject_section_section_id = ?", awards.SectionID).Find(&rows).Error)
	require.Len(t, rows, 3)
	for _, r := range rows {
		require.Equal(t, "Awards", r.SubjectSectionNameSnapshot)
		require.Equal(t, practice.PracticeID, r.SubjectSectionPracticeID)
		require.Equal(t, tpl.SectionTemplateID, r.SubjectSectionTemplateID)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db)
	ctx := context.Background()

	sec := seedSection(t, db, "Awards")
	tpl := seedTemplate(t, db, "Profile", sec.SectionID)
	practice := seedPractice(t, db, "Acting", tpl.SectionTemplateID)
	seedSubject(t, db, "subject-a", practice.PracticeID)

	require.NoError(t, svc.Sync(ctx, practice.PracticeID, practice.TemplateIDs(), nil))
	require.NoError(t, svc.Sync(ctx, practice.PracticeID, practice.TemplateIDs(), nil))
	require.EqualValues(t, 1, countLinkages(t, db))
}

func TestSyncScopedToOneSubject(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db)
	ctx := context.Background()

	sec := seedSection(t, db, "Awards")
	tpl := seedTemplate(t, db, "Profile", sec.SectionID)
	practice := seedPractice(t, db, "Acting", tpl.SectionTemplateID)
	target := seedSubject(t, db, "subject-a", practice.PracticeID)
	seedSubject(t, db, "subject-b", practice.PracticeID)

	require.NoError(t, svc.Sync(ctx, practice.PracticeID, practice.TemplateIDs(), &target.SubjectID))

	var rows []linkageModel.SubjectSectionModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, target.SubjectID, rows[0].SubjectSectionSubjectID)
}

func TestSyncSkipsMissingAndEmptyTemplates(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db)
	ctx := context.Background()

	sec := seedSection(t, db, "Awards")
	good := seedTemplate(t, db, "Profile", sec.SectionID)
	empty := seedTemplate(t, db, "Empty")
	practice := seedPractice(t, db, "Acting", good.SectionTemplateID, empty.SectionTemplateID)
	seedSubject(t, db, "subject-a", practice.PracticeID)

	missing := uuid.New()
	templates := append(practice.TemplateIDs(), missing)

	require.NoError(t, svc.Sync(ctx, practice.PracticeID, templates, nil))
	require.EqualValues(t, 1, countLinkages(t, db))
}

func TestSyncDanglingSectionFallsBackToTemplateTitle(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db)
	ctx := context.Background()

	gone := uuid.New()
	tpl := seedTemplate(t, db, "Legacy Profile", gone)
	practice := seedPractice(t, db, "Acting", tpl.SectionTemplateID)
	seedSubject(t, db, "subject-a", practice.PracticeID)

	require.NoError(t, svc.Sync(ctx, practice.PracticeID, practice.TemplateIDs(), nil))

	var row linkageModel.SubjectSectionModel
	require.NoError(t, db.First(&row).Error)
	require.Equal(t, "Legacy Profile", row.SubjectSectionNameSnapshot)
	require.Equal(t, gone, row.SubjectSectionSectionID)
}

func TestSyncNoMembersIsNoop(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db)

	sec := seedSection(t, db, "Awards")
	tpl := seedTemplate(t, db, "Profile", sec.SectionID)
	practice := seedPractice(t, db, "Acting", tpl.SectionTemplateID)

	require.NoError(t, svc.Sync(context.Background(), practice.PracticeID, practice.TemplateIDs(), nil))
	require.EqualValues(t, 0, countLinkages(t, db))
}

func TestExtendTemplateSectionsPropagates(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db)
	ctx := context.Background()

	awards := seedSection(t, db, "Awards")
	tpl := seedTemplate(t, db, "Profile", awards.SectionID)
	practice := seedPractice(t, db, "Acting", tpl.SectionTemplateID)
	other := seedPractice(t, db, "Music") // no templates, must stay untouched
	a := seedSubject(t, db, "subject-a", practice.PracticeID)
	b := seedSubject(t, db, "subject-b", practice.PracticeID)
	seedSubject(t, db, "subject-c", other.PracticeID)

	require.NoError(t, svc.Sync(ctx, practice.PracticeID, practice.TemplateIDs(), nil))
	require.EqualValues(t, 2, countLinkages(t, db))

	// admin adds a section to the template afterwards
	filmo := seedSection(t, db, "Filmography")
	tpl.SectionTemplateSections = append(tpl.SectionTemplateSections, filmo.SectionID.String())
	require.NoError(t, db.Save(&tpl).Error)

	require.NoError(t, svc.ExtendTemplateSections(ctx, tpl.SectionTemplateID, []uuid.UUID{filmo.SectionID}))
	require.EqualValues(t, 4, countLinkages(t, db))

	var rows []linkageModel.SubjectSectionModel
	require.NoError(t, db.Where("subject_section_section_id = ?", filmo.SectionID).Find(&rows).Error)
	require.Len(t, rows, 2)
	got := map[uuid.UUID]bool{}
	for _, r := range rows {
		require.Equal(t, "Filmography", r.SubjectSectionNameSnapshot)
		got[r.SubjectSectionSubjectID] = true
	}
	require.True(t, got[a.SubjectID])
	require.True(t, got[b.SubjectID])
}

func TestDeleteForSubject(t *testing.T) {
	db := openTestDB(t)
	svc := NewSyncService(db)
	ctx := context.Background()

	sec := seedSection(t, db, "Awards")
	tpl := seedTemplate(t, db, "Profile", sec.SectionID)
	practice := seedPractice(t, db, "Acting", tpl.SectionTemplateID)
	a := seedSubject(t, db, "subject-a", practice.PracticeID)
	seedSubject(t, db, "subject-b", practice.PracticeID)

	require.NoError(t, svc.Sync(ctx, practice.PracticeID, practice.TemplateIDs(), nil))
	require.EqualValues(t, 2, countLinkages(t, db))

	require.NoError(t, svc.DeleteForSubject(ctx, a.SubjectID))

	var rows []linkageModel.SubjectSectionModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.NotEqual(t, a.SubjectID, rows[0].SubjectSectionSubjectID)
}
