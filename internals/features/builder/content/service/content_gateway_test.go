package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	contentModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/content/model"
	sectionDTO "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/dto"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&sectionModel.SectionModel{},
		&contentModel.ContentRecordModel{},
	))
	return db
}

func seedSection(t *testing.T, db *gorm.DB, name string) sectionModel.SectionModel {
	t.Helper()
	s := sectionModel.SectionModel{SectionName: name, SectionSlug: name, SectionURL: name, SectionStatus: 1}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func TestParseSectionGroups(t *testing.T) {
	groups := ParseSectionGroups(map[string][]string{
		"awards.title":   {"Best Actor"},
		"awards.year":    {"2020"},
		"movies.cast[]":  {"Lead", "Producer"},
		"subject_id":     {"not-content"}, // envelope field, no dot
		"awards.":        {"dropped"},     // empty field part
		".orphan":        {"dropped"},     // empty section part
		"movies.title[]": {"Single"},      // [] keeps slice shape even for one value
	})

	require.Len(t, groups, 2)
	require.Equal(t, "Best Actor", groups["awards"]["title"])
	require.Equal(t, "2020", groups["awards"]["year"])
	require.Equal(t, []interface{}{"Lead", "Producer"}, groups["movies"]["cast"])
	require.Equal(t, []interface{}{"Single"}, groups["movies"]["title"])
}

func TestSaveAndListRoundTrip(t *testing.T) {
	db := openTestDB(t)
	g := NewContentGateway(db)
	ctx := context.Background()

	section := seedSection(t, db, "Awards")
	subject := uuid.New()
	template := uuid.New()

	saved, err := g.Save(ctx, subject, template, map[string]map[string]interface{}{
		"Awards": {"role": "Lead", "year": "2020"},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, saved)

	sec, rows, err := g.ListBySection(ctx, subject, section.SectionID)
	require.NoError(t, err)
	require.Equal(t, "Awards", sec.SectionName)
	require.Len(t, rows, 1)
	require.Equal(t, "awards", rows[0].ContentRecordContainer)
	require.Equal(t, "Lead", rows[0].ContentRecordValues["role"])
	require.Equal(t, "2020", rows[0].ContentRecordValues["year"])
	require.Equal(t, template, rows[0].ContentRecordTemplateID)
}

func TestSaveMergesFileRefs(t *testing.T) {
	db := openTestDB(t)
	g := NewContentGateway(db)
	ctx := context.Background()

	section := seedSection(t, db, "Gallery")
	subject := uuid.New()

	saved, err := g.Save(ctx, subject, uuid.New(),
		map[string]map[string]interface{}{"Gallery": {"caption": "premiere"}},
		map[string]map[string]interface{}{"Gallery": {"photo": "/content/a.webp"}},
	)
	require.NoError(t, err)
	require.Equal(t, 1, saved)

	_, rows, err := g.ListBySection(ctx, subject, section.SectionID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "premiere", rows[0].ContentRecordValues["caption"])
	require.Equal(t, "/content/a.webp", rows[0].ContentRecordValues["photo"])
}

func TestContainersIsolateSubjects(t *testing.T) {
	db := openTestDB(t)
	g := NewContentGateway(db)
	ctx := context.Background()

	section := seedSection(t, db, "Awards")
	subjectA := uuid.New()
	subjectB := uuid.New()

	_, err := g.Save(ctx, subjectA, uuid.New(),
		map[string]map[string]interface{}{"awards": {"role": "A"}}, nil)
	require.NoError(t, err)
	_, err = g.Save(ctx, subjectB, uuid.New(),
		map[string]map[string]interface{}{"awards": {"role": "B"}}, nil)
	require.NoError(t, err)

	_, rowsA, err := g.ListBySection(ctx, subjectA, section.SectionID)
	require.NoError(t, err)
	require.Len(t, rowsA, 1)
	require.Equal(t, "A", rowsA[0].ContentRecordValues["role"])

	_, rowsB, err := g.ListBySection(ctx, subjectB, section.SectionID)
	require.NoError(t, err)
	require.Len(t, rowsB, 1)
	require.Equal(t, "B", rowsB[0].ContentRecordValues["role"])
}

func TestUpdateMergesFields(t *testing.T) {
	db := openTestDB(t)
	g := NewContentGateway(db)
	ctx := context.Background()

	section := seedSection(t, db, "Awards")
	subject := uuid.New()

	_, err := g.Save(ctx, subject, uuid.New(),
		map[string]map[string]interface{}{"Awards": {"role": "Lead", "year": "2020"}}, nil)
	require.NoError(t, err)

	_, rows, err := g.ListBySection(ctx, subject, section.SectionID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row, err := g.Update(ctx, subject, "Awards", rows[0].ContentRecordID,
		map[string]interface{}{"year": "2021"})
	require.NoError(t, err)
	require.Equal(t, "2021", row.ContentRecordValues["year"])
	require.Equal(t, "Lead", row.ContentRecordValues["role"]) // untouched field kept

	_, reloaded, err := g.GetByID(ctx, subject, section.SectionID, rows[0].ContentRecordID)
	require.NoError(t, err)
	require.Equal(t, "2021", reloaded.ContentRecordValues["year"])
	require.Equal(t, "Lead", reloaded.ContentRecordValues["role"])
}

func TestUpdateWrongSubjectNotFound(t *testing.T) {
	db := openTestDB(t)
	g := NewContentGateway(db)
	ctx := context.Background()

	section := seedSection(t, db, "Awards")
	subject := uuid.New()

	_, err := g.Save(ctx, subject, uuid.New(),
		map[string]map[string]interface{}{"Awards": {"role": "Lead"}}, nil)
	require.NoError(t, err)

	_, rows, err := g.ListBySection(ctx, subject, section.SectionID)
	require.NoError(t, err)

	_, err = g.Update(ctx, uuid.New(), "Awards", rows[0].ContentRecordID,
		map[string]interface{}{"role": "X"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	db := openTestDB(t)
	g := NewContentGateway(db)

	err := g.Delete(context.Background(), uuid.New(), "Awards", uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestValidateValues(t *testing.T) {
	configs := []sectionDTO.FieldConfig{
		{Title: "Role", Type: "text", IsRequired: true},
		{Title: "Award Type", Type: "select", Options: []sectionDTO.FieldOption{
			{Label: "Best Actor", Value: "best_actor"},
			{Label: "Best Director", Value: "best_director"},
		}},
	}

	issues := ValidateValues(configs, map[string]interface{}{
		"award_type": "best_singer",
	})
	require.Len(t, issues, 2) // role missing + unknown option

	issues = ValidateValues(configs, map[string]interface{}{
		"role":       "Lead",
		"award_type": "best_actor",
	})
	require.Empty(t, issues)

	// free-text fields never fail on content, only on absence
	issues = ValidateValues(configs, map[string]interface{}{
		"role": "anything at all",
	})
	require.Empty(t, issues)
}
