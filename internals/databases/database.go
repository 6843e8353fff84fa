package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/abhishekdev8928/wefanss-backend/internals/configs"
	activityModel "github.com/abhishekdev8928/wefanss-backend/internals/features/activity/model"
	contentModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/content/model"
	linkageModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/linkages/model"
	practiceModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/practices/model"
	sectionModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/sections/model"
	templateModel "github.com/abhishekdev8928/wefanss-backend/internals/features/builder/templates/model"
	subjectModel "github.com/abhishekdev8928/wefanss-backend/internals/features/subjects/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	// Full DSN + statement_timeout. With PgBouncer keep PreferSimpleProtocol=true.
	sslmode := configs.GetEnv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=wefanss&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate keeps the schema current. The unique index on subject_sections is
// what makes concurrent sync runs safe: duplicate inserts become no-ops.
func Migrate() {
	if err := DB.AutoMigrate(
		&sectionModel.SectionModel{},
		&templateModel.SectionTemplateModel{},
		&practiceModel.PracticeModel{},
		&subjectModel.SubjectModel{},
		&subjectModel.SubjectPracticeModel{},
		&linkageModel.SubjectSectionModel{},
		&contentModel.ContentRecordModel{},
		&activityModel.ActivityLogModel{},
	); err != nil {
		log.Fatalf("❌ migrate failed: %v", err)
	}
	log.Println("✅ Schema migrated.")
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
