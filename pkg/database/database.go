package database

import (
	"fmt"
	"log"

	"github.com/alexandre-rezende616/spacelearn/internal/config"
	"github.com/alexandre-rezende616/spacelearn/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	gormLogLevel := logger.Info
	if cfg.Server.Mode == "release" {
		gormLogLevel = logger.Warn
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// Release deployments migrate only when asked; schema changes there go
	// through the -migrate flag.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")

		if err := seedMedals(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Profile{},
		&model.Class{},
		&model.Enrollment{},
		&model.ClassMessage{},
		&model.Mission{},
		&model.MissionQuestion{},
		&model.MissionOption{},
		&model.MissionClass{},
		&model.Attempt{},
		&model.Progress{},
		&model.Medal{},
		&model.Purchase{},
	)
}

// seedMedals inserts the default medal catalog on an empty database so a
// fresh deployment has thresholds to unlock against.
func seedMedals(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Medal{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []model.Medal{
		{Title: "Aprendiz Espacial", Description: "Acerte 5 perguntas", RequiredCorrect: 5},
		{Title: "Explorador do Sistema", Description: "Acerte 15 perguntas", RequiredCorrect: 15},
		{Title: "Engenheiro de Órbita", Description: "Acerte 40 perguntas", RequiredCorrect: 40},
		{Title: "Veterano Espacial", Description: "Acerte 100 perguntas", RequiredCorrect: 100},
	}
	for _, m := range defaults {
		if err := db.Create(&m).Error; err != nil {
			return err
		}
	}
	return nil
}
