package db

import (
	"log"
	"os"

	"github.com/v-tox/api-yamdb/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=yamdb port=5432 sslmode=disable"
	}

	var err error
	// TranslateError 让唯一约束冲突以 gorm.ErrDuplicatedKey 暴露，
	// handler 层据此返回 409 而不是泄露存储层错误
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.Review{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedAdmin()
}

// seedAdmin 根据环境变量创建初始管理员，已存在则跳过
func seedAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	if username == "" || email == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("role = ? OR is_superuser = ?", models.RoleAdmin, true).Count(&count)
	if count > 0 {
		log.Println("Admin already seeded, skipping")
		return
	}

	admin := models.User{
		Username:    username,
		Email:       email,
		Role:        models.RoleAdmin,
		IsSuperuser: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create admin %s: %v", username, err)
		return
	}
	log.Printf("Initial admin %s created successfully", username)
}
