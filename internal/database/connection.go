package database

import (
	"errors"
	"os"

	"github.com/thereayou/storyweaver/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// gormConfig включает трансляцию ошибок драйвера: без TranslateError
// нарушение уникального индекса остается сырым *pgconn.PgError и не
// совпадает с gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Connect открывает Postgres по DATABASE_URL и прогоняет миграции.
func Connect() (*Database, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.UserProfile{},
		&models.Room{},
		&models.RoomMembership{},
		&models.Panel{},
	)
	if err != nil {
		return nil, err
	}

	return NewDatabase(db), nil
}
