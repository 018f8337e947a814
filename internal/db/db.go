package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bistro/internal/model"
)

// Open returns a connected GORM DB for the given driver (mysql, postgres or sqlite).
func Open(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, driver)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func configurePool(sqlDB *sql.DB, driver string) {
	// An in-memory sqlite database lives only as long as its single connection.
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
}

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.MenuItem{},
		&model.Booking{},
		&model.Contact{},
	}
}

// Migrate creates or updates the schema. When reset is true all tables are
// dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		models := Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := backfillSearchNames(db); err != nil {
		return fmt.Errorf("backfill search names: %w", err)
	}
	return nil
}

// backfillSearchNames folds names of rows stored before search_name existed.
func backfillSearchNames(db *gorm.DB) error {
	for _, m := range []interface{}{&model.Booking{}, &model.Contact{}} {
		var rows []struct {
			ID   string
			Name string
		}
		if err := db.Model(m).Select("id", "name").Where("search_name = '' AND name <> ''").Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			if err := db.Model(m).Where("id = ?", row.ID).UpdateColumn("search_name", strings.ToLower(row.Name)).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
