package system

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"showtime/api/config"
)

var db *gorm.DB

// InitDb opens the mysql connection pool. Called once from main before any
// handler runs.
func InitDb() error {
	cfg := config.Get()
	conn, err := gorm.Open(mysql.Open(cfg.Mysql.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db = conn
	return nil
}

func GetDb() *gorm.DB {
	return db
}

// SetDb swaps the handle, used by tests running against sqlite or a mock.
func SetDb(conn *gorm.DB) {
	db = conn
}
