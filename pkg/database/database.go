// Package database 负责创建 gorm 连接池和 Redis 客户端。
package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"uigen-go/pkg/log"
)

// DB 是全局的 gorm 连接池，未配置数据库时为 nil。
var DB *gorm.DB

// Dialector 根据连接串选择驱动：
//   - postgres:// 或 postgresql:// → PostgreSQL
//   - sqlite: 前缀、file: 或 :memory: → SQLite
//   - mysql:// 前缀或其他 → MySQL DSN（user:pass@tcp(host:3306)/db?parseTime=true）
func Dialector(url string) gorm.Dialector {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url)
	case strings.HasPrefix(url, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite:"))
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return sqlite.Open(url)
	default:
		return mysql.Open(strings.TrimPrefix(url, "mysql://"))
	}
}

// Open 打开连接池并设置池参数。
func Open(url string) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)           // 空闲连接池中连接的最大数量
	sqlDB.SetMaxOpenConns(100)          // 打开数据库连接的最大数量
	sqlDB.SetConnMaxLifetime(time.Hour) // 连接可复用的最大时间
	return db, nil
}

// InitDB 初始化全局 DB。url 为空或连接失败只记录警告，之后的版本存储调用会在调用时失败。
func InitDB(url string) {
	if url == "" {
		log.Warn("DATABASE_URL is not set. Version storage will fail.")
		return
	}
	db, err := Open(url)
	if err != nil {
		log.Error("数据库连接失败，版本存储不可用", err)
		return
	}
	DB = db
	log.Infof("Database connected successfully (dialect=%s)", db.Dialector.Name())
}

// Close 关闭全局连接池。
func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
