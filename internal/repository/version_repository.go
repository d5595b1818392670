// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"uigen-go/internal/model"
)

// ErrStoreUnavailable 表示没有配置数据库连接。
var ErrStoreUnavailable = errors.New("version store is not configured")

// VersionRepository 定义了版本表的持久化操作。查不到记录时返回 (nil, nil)。
type VersionRepository interface {
	// EnsureSchema 幂等地创建表和索引，可以并发调用。
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, code string, createdAt int64) (*model.Version, error)
	Latest(ctx context.Context) (*model.Version, error)
	FindByID(ctx context.Context, id uint64) (*model.Version, error)
	List(ctx context.Context, limit int) ([]model.VersionMeta, error)
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository 创建一个新的 VersionRepository 实例。db 为 nil 时所有操作返回 ErrStoreUnavailable。
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

// schemaStatements 返回各方言的建表语句，全部依赖数据库自身的 IF NOT EXISTS 语义。
// MySQL 不支持 CREATE INDEX IF NOT EXISTS，索引直接写在建表语句里。
func schemaStatements(dialect string) []string {
	switch dialect {
	case "postgres":
		return []string{
			`CREATE TABLE IF NOT EXISTS versions (
				id BIGSERIAL PRIMARY KEY,
				code TEXT NOT NULL,
				created_at BIGINT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_versions_created_at ON versions(created_at DESC)`,
		}
	case "mysql":
		return []string{
			`CREATE TABLE IF NOT EXISTS versions (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
				code LONGTEXT NOT NULL,
				created_at BIGINT NOT NULL,
				INDEX idx_versions_created_at (created_at DESC)
			) DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return []string{
			`CREATE TABLE IF NOT EXISTS versions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				code TEXT NOT NULL,
				created_at INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_versions_created_at ON versions(created_at DESC)`,
		}
	}
}

func (r *versionRepository) conn(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	return r.db.WithContext(ctx), nil
}

// EnsureSchema 每次调用都执行建表语句，不在进程内记录"已初始化"状态。
func (r *versionRepository) EnsureSchema(ctx context.Context) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements(r.db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure versions schema: %w", err)
		}
	}
	return nil
}

// Create 插入一行新版本，ID 由数据库分配。
func (r *versionRepository) Create(ctx context.Context, code string, createdAt int64) (*model.Version, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	v := &model.Version{Code: code, CreatedAt: createdAt}
	if err := db.Create(v).Error; err != nil {
		return nil, fmt.Errorf("insert version: %w", err)
	}
	return v.WithExcerpt(), nil
}

// Latest 返回 created_at 最大的一行，created_at 相同时取 id 较大者。
func (r *versionRepository) Latest(ctx context.Context) (*model.Version, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var v model.Version
	err = db.Order("created_at DESC").Order("id DESC").Limit(1).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest version: %w", err)
	}
	return v.WithExcerpt(), nil
}

// FindByID 按 ID 精确查找。
func (r *versionRepository) FindByID(ctx context.Context, id uint64) (*model.Version, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var v model.Version
	err = db.Where("id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query version %d: %w", id, err)
	}
	return v.WithExcerpt(), nil
}

// List 按创建时间倒序返回最多 limit 条，只取前 140 个字符作为摘要。
func (r *versionRepository) List(ctx context.Context, limit int) ([]model.VersionMeta, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []model.VersionMeta{}, nil
	}
	metas := make([]model.VersionMeta, 0, limit)
	err = db.Model(&model.Version{}).
		Select(fmt.Sprintf("id, created_at, SUBSTR(code, 1, %d) AS code_excerpt", model.ExcerptLength)).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Scan(&metas).Error
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return metas, nil
}
