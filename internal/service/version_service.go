package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uigen-go/internal/config"
	"uigen-go/internal/model"
	"uigen-go/internal/repository"
	"uigen-go/pkg/kafka"
	"uigen-go/pkg/log"
)

// 版本存储失败的分类，handler 据此返回固定文案，原始错误只写日志。
var (
	ErrFetchFailed = errors.New("failed to load version")
	ErrListFailed  = errors.New("failed to load versions")
	ErrStoreFailed = errors.New("failed to store version")
)

const (
	defaultListLimit = 50
	maxListLimit     = 60
)

// VersionService 定义了版本历史的业务逻辑。查不到记录时返回 (nil, nil)。
type VersionService interface {
	// CreateVersion 保存一次被接受的代码。与最新版本完全相同时不插入，直接返回最新版本。
	CreateVersion(ctx context.Context, code string) (*model.Version, error)
	GetLatestVersion(ctx context.Context) (*model.Version, error)
	GetVersion(ctx context.Context, id uint64) (*model.Version, error)
	// ListVersions 按创建时间倒序返回摘要，limit 非正时取默认值，超过上限时截断。
	ListVersions(ctx context.Context, limit int) ([]model.VersionMeta, error)
}

type versionService struct {
	repo      repository.VersionRepository
	cache     repository.VersionCache
	publisher kafka.Publisher
	limits    config.VersionsConfig
	now       func() time.Time
}

// NewVersionService 创建一个新的 VersionService。cache 和 publisher 可以为 nil。
func NewVersionService(repo repository.VersionRepository, cache repository.VersionCache, publisher kafka.Publisher, limits config.VersionsConfig) VersionService {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = defaultListLimit
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = maxListLimit
	}
	return &versionService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		limits:    limits,
		now:       time.Now,
	}
}

func (s *versionService) CreateVersion(ctx context.Context, code string) (*model.Version, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	// 先查后插不是原子的，并发提交相同代码可能产生两行
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	if latest != nil && latest.Code == code {
		return latest, nil
	}

	created, err := s.repo.Create(ctx, code, s.now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	log.Infow("version created", "id", created.ID, "createdAt", created.CreatedAt)

	if s.cache != nil {
		if err := s.cache.Set(ctx, created); err != nil {
			log.Warnf("写入版本缓存失败, id=%d: %v", created.ID, err)
		}
	}
	if s.publisher != nil {
		event := kafka.VersionEvent{ID: created.ID, CreatedAt: created.CreatedAt, CodeExcerpt: created.CodeExcerpt}
		if err := s.publisher.PublishVersionCreated(ctx, event); err != nil {
			log.Warnf("发布版本事件失败, id=%d: %v", created.ID, err)
		}
	}
	return created, nil
}

func (s *versionService) GetLatestVersion(ctx context.Context) (*model.Version, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	v, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return v, nil
}

// GetVersion 先查 Redis，未命中再查数据库并回填。缓存异常只记日志。
func (s *versionService) GetVersion(ctx context.Context, id uint64) (*model.Version, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Warnf("读取版本缓存失败, id=%d: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if v != nil && s.cache != nil {
		if err := s.cache.Set(ctx, v); err != nil {
			log.Warnf("写入版本缓存失败, id=%d: %v", id, err)
		}
	}
	return v, nil
}

func (s *versionService) ListVersions(ctx context.Context, limit int) ([]model.VersionMeta, error) {
	if limit <= 0 {
		limit = s.limits.DefaultLimit
	}
	if limit > s.limits.MaxLimit {
		limit = s.limits.MaxLimit
	}
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
	}
	metas, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
	}
	return metas, nil
}
