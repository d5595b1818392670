package repository

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"uigen-go/internal/model"
)

// newTestDB 打开一个内存 SQLite，单连接保证所有查询看到同一个库。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestRepo(t *testing.T) VersionRepository {
	t.Helper()
	repo := NewVersionRepository(newTestDB(t))
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	repo := NewVersionRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.EnsureSchema(ctx)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestCreate_AssignsIncreasingIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, "const a = 1", 1000)
	require.NoError(t, err)
	b, err := repo.Create(ctx, "const b = 2", 1000)
	require.NoError(t, err)

	assert.Greater(t, b.ID, a.ID)
	assert.Equal(t, int64(1000), a.CreatedAt)
	assert.Equal(t, "const a = 1", a.CodeExcerpt)
}

func TestLatest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	v, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = repo.Create(ctx, "old", 2000)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "older", 1000)
	require.NoError(t, err)
	tie, err := repo.Create(ctx, "tie", 2000)
	require.NoError(t, err)

	v, err = repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, tie.ID, v.ID)
	assert.Equal(t, "tie", v.Code)
}

func TestFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "export default function App() {}", 42)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Code, got.Code)
	assert.Equal(t, int64(42), got.CreatedAt)

	missing, err := repo.FindByID(ctx, created.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestList_OrderLimitAndExcerpt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	long := strings.Repeat("x", 500)
	first, err := repo.Create(ctx, long, 100)
	require.NoError(t, err)
	second, err := repo.Create(ctx, "short", 300)
	require.NoError(t, err)
	third, err := repo.Create(ctx, "middle", 200)
	require.NoError(t, err)

	metas, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, []uint64{second.ID, third.ID, first.ID}, []uint64{metas[0].ID, metas[1].ID, metas[2].ID})
	assert.Equal(t, "short", metas[0].CodeExcerpt)
	assert.Len(t, metas[2].CodeExcerpt, model.ExcerptLength)

	metas, err = repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, metas, 2)

	metas, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestList_Empty(t *testing.T) {
	metas, err := newTestRepo(t).List(context.Background(), 50)
	require.NoError(t, err)
	assert.NotNil(t, metas)
	assert.Empty(t, metas)
}

func TestNilDB(t *testing.T) {
	repo := NewVersionRepository(nil)
	ctx := context.Background()

	assert.ErrorIs(t, repo.EnsureSchema(ctx), ErrStoreUnavailable)
	_, err := repo.Create(ctx, "x", 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = repo.Latest(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = repo.List(ctx, 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
