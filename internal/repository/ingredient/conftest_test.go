package ingredient

import (
	"context"
	"testing"

	"github.com/chative-cloud/ingredix/internal/db"
)

// --- Mocks ---

type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	delFn         func(ctx context.Context, key string) error
	existsFn      func(ctx context.Context, key string) (bool, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn == nil {
		return nil
	}
	return m.hsetFn(ctx, key, fields)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn == nil {
		return nil, nil
	}
	return m.hgetAllFn(ctx, key)
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn == nil {
		return nil
	}
	return m.delFn(ctx, key)
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn == nil {
		return false, nil
	}
	return m.existsFn(ctx, key)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn == nil {
		return nil
	}
	return m.createIndexFn(ctx, def)
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn == nil {
		return false, nil
	}
	return m.indexExistsFn(ctx, name)
}

func newTestRepo(t *testing.T, s *mockStore) *Repo {
	t.Helper()
	return New(s, 4).WithHNSW(HNSWConfig{M: 16, EFConstruct: 200})
}
