package mocks

import (
	"context"

	"filerepo/internal/model"
	"filerepo/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, p *model.TenantPolicy) (*model.TenantPolicy, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantPolicy), args.Error(1)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id int64) (*model.TenantPolicy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantPolicy), args.Error(1)
}

func (m *MockTenantRepository) List(ctx context.Context) ([]model.TenantPolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TenantPolicy), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, p *model.TenantPolicy) (*model.TenantPolicy, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantPolicy), args.Error(1)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, f *model.FileRecord) (*model.FileRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, *model.FileRecord) *model.FileRecord); ok {
		return fn(ctx, f), args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id string) (*model.FileRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileRepository) List(ctx context.Context, tenantID int64, filter model.FileFilter, pq repository.PageQuery) (*repository.PageResult[model.FileRecord], error) {
	args := m.Called(ctx, tenantID, filter, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.FileRecord]), args.Error(1)
}

func (m *MockFileRepository) Update(ctx context.Context, f *model.FileRecord) (*model.FileRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, *model.FileRecord) *model.FileRecord); ok {
		return fn(ctx, f), args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEmbeddingRepository struct {
	mock.Mock
}

func (m *MockEmbeddingRepository) Upsert(ctx context.Context, rec *model.EmbeddingRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockEmbeddingRepository) ListByFile(ctx context.Context, fileID string) ([]model.EmbeddingRecord, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmbeddingRecord), args.Error(1)
}

func (m *MockEmbeddingRepository) PageIndexes(ctx context.Context, fileID string) (map[int]struct{}, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]struct{}), args.Error(1)
}

func (m *MockEmbeddingRepository) DeleteByFile(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}
