package mocks

import (
	"context"

	"filerepo/internal/index"
	"filerepo/internal/model"
	"filerepo/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) Create(ctx context.Context, in model.PolicyInput) (*model.TenantPolicy, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantPolicy), args.Error(1)
}

func (m *MockTenantService) Get(ctx context.Context, id int64) (*model.TenantPolicy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantPolicy), args.Error(1)
}

func (m *MockTenantService) List(ctx context.Context) ([]model.TenantPolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TenantPolicy), args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, id int64, in model.PolicyInput) (*model.TenantPolicy, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantPolicy), args.Error(1)
}

func (m *MockTenantService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, in service.UploadInput) (*model.FileRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, tenantID int64, fileID string) (*model.FileRecord, error) {
	args := m.Called(ctx, tenantID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, tenantID int64, filter model.FileFilter, limit, offset int) (*service.FileListResult, error) {
	args := m.Called(ctx, tenantID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileListResult), args.Error(1)
}

func (m *MockFileService) Update(ctx context.Context, tenantID int64, fileID string, upd model.FileUpdate) (*model.FileRecord, error) {
	args := m.Called(ctx, tenantID, fileID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, tenantID int64, fileID string) error {
	args := m.Called(ctx, tenantID, fileID)
	return args.Error(0)
}

func (m *MockFileService) Open(ctx context.Context, tenantID int64, fileID string) (*service.FileContent, error) {
	args := m.Called(ctx, tenantID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileContent), args.Error(1)
}

type MockEmbeddingService struct {
	mock.Mock
}

func (m *MockEmbeddingService) Generate(ctx context.Context, tenantID int64, fileID string, opts index.GenerateOptions) (*index.GenerateResult, error) {
	args := m.Called(ctx, tenantID, fileID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*index.GenerateResult), args.Error(1)
}

func (m *MockEmbeddingService) List(ctx context.Context, tenantID int64, fileID string) ([]model.EmbeddingRecord, error) {
	args := m.Called(ctx, tenantID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmbeddingRecord), args.Error(1)
}

func (m *MockEmbeddingService) Search(ctx context.Context, tenantID int64, fileID, query string) ([]model.SearchHit, error) {
	args := m.Called(ctx, tenantID, fileID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SearchHit), args.Error(1)
}
