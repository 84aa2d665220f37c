package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, r io.Reader, size int64, tenantCode, fileID, originalName string) (string, error) {
	args := m.Called(ctx, r, size, tenantCode, fileID, originalName)
	if f, ok := args.Get(0).(func(context.Context, io.Reader, int64, string, string, string) string); ok {
		return f(ctx, r, size, tenantCode, fileID, originalName), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Load(ctx context.Context, relPath string) (io.ReadCloser, error) {
	args := m.Called(ctx, relPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, relPath string) error {
	args := m.Called(ctx, relPath)
	return args.Error(0)
}

func (m *MockStorage) Resolve(relPath string) (string, error) {
	args := m.Called(relPath)
	return args.String(0), args.Error(1)
}
