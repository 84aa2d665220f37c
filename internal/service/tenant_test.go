package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filerepo/internal/apperr"
	"filerepo/internal/model"
	repoMocks "filerepo/internal/repository/mocks"
)

func TestTenantService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         model.PolicyInput
		setupMocks func(mRepo *repoMocks.MockTenantRepository)
		wantCode   string
		wantRule   string
		wantErr    bool
	}{
		{
			name: "happy path",
			in:   model.PolicyInput{MaxFileSizeKB: 100, AllowedExtensions: []string{"PDF"}},
			setupMocks: func(mRepo *repoMocks.MockTenantRepository) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.TenantPolicy) bool {
					return p.MaxFileSizeBytes == 100*1024 && p.AllowedExtensions.Has(".pdf")
				})).Return(&model.TenantPolicy{TenantID: 1, TenantCode: "TEN001"}, nil)
			},
			wantCode: "TEN001",
		},
		{
			name:       "invalid policy",
			in:         model.PolicyInput{MaxFileSizeKB: 0},
			setupMocks: func(mRepo *repoMocks.MockTenantRepository) {},
			wantRule:   apperr.RuleInvalidPolicy,
			wantErr:    true,
		},
		{
			name: "repository error",
			in:   model.PolicyInput{MaxFileSizeKB: 1},
			setupMocks: func(mRepo *repoMocks.MockTenantRepository) {
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockTenantRepository)
			tt.setupMocks(mRepo)
			svc := NewTenantService(mRepo, nil)

			got, err := svc.Create(ctx, tt.in)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				if tt.wantRule != "" {
					assert.True(t, apperr.HasRule(err, tt.wantRule))
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCode, got.TenantCode)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestTenantService_RepositoryErrorsAreStorageErrors(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockTenantRepository)
	mRepo.On("List", ctx).Return(nil, errors.New("db down"))

	_, err := NewTenantService(mRepo, nil).List(ctx)

	var se *apperr.StorageError
	assert.ErrorAs(t, err, &se)
}

func TestTenantService_Get(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockTenantRepository)
	mRepo.On("FindByID", ctx, int64(9)).Return(nil, apperr.NotFound("tenant", "9"))

	p, err := NewTenantService(mRepo, nil).Get(ctx, 9)

	assert.True(t, apperr.IsNotFound(err))
	assert.Nil(t, p)
}

func TestTenantService_Update(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockTenantRepository)
	mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.TenantPolicy) bool {
		return p.TenantID == 3 && p.ForbiddenMIMETypes.Has("application/x-msdownload")
	})).Return(&model.TenantPolicy{TenantID: 3, TenantCode: "TEN003"}, nil)

	got, err := NewTenantService(mRepo, nil).Update(ctx, 3, model.PolicyInput{
		MaxFileSizeKB:      10,
		ForbiddenMIMETypes: []string{"Application/X-MSDownload"},
	})

	require.NoError(t, err)
	assert.Equal(t, "TEN003", got.TenantCode)
	mRepo.AssertExpectations(t)
}

func TestTenantService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		mRepo := new(repoMocks.MockTenantRepository)
		mRepo.On("FindByID", ctx, int64(2)).Return(&model.TenantPolicy{TenantID: 2}, nil)
		mRepo.On("Delete", ctx, int64(2)).Return(nil)

		assert.NoError(t, NewTenantService(mRepo, nil).Delete(ctx, 2))
		mRepo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		mRepo := new(repoMocks.MockTenantRepository)
		mRepo.On("FindByID", ctx, int64(2)).Return(nil, apperr.NotFound("tenant", "2"))

		err := NewTenantService(mRepo, nil).Delete(ctx, 2)

		assert.True(t, apperr.IsNotFound(err))
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("still owns files", func(t *testing.T) {
		mRepo := new(repoMocks.MockTenantRepository)
		mRepo.On("FindByID", ctx, int64(3)).Return(&model.TenantPolicy{TenantID: 3}, nil)
		mRepo.On("Delete", ctx, int64(3)).Return(apperr.Validation(apperr.RuleTenantInUse, "3", "tenant 3 still owns files"))

		err := NewTenantService(mRepo, nil).Delete(ctx, 3)

		assert.True(t, apperr.HasRule(err, apperr.RuleTenantInUse))
	})
}
