package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"filerepo/internal/model"
	"filerepo/internal/repository"
)

// TenantService manages tenant upload policies.
type TenantService interface {
	// Create normalizes in and stores it under a newly assigned tenant code.
	Create(ctx context.Context, in model.PolicyInput) (*model.TenantPolicy, error)
	Get(ctx context.Context, id int64) (*model.TenantPolicy, error)
	List(ctx context.Context) ([]model.TenantPolicy, error)
	// Update replaces the whole policy of an existing tenant.
	Update(ctx context.Context, id int64, in model.PolicyInput) (*model.TenantPolicy, error)
	Delete(ctx context.Context, id int64) error
}

type tenantService struct {
	repo repository.TenantRepository
	log  *zap.Logger
}

// NewTenantService constructs a new TenantService.
func NewTenantService(repo repository.TenantRepository, log *zap.Logger) TenantService {
	if log == nil {
		log = zap.NewNop()
	}
	return &tenantService{repo: repo, log: log}
}

func (s *tenantService) Create(ctx context.Context, in model.PolicyInput) (*model.TenantPolicy, error) {
	p, err := model.NewTenantPolicy(in)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.Create(ctx, &p)
	if err != nil {
		return nil, storageErr("create_tenant", "", err)
	}
	s.log.Info("tenant created", zap.Int64("tenant_id", out.TenantID), zap.String("tenant_code", out.TenantCode))
	return out, nil
}

func (s *tenantService) Get(ctx context.Context, id int64) (*model.TenantPolicy, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("get_tenant", strconv.FormatInt(id, 10), err)
	}
	return p, nil
}

func (s *tenantService) List(ctx context.Context) ([]model.TenantPolicy, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("list_tenants", "", err)
	}
	return items, nil
}

func (s *tenantService) Update(ctx context.Context, id int64, in model.PolicyInput) (*model.TenantPolicy, error) {
	p, err := model.NewTenantPolicy(in)
	if err != nil {
		return nil, err
	}
	p.TenantID = id
	out, err := s.repo.Update(ctx, &p)
	if err != nil {
		return nil, storageErr("update_tenant", strconv.FormatInt(id, 10), err)
	}
	return out, nil
}

func (s *tenantService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageErr("delete_tenant", strconv.FormatInt(id, 10), err)
	}
	return nil
}
