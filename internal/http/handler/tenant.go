package handler

import (
	"github.com/gofiber/fiber/v2"

	"filerepo/internal/model"
	"filerepo/internal/service"
)

// CreateTenant stores a new tenant policy.
//
// @Summary Create tenant policy
// @Tags tenants
// @Accept json
// @Produce json
// @Param policy body model.PolicyInput true "Upload policy"
// @Success 201 {object} model.TenantPolicy
// @Failure 400 {object} errorPayload
// @Router /v1/tenants [post]
func CreateTenant(svc service.TenantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.PolicyInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		p, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ListTenants returns every tenant policy.
//
// @Summary List tenant policies
// @Tags tenants
// @Produce json
// @Success 200 {object} map[string][]model.TenantPolicy
// @Router /v1/tenants [get]
func ListTenants(svc service.TenantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": items, "total": len(items)})
	}
}

// GetTenant returns one tenant policy.
//
// @Summary Get tenant policy
// @Tags tenants
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Success 200 {object} model.TenantPolicy
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId} [get]
func GetTenant(svc service.TenantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// UpdateTenant replaces a tenant policy wholesale.
//
// @Summary Replace tenant policy
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Param policy body model.PolicyInput true "Upload policy"
// @Success 200 {object} model.TenantPolicy
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId} [put]
func UpdateTenant(svc service.TenantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		var in model.PolicyInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		p, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// DeleteTenant removes a tenant policy.
//
// @Summary Delete tenant policy
// @Tags tenants
// @Param tenantId path int true "Tenant ID"
// @Success 204
// @Failure 400 {object} errorPayload "TENANT_IN_USE when files remain"
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId} [delete]
func DeleteTenant(svc service.TenantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
