package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"filerepo/internal/index"
	"filerepo/internal/service"
)

// LastPageHeader reports how far a failed generation got.
const LastPageHeader = "X-Embedding-Last-Page"

// GenerateEmbeddings embeds every page of a PDF file.
//
// @Summary Generate page embeddings
// @Tags embeddings
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Param fileId path string true "File ID"
// @Param resume query bool false "Skip pages that already have an embedding"
// @Success 200 {object} index.GenerateResult
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files/{fileId}/embeddings [post]
func GenerateEmbeddings(svc service.EmbeddingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		res, err := svc.Generate(c.UserContext(), tenantID, c.Params("fileId"), index.GenerateOptions{
			Resume: c.QueryBool("resume"),
		})
		if err != nil {
			if res != nil {
				c.Set(LastPageHeader, strconv.Itoa(res.LastPage))
			}
			return err
		}
		return c.JSON(res)
	}
}

// ListEmbeddings returns the stored page embeddings of a file.
//
// @Summary List page embeddings
// @Tags embeddings
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Param fileId path string true "File ID"
// @Success 200 {object} map[string][]model.EmbeddingRecord
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files/{fileId}/embeddings [get]
func ListEmbeddings(svc service.EmbeddingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		recs, err := svc.List(c.UserContext(), tenantID, c.Params("fileId"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": recs, "total": len(recs)})
	}
}

// SearchFile ranks the pages of a file against the q query parameter.
//
// @Summary Search pages of a file
// @Tags embeddings
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Param fileId path string true "File ID"
// @Param q query string true "Query text"
// @Success 200 {object} map[string][]model.SearchHit
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files/{fileId}/search [get]
func SearchFile(svc service.EmbeddingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		hits, err := svc.Search(c.UserContext(), tenantID, c.Params("fileId"), c.Query("q"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": hits})
	}
}
