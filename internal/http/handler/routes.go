package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"filerepo/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Tenants    service.TenantService
	Files      service.FileService
	Embeddings service.EmbeddingService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay free of business logic; errors they return are rendered by ErrorHandler.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services) {
	app.Get("/health", HealthCheck(db))
	// Backward-compatible simple liveness probe
	app.Get("/healthz", LivenessProbe())

	v1 := app.Group("/v1")

	v1.Post("/tenants", CreateTenant(svcs.Tenants))
	v1.Get("/tenants", ListTenants(svcs.Tenants))
	v1.Get("/tenants/:tenantId", GetTenant(svcs.Tenants))
	v1.Put("/tenants/:tenantId", UpdateTenant(svcs.Tenants))
	v1.Delete("/tenants/:tenantId", DeleteTenant(svcs.Tenants))

	files := v1.Group("/tenants/:tenantId/files")
	files.Post("/", UploadFile(svcs.Files))
	files.Get("/", ListFiles(svcs.Files))
	files.Get("/:fileId", GetFile(svcs.Files))
	files.Patch("/:fileId", UpdateFile(svcs.Files))
	files.Delete("/:fileId", DeleteFile(svcs.Files))
	files.Get("/:fileId/content", DownloadFile(svcs.Files))

	files.Post("/:fileId/embeddings", GenerateEmbeddings(svcs.Embeddings))
	files.Get("/:fileId/embeddings", ListEmbeddings(svcs.Embeddings))
	files.Get("/:fileId/search", SearchFile(svcs.Embeddings))
}
