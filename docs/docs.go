// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/tenants": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tenants"],
                "summary": "List tenant policies",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/model.TenantPolicy"}}}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tenants"],
                "summary": "Create tenant policy",
                "parameters": [
                    {"description": "Upload policy", "name": "policy", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PolicyInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.TenantPolicy"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/v1/tenants/{tenantId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tenants"],
                "summary": "Get tenant policy",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TenantPolicy"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tenants"],
                "summary": "Replace tenant policy",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"description": "Upload policy", "name": "policy", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PolicyInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TenantPolicy"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "tags": ["tenants"],
                "summary": "Delete tenant policy",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "TENANT_IN_USE when files remain", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/v1/tenants/{tenantId}/files": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "List files",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "string", "description": "File name contains", "name": "name", "in": "query"},
                    {"type": "string", "description": "Tag contains", "name": "tag", "in": "query"},
                    {"type": "string", "description": "Media type", "name": "media_type", "in": "query"},
                    {"type": "integer", "description": "Minimum size in bytes", "name": "min_size", "in": "query"},
                    {"type": "integer", "description": "Maximum size in bytes", "name": "max_size", "in": "query"},
                    {"type": "string", "description": "Modified on or after (YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Modified on or before (YYYY-MM-DD)", "name": "to", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.FileListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Upload file",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "file", "description": "File to upload", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Tag", "name": "tag", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.FileRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/v1/tenants/{tenantId}/files/{fileId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Get file",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "string", "description": "File ID", "name": "fileId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.FileRecord"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["files"],
                "summary": "Update file metadata",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "string", "description": "File ID", "name": "fileId", "in": "path", "required": true},
                    {"description": "Tag and metadata", "name": "update", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.FileUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.FileRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "tags": ["files"],
                "summary": "Delete file",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "string", "description": "File ID", "name": "fileId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/v1/tenants/{tenantId}/files/{fileId}/content": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["files"],
                "summary": "Download file",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "string", "description": "File ID", "name": "fileId", "in": "path", "required": true},
                    {"type": "boolean", "description": "Inline disposition", "name": "inline", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/v1/tenants/{tenantId}/files/{fileId}/embeddings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["embeddings"],
                "summary": "List page embeddings",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "string", "description": "File ID", "name": "fileId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/model.EmbeddingRecord"}}}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["embeddings"],
                "summary": "Generate page embeddings",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "string", "description": "File ID", "name": "fileId", "in": "path", "required": true},
                    {"type": "boolean", "description": "Skip pages that already have an embedding", "name": "resume", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/index.GenerateResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/v1/tenants/{tenantId}/files/{fileId}/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["embeddings"],
                "summary": "Search pages of a file",
                "parameters": [
                    {"type": "integer", "description": "Tenant ID", "name": "tenantId", "in": "path", "required": true},
                    {"type": "string", "description": "File ID", "name": "fileId", "in": "path", "required": true},
                    {"type": "string", "description": "Query text", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/model.SearchHit"}}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "index.GenerateResult": {
            "type": "object",
            "properties": {
                "embedded": {"type": "integer"},
                "last_page": {"type": "integer"},
                "skipped": {"type": "integer"}
            }
        },
        "model.EmbeddingRecord": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "file_id": {"type": "string"},
                "ocr_text": {"type": "string"},
                "page_index": {"type": "integer"},
                "updated_at": {"type": "string"},
                "vector": {"type": "array", "items": {"type": "number"}}
            }
        },
        "model.FileRecord": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "file_name": {"type": "string"},
                "id": {"type": "string"},
                "media_type": {"type": "string"},
                "metadata": {"type": "object", "additionalProperties": true},
                "modified_at": {"type": "string"},
                "size_bytes": {"type": "integer"},
                "storage_path": {"type": "string"},
                "tag": {"type": "string"},
                "tenant_id": {"type": "integer"}
            }
        },
        "model.FileUpdate": {
            "type": "object",
            "properties": {
                "metadata": {"type": "object", "additionalProperties": true},
                "tag": {"type": "string"}
            }
        },
        "model.PolicyInput": {
            "type": "object",
            "properties": {
                "allowedExtensions": {"type": "array", "items": {"type": "string"}},
                "allowedMimeTypes": {"type": "array", "items": {"type": "string"}},
                "forbiddenExtensions": {"type": "array", "items": {"type": "string"}},
                "forbiddenMimeTypes": {"type": "array", "items": {"type": "string"}},
                "maxFileSizeKBytes": {"type": "integer"}
            }
        },
        "model.SearchHit": {
            "type": "object",
            "properties": {
                "page_index": {"type": "integer"},
                "preview": {"type": "string"},
                "similarity": {"type": "number"}
            }
        },
        "model.TenantPolicy": {
            "type": "object",
            "properties": {
                "allowed_extensions": {"type": "array", "items": {"type": "string"}},
                "allowed_mime_types": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "forbidden_extensions": {"type": "array", "items": {"type": "string"}},
                "forbidden_mime_types": {"type": "array", "items": {"type": "string"}},
                "max_file_size_bytes": {"type": "integer"},
                "modified_at": {"type": "string"},
                "tenant_code": {"type": "string"},
                "tenant_id": {"type": "integer"}
            }
        },
        "service.FileListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.FileRecord"}},
                "total": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "File Repository API",
	Description:      "Tenant-scoped file storage with policy validation and page-level semantic search.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
