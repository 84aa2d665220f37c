package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"filerepo/internal/model"
	"filerepo/internal/service"
)

// UploadFile stores a file for the tenant (multipart/form-data, field names: file, tag).
// Names ending in .zip are validated member by member before the archive is stored.
//
// @Summary Upload file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Param file formData file true "File to upload"
// @Param tag formData string false "Tag"
// @Success 201 {object} model.FileRecord
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files [post]
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		rec, err := svc.Upload(c.UserContext(), service.UploadInput{
			TenantID: tenantID,
			FileName: fh.Filename,
			Tag:      c.FormValue("tag"),
			Content:  f,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// ListFiles lists and filters the tenant's files with limit & offset.
//
// @Summary List files
// @Tags files
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Param name query string false "File name contains"
// @Param tag query string false "Tag contains"
// @Param media_type query string false "Media type"
// @Param min_size query int false "Minimum size in bytes"
// @Param max_size query int false "Maximum size in bytes"
// @Param from query string false "Modified on or after (YYYY-MM-DD)"
// @Param to query string false "Modified on or before (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.FileListResult
// @Failure 400 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files [get]
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		filter := model.FileFilter{
			FileName:  c.Query("name"),
			Tag:       c.Query("tag"),
			MediaType: c.Query("media_type"),
		}
		if filter.MinSizeBytes, err = queryInt64(c, "min_size"); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid min_size")
		}
		if filter.MaxSizeBytes, err = queryInt64(c, "max_size"); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid max_size")
		}
		if filter.From, err = queryDate(c, "from", false); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "from must be YYYY-MM-DD")
		}
		if filter.To, err = queryDate(c, "to", true); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "to must be YYYY-MM-DD")
		}

		res, err := svc.List(c.UserContext(), tenantID, filter, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// GetFile returns a file record.
//
// @Summary Get file
// @Tags files
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Param fileId path string true "File ID"
// @Success 200 {object} model.FileRecord
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files/{fileId} [get]
func GetFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		rec, err := svc.Get(c.UserContext(), tenantID, c.Params("fileId"))
		if err != nil {
			return err
		}
		return c.JSON(rec)
	}
}

// UpdateFile sets the tag and replaces the metadata of a file.
//
// @Summary Update file metadata
// @Tags files
// @Accept json
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Param fileId path string true "File ID"
// @Param update body model.FileUpdate true "Tag and metadata"
// @Success 200 {object} model.FileRecord
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files/{fileId} [patch]
func UpdateFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		var upd model.FileUpdate
		if err := c.BodyParser(&upd); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		rec, err := svc.Update(c.UserContext(), tenantID, c.Params("fileId"), upd)
		if err != nil {
			return err
		}
		return c.JSON(rec)
	}
}

// DeleteFile removes the stored bytes, embeddings and record of a file.
//
// @Summary Delete file
// @Tags files
// @Param tenantId path int true "Tenant ID"
// @Param fileId path string true "File ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files/{fileId} [delete]
func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		if err := svc.Delete(c.UserContext(), tenantID, c.Params("fileId")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadFile streams the stored bytes back with their detected media type.
//
// @Summary Download file
// @Tags files
// @Produce octet-stream
// @Param tenantId path int true "Tenant ID"
// @Param fileId path string true "File ID"
// @Param inline query bool false "Inline disposition"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /v1/tenants/{tenantId}/files/{fileId}/content [get]
func DownloadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ok := tenantParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id")
		}
		content, err := svc.Open(c.UserContext(), tenantID, c.Params("fileId"))
		if err != nil {
			return err
		}

		disposition := "attachment"
		if c.QueryBool("inline") {
			disposition = "inline"
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, content.Record.FileName))
		c.Set(fiber.HeaderContentType, content.MediaType)
		return c.Send(content.Data)
	}
}
