package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/manifest/model"
	"manifest-analyzer/internal/domains/manifest/parser"
	"manifest-analyzer/internal/domains/manifest/repository"
	"manifest-analyzer/internal/domains/manifest/service"
	"manifest-analyzer/internal/shared/response"
)

// ManifestHandler exposes manifest ingestion over HTTP
type ManifestHandler struct {
	service service.ManifestService
}

func NewManifestHandler(svc service.ManifestService) *ManifestHandler {
	return &ManifestHandler{service: svc}
}

// callerID reads the authenticated user from the context. Admins get
// uuid.Nil, which the service treats as an ownership bypass.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	if role, _ := c.Get("role"); role == "admin" {
		return uuid.Nil, true
	}

	v, ok := c.Get("userID")
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

// Upload handles POST /manifests (multipart/form-data, field "file")
func (h *ManifestHandler) Upload(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required (multipart/form-data)")
		return
	}

	result, err := h.service.Upload(c.Request.Context(), file, userID)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *ManifestHandler) writeUploadError(c *gin.Context, err error) {
	var structureErr *service.StructureError
	if errors.As(err, &structureErr) {
		response.UnprocessableEntity(c, "INVALID_FILE_STRUCTURE", structureErr.Error(), structureErr.Result)
		return
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		response.ErrorResponse(c, http.StatusBadRequest, parseErr.Code, parseErr.Message)
		return
	}

	log.Error().Err(err).Msg("manifest upload failed")
	response.InternalServerError(c, "failed to process manifest")
}

// Validate handles POST /manifests/validate: a dry run over raw content.
// Accepts either a multipart file (field "file") or a JSON body with the
// CSV text under "content". Nothing is persisted.
func (h *ManifestHandler) Validate(c *gin.Context) {
	content, ok := h.validateRequestContent(c)
	if !ok {
		return
	}

	structure, result, err := h.service.ValidateContent(c.Request.Context(), content)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			response.ErrorResponse(c, http.StatusBadRequest, parseErr.Code, parseErr.Message)
			return
		}
		log.Error().Err(err).Msg("manifest validation failed")
		response.InternalServerError(c, "failed to validate manifest")
		return
	}

	body := gin.H{"structure": structure}
	if result != nil {
		body["summary"] = result.Summary
		body["quality"] = result.Quality
	}

	response.Success(c, http.StatusOK, body)
}

func (h *ManifestHandler) validateRequestContent(c *gin.Context) (string, bool) {
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			response.BadRequest(c, "failed to open uploaded file")
			return "", false
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			response.BadRequest(c, "failed to read uploaded file")
			return "", false
		}

		content, err := service.ContentFromUpload(file.Filename, data)
		if err != nil {
			response.BadRequest(c, err.Error())
			return "", false
		}
		return content, true
	}

	var req model.ValidateManifestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "provide a multipart file or a JSON body with content")
		return "", false
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return "", false
	}
	return req.Content, true
}

// GetByID handles GET /manifests/:id
func (h *ManifestHandler) GetByID(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid manifest id")
		return
	}

	detail, err := h.service.GetManifest(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrManifestNotFound) {
			response.NotFound(c, "manifest not found")
			return
		}
		log.Error().Err(err).Str("manifest_id", id.String()).Msg("failed to load manifest")
		response.InternalServerError(c, "failed to load manifest")
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// GetQuality handles GET /manifests/:id/quality
func (h *ManifestHandler) GetQuality(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid manifest id")
		return
	}

	report, err := h.service.GetQuality(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrManifestNotFound) {
			response.NotFound(c, "manifest not found")
			return
		}
		log.Error().Err(err).Str("manifest_id", id.String()).Msg("failed to load quality report")
		response.InternalServerError(c, "failed to load quality report")
		return
	}

	response.Success(c, http.StatusOK, report)
}

// DownloadFile handles GET /manifests/:id/file, serving the archived
// original upload
func (h *ManifestHandler) DownloadFile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid manifest id")
		return
	}

	data, filename, err := h.service.DownloadFile(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrManifestNotFound) {
			response.NotFound(c, "manifest file not found")
			return
		}
		log.Error().Err(err).Str("manifest_id", id.String()).Msg("failed to download manifest file")
		response.InternalServerError(c, "failed to download manifest file")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// List handles GET /manifests
func (h *ManifestHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.ListManifestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	manifests, total, err := h.service.List(c.Request.Context(), userID, req)
	if err != nil {
		log.Error().Err(err).Msg("failed to list manifests")
		response.InternalServerError(c, "failed to list manifests")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, manifests, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// Delete handles DELETE /manifests/:id
func (h *ManifestHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid manifest id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrManifestNotFound) {
			response.NotFound(c, "manifest not found")
			return
		}
		log.Error().Err(err).Str("manifest_id", id.String()).Msg("failed to delete manifest")
		response.InternalServerError(c, "failed to delete manifest")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}
