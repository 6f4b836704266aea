package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"oneprompt/internal/ai"
	"oneprompt/internal/export"
	"oneprompt/internal/extract"
	"oneprompt/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// statusClientClosedRequest reports that the caller went away before the
	// generation finished.
	statusClientClosedRequest = 499

	// maxReplyBytes caps the bodies of the extract and export endpoints.
	maxReplyBytes = 2 << 20
)

// SiteGenerator produces extracted site code from a description.
type SiteGenerator interface {
	GenerateSite(ctx context.Context, req ai.Request) (*ai.Generation, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator SiteGenerator
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(generator SiteGenerator) *APIHandler {
	return &APIHandler{generator: generator}
}

// --- Structs for API Requests/Responses ---

type GenerateRequest struct {
	Prompt   string          `json:"prompt"`
	Messages []types.Message `json:"messages" binding:"omitempty,dive"`
}

// SiteResponse is the extraction result plus the merged document and the
// downloadable files derived from it.
type SiteResponse struct {
	ID string `json:"id,omitempty"`
	extract.ParsedResult
	Document string                `json:"document"`
	Files    []types.GeneratedFile `json:"files"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

func newSiteResponse(id string, r extract.ParsedResult) SiteResponse {
	files := export.Files(r)
	if files == nil {
		files = []types.GeneratedFile{}
	}
	return SiteResponse{
		ID:           id,
		ParsedResult: r,
		Document:     r.Document(),
		Files:        files,
	}
}

// --- API Handlers ---

// POST /site/generate
func (h *APIHandler) GenerateSite(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	gen, err := h.generator.GenerateSite(c.Request.Context(), ai.Request{Prompt: req.Prompt, Messages: req.Messages})
	switch {
	case errors.Is(err, ai.ErrEmptyPrompt):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A prompt or a user message is required"})
		return
	case errors.Is(err, ai.ErrCanceled):
		zap.S().Info("Generation request canceled by client")
		c.JSON(statusClientClosedRequest, ErrorResponse{Error: "Generation canceled"})
		return
	case err != nil:
		zap.S().Errorf("Error generating site: %v", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to generate website, please try again", Retryable: true})
		return
	}

	zap.S().Infof("Site generation successful. ID: %s, confidence: %s", gen.ID, gen.Result.Confidence)
	c.JSON(http.StatusOK, newSiteResponse(gen.ID, gen.Result))
}

// POST /site/extract
func (h *APIHandler) ExtractSite(c *gin.Context) {
	body, ok := readReply(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSiteResponse("", extract.ExtractJSON(body)))
}

// POST /site/export
func (h *APIHandler) ExportSite(c *gin.Context) {
	body, ok := readReply(c)
	if !ok {
		return
	}

	files := export.Files(extract.ExtractJSON(body))
	if len(files) == 0 {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Reply contains no code to export"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteZip(&buf, files); err != nil {
		zap.S().Errorf("Error building export archive: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build archive"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="site.zip"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// readReply reads a reply body of at most maxReplyBytes. On failure the
// error response is already written.
func readReply(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxReplyBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Reply is too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read request body"})
		return nil, false
	}
	return body, true
}
