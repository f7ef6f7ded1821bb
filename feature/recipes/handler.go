package recipes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"recipe-pipeline/core/csvimport"
	"recipe-pipeline/core/logger"
	"recipe-pipeline/core/utils"
	"recipe-pipeline/feature/recipes/bulk"
	"recipe-pipeline/feature/recipes/generate"
	"recipe-pipeline/feature/recipes/normalize"
	"recipe-pipeline/feature/recipes/store"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	defaultSimilarLimit = 5
	maxSimilarLimit     = 50
)

// BulkGenerateRequest is the JSON body of POST /recipes/bulk-generate.
// Names is a comma separated string or an array of names.
type BulkGenerateRequest struct {
	Names json.RawMessage `json:"names" swaggertype:"string"`
}

// Handler handles HTTP requests for recipes.
type Handler struct {
	service       *Service
	streamTimeout time.Duration
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, streamTimeout time.Duration) *Handler {
	return &Handler{service: service, streamTimeout: streamTimeout}
}

// RegisterRoutes registers the recipe routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/recipes")
	group.Post("/bulk-update", h.HandleBulkUpdate)
	group.Post("/bulk-update/csv", h.HandleBulkUpdateCSV)
	group.Get("/bulk-update/reports", h.HandleListReports)
	group.Get("/bulk-update/reports/:batchId", h.HandleGetReport)
	group.Post("/bulk-generate", h.HandleBulkGenerate)
	group.Get("/similar", h.HandleFindSimilar)
	group.Get("/:id", h.HandleGetRecipe)
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// HandleBulkUpdate applies a JSON batch of field corrections.
// @Summary Bulk Update Recipes
// @Description Applies allow-listed field overrides to recipes identified by uuid or _id. The body may also be a bare array of records.
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body bulk.Request true "Records to apply"
// @Success 200 {object} bulk.Report "Bulk Report"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Router /recipes/bulk-update [post]
func (h *Handler) HandleBulkUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	req, err := bulk.DecodeRequest(c.Body())
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.service.BulkUpdate(c.Context(), req.Records, bulk.Options{
		Reason: req.Reason,
		DryRun: req.DryRun,
		Source: normalize.SourceJSON,
	})
	if err != nil {
		return h.bulkError(c, l, err)
	}
	return c.JSON(report)
}

// HandleBulkUpdateCSV applies a CSV file of field corrections.
// @Summary Bulk Update Recipes From CSV
// @Description The header must contain a uuid or _id column. Quoted fields may contain commas and doubled quotes.
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param reason formData string false "Reason recorded on every update"
// @Param dryRun formData bool false "Compute the outcome without writing"
// @Success 200 {object} bulk.Report "Bulk Report"
// @Failure 400 {object} map[string]string "Invalid File"
// @Router /recipes/bulk-update/csv [post]
func (h *Handler) HandleBulkUpdateCSV(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	fh, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "missing CSV file in form field 'file'")
	}
	f, err := fh.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "unreadable CSV file")
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "unreadable CSV file")
	}

	dryRun, _ := utils.ParseBool(c.FormValue("dryRun"))
	report, err := h.service.BulkUpdateCSV(c.Context(), fh.Filename, data, bulk.Options{
		Reason: c.FormValue("reason"),
		DryRun: dryRun,
	})
	if err != nil {
		return h.bulkError(c, l, err)
	}
	return c.JSON(report)
}

func (h *Handler) bulkError(c *fiber.Ctx, l *zap.Logger, err error) error {
	var parseErr *csv.ParseError
	switch {
	case errors.Is(err, bulk.ErrEmptyBatch),
		errors.Is(err, bulk.ErrBatchTooLarge),
		errors.Is(err, csvimport.ErrMissingHeader),
		errors.Is(err, csvimport.ErrMissingIdentifier),
		errors.As(err, &parseErr):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	default:
		l.Error("Bulk update failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
}

// HandleListReports lists archived bulk update reports.
// @Summary List Bulk Reports
// @Tags recipes
// @Produce json
// @Success 200 {object} map[string][]string "Report ids"
// @Failure 503 {object} map[string]string "Archive Disabled"
// @Router /recipes/bulk-update/reports [get]
func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	ids, err := h.service.ListReports(c.Context())
	if err != nil {
		return h.archiveError(c, err)
	}
	return c.JSON(fiber.Map{"reports": ids})
}

// HandleGetReport returns one archived bulk update report.
// @Summary Get Bulk Report
// @Tags recipes
// @Produce json
// @Param batchId path string true "Batch id"
// @Success 200 {object} bulk.Report "Bulk Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /recipes/bulk-update/reports/{batchId} [get]
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.Context(), c.Params("batchId"))
	if err != nil {
		return h.archiveError(c, err)
	}
	return c.JSON(report)
}

func (h *Handler) archiveError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrArchiveDisabled):
		return errorJSON(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrNotArchived):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	default:
		logger.WithRayID(h.service.logger, c).Error("Archive read failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
}

// HandleBulkGenerate generates recipes for a list of names and streams progress.
// @Summary Bulk Generate Recipes
// @Description Streams text/event-stream events: init, recipe (one per name), done, or error.
// @Tags recipes
// @Accept json
// @Produce text/event-stream
// @Param request body BulkGenerateRequest true "Names"
// @Success 200 {string} string "Event stream"
// @Failure 400 {object} map[string]string "Invalid Names"
// @Failure 503 {object} map[string]string "Generation Disabled"
// @Router /recipes/bulk-generate [post]
func (h *Handler) HandleBulkGenerate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req BulkGenerateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	names, err := namesFromJSON(req.Names)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	// The stream outlives the handler; its lifetime is the stream timeout.
	ctx, cancel := context.WithTimeout(context.Background(), h.streamTimeout)
	events, err := h.service.StartGeneration(ctx, names)
	if err != nil {
		cancel()
		switch {
		case errors.Is(err, generate.ErrNoNames), errors.Is(err, generate.ErrTooManyNames):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrGenerationDisabled):
			return errorJSON(c, fiber.StatusServiceUnavailable, err.Error())
		default:
			l.Error("Bulk generation failed to start", zap.Error(err))
			return errorJSON(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if err := pump(w, events, cancel); err != nil {
			l.Warn("Event stream closed by client", zap.Error(err))
		}
	}))
	return nil
}

func namesFromJSON(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", generate.ErrNoNames
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", errors.New("names must be a string or an array of strings")
	}
	return strings.Join(list, ","), nil
}

// HandleFindSimilar lists stored recipes with a similar name.
// @Summary Find Similar Recipes
// @Tags recipes
// @Produce json
// @Param name query string true "Dish name"
// @Param limit query int false "Maximum results (default 5, max 50)"
// @Success 200 {array} models.Recipe "Similar Recipes"
// @Failure 400 {object} map[string]string "Missing Name"
// @Router /recipes/similar [get]
func (h *Handler) HandleFindSimilar(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return errorJSON(c, fiber.StatusBadRequest, "query parameter 'name' is required")
	}
	limit := c.QueryInt("limit", defaultSimilarLimit)
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	limit = min(limit, maxSimilarLimit)

	found, err := h.service.FindSimilar(c.Context(), name, limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Similarity search failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(found)
}

// HandleGetRecipe returns one recipe by database id.
// @Summary Get Recipe
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe _id"
// @Success 200 {object} models.Recipe "Recipe"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /recipes/{id} [get]
func (h *Handler) HandleGetRecipe(c *fiber.Ctx) error {
	data, err := h.service.GetRecipe(c.Context(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Recipe lookup failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}
