package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "trialpulse/internal/errors"
	"trialpulse/internal/exporter"
	"trialpulse/internal/files"
	"trialpulse/internal/infrastructure"
	"trialpulse/internal/services"
	"trialpulse/pkg/contracts/domain"
)

// DashboardHandler handles the dashboard API: uploads, generation, snapshot
// reads, and CSV export.
type DashboardHandler struct {
	service      *services.DashboardService
	writer       *exporter.CSVWriter
	metrics      *infrastructure.DashboardMetrics
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxUpload    int64
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service *services.DashboardService, writer *exporter.CSVWriter, metrics *infrastructure.DashboardMetrics, maxUpload int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		writer:       writer,
		metrics:      metrics,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		maxUpload:    maxUpload,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(SessionCtx)

	r.Post("/inputs/{slot}", h.StageInput)
	r.Get("/inputs", h.ListInputs)
	r.Delete("/inputs", h.ClearInputs)

	r.Post("/generate", h.Generate)
	r.Get("/snapshot", h.GetSnapshot)
	r.Get("/tables/{name}", h.GetTable)
	r.Get("/export/{name}", h.ExportTable)

	return r
}

// StageInput accepts one multipart upload for an input slot.
func (h *DashboardHandler) StageInput(w http.ResponseWriter, r *http.Request) {
	slot, err := files.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("slot", err.Error()))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A multipart file field named \"file\" is required"))
		return
	}
	defer file.Close()

	if err := h.service.StageInput(r.Context(), SessionID(r), slot, header.Filename, file); err != nil {
		h.errorHandler.HandleError(w, r, h.mapUploadError(slot, err))
		return
	}

	if h.metrics != nil {
		h.metrics.UploadsTotal.Add(r.Context(), 1)
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"success":  true,
		"slot":     slot,
		"filename": header.Filename,
	})
}

// ListInputs reports which slots have a staged upload.
func (h *DashboardHandler) ListInputs(w http.ResponseWriter, r *http.Request) {
	staged := h.service.StagedInputs(SessionID(r))
	status := make(map[string]bool, len(files.AllSlots))
	for _, slot := range files.AllSlots {
		_, ok := staged[slot]
		status[string(slot)] = ok
	}
	render.JSON(w, r, map[string]any{"success": true, "inputs": status})
}

// ClearInputs removes every staged upload for the session.
func (h *DashboardHandler) ClearInputs(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearInputs(SessionID(r)); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.FileSystemError("clearing inputs", err))
		return
	}
	render.JSON(w, r, map[string]any{"success": true})
}

// GenerateRequest is the JSON body of a generation request. The projection
// end accepts a plain date.
type GenerateRequest struct {
	MonthlyTarget int     `json:"monthly_target"`
	ProjectionEnd string  `json:"projection_end"`
	RateOverride  float64 `json:"rate_override"`
}

// Bind implements render.Binder.
func (req *GenerateRequest) Bind(_ *http.Request) error {
	if req.ProjectionEnd == "" {
		return fmt.Errorf("projection_end is required")
	}
	return nil
}

func (req *GenerateRequest) toParams() (domain.GenerateParams, error) {
	end, err := time.Parse("2006-01-02", req.ProjectionEnd)
	if err != nil {
		return domain.GenerateParams{}, fmt.Errorf("projection_end must be a YYYY-MM-DD date: %w", err)
	}
	return domain.GenerateParams{
		MonthlyTarget: req.MonthlyTarget,
		ProjectionEnd: end,
		RateOverride:  req.RateOverride,
	}, nil
}

// Generate runs a dashboard generation over the staged inputs.
func (h *DashboardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req := &GenerateRequest{}
	if err := render.Bind(r, req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	params, err := req.toParams()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("projection_end", err.Error()))
		return
	}
	if err := h.validate.Struct(params); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	snapshot, err := h.service.Generate(r.Context(), SessionID(r), params)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapGenerateError(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, snapshotSummary(snapshot))
}

// GetSnapshot returns the published snapshot summary with section
// availability.
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(SessionID(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapGenerateError(err))
		return
	}
	render.JSON(w, r, snapshotSummary(snapshot))
}

// GetTable returns one derived table as JSON.
func (h *DashboardHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	name := domain.TableName(chi.URLParam(r, "name"))
	snapshot, err := h.service.Table(SessionID(r), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapGenerateError(err))
		return
	}

	render.JSON(w, r, map[string]any{
		"success": true,
		"table":   name,
		"section": snapshot.Section(name),
		"rows":    tableRows(snapshot, name),
	})
}

// ExportTable streams one derived table as a CSV download.
func (h *DashboardHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	name := domain.TableName(chi.URLParam(r, "name"))
	snapshot, err := h.service.Table(SessionID(r), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapGenerateError(err))
		return
	}

	headers, records, err := exporter.RenderTable(snapshot, name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrTableNotFound)
		return
	}

	if h.metrics != nil {
		h.metrics.ExportsTotal.Add(r.Context(), 1)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(name)+".csv"))
	if err := h.writer.Write(w, exporter.WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	}); err != nil {
		h.logger.Error("failed to stream CSV export",
			slog.String("table", string(name)),
			slog.String("error", err.Error()))
	}
}

// mapUploadError translates staging errors to API errors.
func (h *DashboardHandler) mapUploadError(slot files.Slot, err error) error {
	switch {
	case errors.Is(err, files.ErrUploadTooLarge):
		return apierrors.ErrUploadTooLarge
	case errors.Is(err, files.ErrUnsupportedType):
		return apierrors.ErrValidation("file", "Only .csv, .xlsx and .xls files are accepted")
	default:
		return apierrors.FileSystemError(fmt.Sprintf("staging %s input", slot), err)
	}
}

// mapGenerateError translates service errors to API errors.
func (h *DashboardHandler) mapGenerateError(err error) error {
	switch {
	case errors.Is(err, services.ErrInputNotStaged):
		return apierrors.NewWithDetails(http.StatusConflict, "INPUT_NOT_STAGED",
			"A required input file has not been uploaded", err.Error())
	case errors.Is(err, services.ErrSnapshotNotFound):
		return apierrors.ErrSnapshotNotFound
	case errors.Is(err, services.ErrTableNotFound):
		return apierrors.ErrTableNotFound
	case errors.Is(err, services.ErrInputNotTabular):
		return apierrors.NewWithDetails(http.StatusUnprocessableEntity, "INPUT_NOT_TABULAR",
			"An input file could not be parsed as a table", err.Error())
	default:
		return apierrors.ErrGeneration(err)
	}
}

// snapshotSummary is the JSON shape of the snapshot endpoints: headline
// figures plus section availability, without the bulky row data.
func snapshotSummary(s *domain.Snapshot) map[string]any {
	return map[string]any{
		"success":             true,
		"id":                  s.ID,
		"generated_at":        s.GeneratedAt,
		"params":              s.Params,
		"screen_failure_rate": s.ScreenFailureRate,
		"screenings_needed":   s.ScreeningsNeeded,
		"total_screened":      s.TotalScreened,
		"total_randomized":    s.TotalRandomized,
		"site_metrics":        s.SiteMetrics,
		"sections":            s.Sections,
	}
}

// tableRows picks the typed row slice for a table name.
func tableRows(s *domain.Snapshot, name domain.TableName) any {
	switch name {
	case domain.TableProjections:
		return s.Projections
	case domain.TableMonthlyActual:
		return s.MonthlyEnrollment
	case domain.TableMonthlyScreening:
		return s.MonthlyScreening
	case domain.TableActivation:
		return s.Timeline
	case domain.TableCOSLMetrics:
		return s.COSLMetrics
	case domain.TableCountryScreenFail:
		return s.CountryScreenFail
	case domain.TableSiteScreenFail:
		return s.SiteScreenFail
	default:
		return nil
	}
}
