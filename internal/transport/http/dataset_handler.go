package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"stockpulse/internal/dashboard"
	apierrors "stockpulse/internal/errors"
	"stockpulse/internal/infrastructure"
	"stockpulse/internal/middleware"
	"stockpulse/internal/services"
	"stockpulse/pkg/contracts/domain"
)

// DatasetHandler handles dataset upload and dashboard rendering requests.
type DatasetHandler struct {
	service       DatasetServiceInterface
	logger        *slog.Logger
	errorHandler  *apierrors.ErrorHandler
	validator     *validator.Validate
	metrics       *infrastructure.Metrics
	maxUploadSize int64
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, metrics *infrastructure.Metrics, maxUploadSize int64) *DatasetHandler {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &DatasetHandler{
		service:       service,
		logger:        logger.With(slog.String("component", "dataset_handler")),
		errorHandler:  errorHandler,
		validator:     v,
		metrics:       metrics,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.UploadDataset)

	r.Route("/{datasetID}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Get("/", h.GetDataset)
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}

// DatasetCtx middleware validates the dataset ID parameter
func (h *DatasetHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "datasetID")
		if id == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dataset_id", "Dataset ID is required"))
			return
		}
		if len(id) != 32 || !isHex(id) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dataset_id", "Invalid dataset ID format"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}

// UploadDataset handles POST /api/datasets. It accepts a multipart form with
// a single "file" field holding a CSV or XLSX price history.
func (h *DatasetHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.observeLoad("failed")
		if strings.Contains(err.Error(), "request body too large") {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Request must be multipart/form-data with a file field"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.observeLoad("failed")
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A price file upload is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.observeLoad("failed")
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset upload received",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int("size", len(content)),
	)

	ds, err := h.service.Load(r.Context(), header.Filename, content)
	if err != nil {
		h.observeLoad("failed")
		h.errorHandler.HandleError(w, r, h.mapLoadError(err))
		return
	}

	h.observeLoad("loaded")
	if h.metrics != nil {
		h.metrics.DatasetsInMemory.Set(float64(h.service.Count()))
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   datasetSummary(ds),
	})
}

// datasetSummary builds the dataset metadata payload shared by the upload
// and lookup responses. Records are sorted by date, so the first and last
// rows bound the covered range.
func datasetSummary(ds *services.Dataset) map[string]interface{} {
	records := ds.Table.Records
	return map[string]interface{}{
		"dataset_id":  ds.ID,
		"filename":    ds.Filename,
		"uploaded_at": ds.UploadedAt,
		"rows":        ds.Table.Len(),
		"columns":     len(domain.AllColumns()),
		"first_date":  records[0].Date.Format("2006-01-02"),
		"last_date":   records[len(records)-1].Date.Format("2006-01-02"),
	}
}

// GetDataset handles GET /api/datasets/{datasetID}
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	ds, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapLoadError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   datasetSummary(ds),
	})
}

// dashboardQuery holds the section toggles for a dashboard render.
// Absent parameters default to true so an untoggled page shows everything.
type dashboardQuery struct {
	EDA     string `json:"eda" validate:"omitempty,oneof=true false"`
	Visuals string `json:"visuals" validate:"omitempty,oneof=true false"`
	Metrics string `json:"metrics" validate:"omitempty,oneof=true false"`
}

func (q dashboardQuery) flags() dashboard.Flags {
	f := dashboard.DefaultFlags()
	if q.EDA == "false" {
		f.EDA = false
	}
	if q.Visuals == "false" {
		f.Visuals = false
	}
	if q.Metrics == "false" {
		f.Metrics = false
	}
	return f
}

// GetDashboard handles GET /api/datasets/{datasetID}/dashboard. The eda,
// visuals and metrics query parameters gate which sections are rendered.
func (h *DatasetHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	id := chi.URLParam(r, "datasetID")

	query := dashboardQuery{
		EDA:     r.URL.Query().Get("eda"),
		Visuals: r.URL.Query().Get("visuals"),
		Metrics: r.URL.Query().Get("metrics"),
	}
	if err := h.validator.Struct(query); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(verrs[0].Field(), "must be true or false"))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidationFailed)
		return
	}

	flags := query.flags()

	h.logger.InfoContext(r.Context(), "rendering dashboard",
		slog.String("request_id", reqID),
		slog.String("dataset_id", id),
		slog.Bool("eda", flags.EDA),
		slog.Bool("visuals", flags.Visuals),
		slog.Bool("metrics", flags.Metrics),
	)

	dash, err := h.service.RenderDashboard(r.Context(), id, flags)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapLoadError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   dash,
	})
}

// mapLoadError converts service errors to API errors.
func (h *DatasetHandler) mapLoadError(err error) error {
	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		return apierrors.ErrDatasetNotFound
	case errors.Is(err, services.ErrEmptyUpload):
		return apierrors.ErrValidation("file", "Uploaded file is empty")
	case errors.Is(err, services.ErrLoadFailed):
		return apierrors.LoadError(err)
	default:
		return err
	}
}

func (h *DatasetHandler) observeLoad(outcome string) {
	if h.metrics != nil {
		h.metrics.DatasetLoads.WithLabelValues(outcome).Inc()
	}
}
