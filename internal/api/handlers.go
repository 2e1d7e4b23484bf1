package api

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/config"
	apperrors "github.com/ZanzyTHEbar/edubloom-ai/internal/errors"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/monitoring"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/retrain"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/risk"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/types"
)

const uploadField = "file"

// Handler serves the HTTP endpoints. It holds no per-request state.
type Handler struct {
	cfg     *config.Config
	scorer  *risk.Scorer
	retrain *retrain.Service
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
}

func NewHandler(cfg *config.Config, scorer *risk.Scorer, svc *retrain.Service, metrics *monitoring.Metrics, logger *monitoring.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		scorer:  scorer,
		retrain: svc,
		metrics: metrics,
		logger:  logger,
	}
}

// Root godoc
// @Summary  Service metadata
// @Tags     meta
// @Produce  json
// @Success  200 {object} types.ServiceInfo
// @Router   / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, types.ServiceInfo{
		Title:       h.cfg.Service.Name,
		Version:     h.cfg.Service.Version,
		Description: h.cfg.Service.Description,
	})
}

// Health godoc
// @Summary  Liveness and in-process counters
// @Tags     meta
// @Produce  json
// @Success  200 {object} types.HealthResponse
// @Router   /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.cfg.Service.Version,
		Metrics:   h.metrics.GetStats(),
	})
}

// Predict godoc
// @Summary  Score a student's disengagement risk
// @Tags     risk
// @Accept   json
// @Produce  json
// @Param    features body     types.StudentFeatures true "Student features"
// @Success  200      {object} risk.RiskResult
// @Failure  413      {object} apperrors.Body
// @Failure  422      {object} apperrors.Body
// @Router   /predict [post]
func (h *Handler) Predict(c *gin.Context) {
	start := time.Now()

	vec, err := bindFeatures(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}

	res := h.scorer.Score(vec)
	h.metrics.RecordScore(c.Request.Context(), "predict", res.RiskScore)
	h.logger.ScoreLogger("predict", res.RiskScore, time.Since(start))

	c.JSON(http.StatusOK, res)
}

// Explain godoc
// @Summary  Score and report per-feature contributions
// @Tags     risk
// @Accept   json
// @Produce  json
// @Param    features body     types.StudentFeatures true "Student features"
// @Success  200      {object} risk.ExplainResult
// @Failure  413      {object} apperrors.Body
// @Failure  422      {object} apperrors.Body
// @Router   /explain [post]
func (h *Handler) Explain(c *gin.Context) {
	start := time.Now()

	vec, err := bindFeatures(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}

	res := h.scorer.Explain(vec)
	h.metrics.RecordScore(c.Request.Context(), "explain", res.RiskScore)
	h.logger.ScoreLogger("explain", res.RiskScore, time.Since(start))

	c.JSON(http.StatusOK, res)
}

// Retrain godoc
// @Summary  Acknowledge a CSV upload for retraining
// @Tags     retrain
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "CSV file with a header row"
// @Success  202  {object} retrain.Result
// @Failure  400  {object} apperrors.Body
// @Failure  413  {object} apperrors.Body
// @Failure  422  {object} apperrors.Body
// @Router   /retrain [post]
func (h *Handler) Retrain(c *gin.Context) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		apperrors.Respond(c, uploadError(err))
		return
	}

	// reject by name before reading any content
	filename := uploadedFilename(header)
	if err := retrain.ValidateFilename(filename); err != nil {
		apperrors.Respond(c, apperrors.NewUnsupportedFileTypeError(filename, retrain.UnsupportedFileTypeMessage))
		return
	}

	file, err := header.Open()
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("open uploaded file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("read uploaded file", err))
		return
	}

	res, err := h.retrain.Retrain(c.Request.Context(), data, filename)
	if err != nil {
		if errors.Is(err, retrain.ErrUnsupportedFileType) {
			apperrors.Respond(c, apperrors.NewUnsupportedFileTypeError(filename, retrain.UnsupportedFileTypeMessage))
			return
		}
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}

	h.metrics.RecordRetrain(c.Request.Context(), res.SamplesIngested)
	c.JSON(http.StatusAccepted, res)
}

// uploadedFilename returns the filename exactly as the client sent it.
// FileHeader.Filename has already been reduced to its last path element, so
// a name like "x.csv/" would otherwise be checked as "x.csv".
func uploadedFilename(fh *multipart.FileHeader) string {
	if _, params, err := mime.ParseMediaType(fh.Header.Get("Content-Disposition")); err == nil {
		if name, ok := params["filename"]; ok {
			return name
		}
	}
	return fh.Filename
}

// uploadError maps multipart parsing failures. Oversized bodies keep their
// 413; anything else means the file part is absent or unreadable.
func uploadError(err error) *apperrors.AppError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apperrors.NewPayloadTooLargeError(maxBytesErr.Limit)
	}

	violation := apperrors.FieldViolation{
		Loc:  []string{"body", uploadField},
		Msg:  msgMissing,
		Type: violationMissing,
	}
	if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		violation.Msg = "There was an error parsing the body"
		violation.Type = "multipart_invalid"
		violation.Ctx = map[string]any{"error": err.Error()}
	}
	return apperrors.NewRequestValidationError([]apperrors.FieldViolation{violation})
}
