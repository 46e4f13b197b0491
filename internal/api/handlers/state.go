package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-financing/internal/api/models"
	"property-financing/internal/config"
	"property-financing/internal/engine"
	"property-financing/internal/store"
)

// maxStateBytes bounds PUT /state bodies.
const maxStateBytes = 1 << 20

// StateHandler serves the persisted scenario state
type StateHandler struct {
	store *store.StateStore
	eval  *Evaluator
	log   *zap.Logger
	now   func() time.Time
}

// NewStateHandler creates a new state handler
func NewStateHandler(st *store.StateStore, eval *Evaluator, log *zap.Logger) *StateHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateHandler{store: st, eval: eval, log: log, now: time.Now}
}

// GetState handles GET /api/v1/state
func (h *StateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Load(c.Request.Context()))
}

// PutState handles PUT /api/v1/state. Any known schema version is accepted,
// including export documents and legacy flat maps.
func (h *StateHandler) PutState(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxStateBytes))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	st, err := store.DecodeState(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_STATE", err.Error(), nil)
		return
	}
	st = st.Complete()
	if !validateScenarios(c, st.Scenarios) {
		return
	}
	if err := h.store.Save(c.Request.Context(), st); err != nil {
		h.log.Error("save state failed", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "STATE_SAVE_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ResetState handles POST /api/v1/state/reset
func (h *StateHandler) ResetState(c *gin.Context) {
	st, err := h.store.Reset(c.Request.Context())
	if err != nil {
		h.log.Error("reset state failed", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "STATE_SAVE_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, st)
}

// CopyScenario handles POST /api/v1/state/copy
func (h *StateHandler) CopyScenario(c *gin.Context) {
	var req models.CopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	ctx := c.Request.Context()
	if _, ok := h.store.Load(ctx).Scenarios[req.From]; !ok {
		abortWithError(c, http.StatusNotFound, "SCENARIO_NOT_FOUND", fmt.Sprintf("scenario %q not found", req.From), nil)
		return
	}
	st, err := h.store.Copy(ctx, req.From, req.To)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_COPY", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ChangeEmirate handles POST /api/v1/state/scenarios/:key/emirate.
// Registration fees follow the new emirate unless they were edited by hand.
func (h *StateHandler) ChangeEmirate(c *gin.Context) {
	var req struct {
		Emirate string `json:"emirate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	key := c.Param("key")
	st := h.store.Load(ctx)
	s, ok := st.Scenarios[key]
	if !ok {
		abortWithError(c, http.StatusNotFound, "SCENARIO_NOT_FOUND", fmt.Sprintf("scenario %q not found", key), nil)
		return
	}
	st = st.Clone()
	st.Scenarios[key] = config.ChangeEmirate(s, req.Emirate)
	if err := h.store.Save(ctx, st); err != nil {
		h.log.Error("save state failed", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "STATE_SAVE_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, st.Scenarios[key])
}

// CompareState handles GET /api/v1/state/compare, evaluating the stored scenarios
func (h *StateHandler) CompareState(c *gin.Context) {
	st := h.store.Load(c.Request.Context())
	results, err := h.eval.All(c.Request.Context(), st.Scenarios)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "EVALUATION_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, buildCompareResponse(results, c.Query("include_years") == "true"))
}

// ExportState handles GET /api/v1/state/export
func (h *StateHandler) ExportState(c *gin.Context) {
	now := h.now()
	var buf bytes.Buffer
	p, err := store.Export(&buf, h.store.Load(c.Request.Context()), now)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "EXPORT_ERROR", err.Error(), nil)
		return
	}
	h.log.Info("state exported", zap.String("export_id", p.ID))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, store.ExportFilename(now)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

// Cashflows handles GET /api/v1/scenarios/:key/cashflows.csv for a stored scenario
func (h *StateHandler) Cashflows(c *gin.Context) {
	key := c.Param("key")
	s, ok := h.store.Load(c.Request.Context()).Scenarios[key]
	if !ok {
		abortWithError(c, http.StatusNotFound, "SCENARIO_NOT_FOUND", fmt.Sprintf("scenario %q not found", key), nil)
		return
	}

	var buf bytes.Buffer
	if err := engine.WriteCashflowCSV(&buf, h.eval.One("", s)); err != nil {
		abortWithError(c, http.StatusInternalServerError, "CSV_ERROR", err.Error(), nil)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="cashflows-%s.csv"`, key))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
