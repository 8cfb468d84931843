package handlers

import (
	"net/http"

	"energy-lsmc/internal/analysis"
	"energy-lsmc/internal/api/models"
	"energy-lsmc/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalysisHandler handles volatility sweeps and value decompositions
type AnalysisHandler struct {
	contracts *ContractHandler
	logger    *zap.Logger
	limits    Limits
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(contracts *ContractHandler, logger *zap.Logger, limits Limits) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.Workers < 1 {
		limits.Workers = 1
	}
	return &AnalysisHandler{contracts: contracts, logger: logger, limits: limits}
}

// Sweep handles POST /api/v1/analysis/sweep
func (h *AnalysisHandler) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sc := req.Storage
	if req.Contract != "" {
		preset, err := h.contracts.Storage(req.Contract)
		if err != nil {
			respondError(c, http.StatusNotFound, "CONTRACT_NOT_FOUND", err.Error())
			return
		}
		sc = config.MergeStorage(preset, req.Storage)
	}

	// Volatility is overridden per sweep point.
	if req.Market.Volatility == 0 {
		req.Market.Volatility = req.Volatilities[0]
	}
	mp, _, err := marketFromRequest(req.Market, req.Engine, nil, h.limits)
	if err != nil {
		respondModelError(c, err)
		return
	}

	points, err := analysis.VolatilitySweep(sc.ToModelParams(mp), req.Volatilities, engineOptions(req.Engine, h.limits, h.logger))
	if err != nil {
		respondModelError(c, err)
		return
	}

	resp := models.SweepResponse{Points: make([]models.SweepPoint, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, models.SweepPoint{
			Volatility: p.Volatility,
			Price:      p.Price,
			Foresight:  p.Foresight,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Decompose handles POST /api/v1/analysis/decompose
func (h *AnalysisHandler) Decompose(c *gin.Context) {
	var req models.DecomposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	mp, prices, err := marketFromRequest(req.Market, req.Engine, req.Prices, h.limits)
	if err != nil {
		respondModelError(c, err)
		return
	}
	opts := engineOptions(req.Engine, h.limits, h.logger)

	var dec *analysis.Decomposition
	switch req.Kind {
	case "storage":
		sc := req.Storage
		if req.Contract != "" {
			preset, err := h.contracts.Storage(req.Contract)
			if err != nil {
				respondError(c, http.StatusNotFound, "CONTRACT_NOT_FOUND", err.Error())
				return
			}
			sc = config.MergeStorage(preset, req.Storage)
		}
		dec, err = analysis.DecomposeStorage(sc.ToModelParams(mp), prices, opts)
	default:
		sc := req.Swing
		if req.Contract != "" {
			preset, err := h.contracts.Swing(req.Contract)
			if err != nil {
				respondError(c, http.StatusNotFound, "CONTRACT_NOT_FOUND", err.Error())
				return
			}
			sc = config.MergeSwing(preset, req.Swing)
		}
		dec, err = analysis.DecomposeSwing(sc.ToModelParams(mp), prices, opts)
	}
	if err != nil {
		respondModelError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DecomposeResponse{
		Kind:      req.Kind,
		Total:     dec.Total,
		Intrinsic: dec.Intrinsic,
		Extrinsic: dec.Extrinsic,
		Foresight: dec.Foresight,
	})
}
