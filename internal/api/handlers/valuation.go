package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"energy-lsmc/internal/api/models"
	"energy-lsmc/internal/backtest"
	"energy-lsmc/internal/config"
	"energy-lsmc/internal/data"
	"energy-lsmc/internal/lsmc"
	"energy-lsmc/internal/metrics"
	"energy-lsmc/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Limits bound the work a single request may ask for.
type Limits struct {
	Workers      int
	MaxScenarios int
}

// ValuationHandler handles valuation requests
type ValuationHandler struct {
	store     *data.ResultStore
	contracts *ContractHandler
	metrics   *metrics.Metrics
	logger    *zap.Logger
	limits    Limits
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(store *data.ResultStore, contracts *ContractHandler, m *metrics.Metrics, logger *zap.Logger, limits Limits) *ValuationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.Workers < 1 {
		limits.Workers = 1
	}
	return &ValuationHandler{
		store:     store,
		contracts: contracts,
		metrics:   m,
		logger:    logger,
		limits:    limits,
	}
}

// ValueStorage handles POST /api/v1/valuations/storage
func (h *ValuationHandler) ValueStorage(c *gin.Context) {
	var req models.StorageValuationRequest
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

	mp, prices, err := h.market(req.ValuationRequest)
	if err != nil {
		respondModelError(c, err)
		return
	}
	params := sc.ToModelParams(mp)

	start := time.Now()
	eng, err := lsmc.NewStorageEngine(params, prices, h.options(req.Engine))
	if err != nil {
		respondModelError(c, err)
		return
	}
	res, err := eng.Value()
	elapsed := time.Since(start)
	if err != nil {
		h.observe(model.KindStorage, elapsed, 0, err)
		respondModelError(c, err)
		return
	}
	h.observe(model.KindStorage, elapsed, res.Regressions, nil)

	v := &data.Valuation{Kind: model.KindStorage, Storage: res}
	h.store.Put(v)

	summary := summarize(res.Price, res.Values, params.Discount(), res.Policy, res.Regressions, elapsed)
	if req.Options.IncludeWindows {
		summary.Windows = res.Windows
	}
	h.respondValuation(c, v, summary, req.Options.Scenario)
}

// ValueSwing handles POST /api/v1/valuations/swing
func (h *ValuationHandler) ValueSwing(c *gin.Context) {
	var req models.SwingValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sc := req.Swing
	if req.Contract != "" {
		preset, err := h.contracts.Swing(req.Contract)
		if err != nil {
			respondError(c, http.StatusNotFound, "CONTRACT_NOT_FOUND", err.Error())
			return
		}
		sc = config.MergeSwing(preset, req.Swing)
	}

	mp, prices, err := h.market(req.ValuationRequest)
	if err != nil {
		respondModelError(c, err)
		return
	}
	params := sc.ToModelParams(mp)

	start := time.Now()
	eng, err := lsmc.NewSwingEngine(params, prices, h.options(req.Engine))
	if err != nil {
		respondModelError(c, err)
		return
	}
	res, err := eng.Value()
	elapsed := time.Since(start)
	if err != nil {
		h.observe(model.KindSwing, elapsed, 0, err)
		respondModelError(c, err)
		return
	}
	h.observe(model.KindSwing, elapsed, res.Regressions, nil)

	v := &data.Valuation{Kind: model.KindSwing, Swing: res}
	h.store.Put(v)

	summary := summarize(res.Price, res.Values, params.Discount(), res.Policy, res.Regressions, elapsed)
	h.respondValuation(c, v, summary, req.Options.Scenario)
}

// GetValuation handles GET /api/v1/valuations/:id
func (h *ValuationHandler) GetValuation(c *gin.Context) {
	v, ok := h.store.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "valuation not found or expired")
		return
	}

	var summary models.ValuationSummary
	switch {
	case v.Storage != nil:
		r := v.Storage
		summary = summarize(r.Price, r.Values, r.Params.Discount(), r.Policy, r.Regressions, 0)
		summary.Windows = r.Windows
	case v.Swing != nil:
		r := v.Swing
		summary = summarize(r.Price, r.Values, r.Params.Discount(), r.Policy, r.Regressions, 0)
	}
	c.JSON(http.StatusOK, models.ValuationResponse{
		ID:        v.ID,
		Kind:      string(v.Kind),
		Status:    "completed",
		CreatedAt: v.CreatedAt,
		Summary:   summary,
	})
}

// GetPath handles GET /api/v1/valuations/:id/path?scenario=N[&format=csv]
func (h *ValuationHandler) GetPath(c *gin.Context) {
	v, ok := h.store.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "valuation not found or expired")
		return
	}
	scenario, err := strconv.Atoi(c.DefaultQuery("scenario", "0"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("scenario must be an integer: %v", err))
		return
	}

	replay, err := h.replay(v, scenario)
	if err != nil {
		respondModelError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%d.csv", v.ID, scenario))
		c.Status(http.StatusOK)
		if err := backtest.WriteLedger(c.Writer, replay.Ledger); err != nil {
			h.logger.Error("write ledger csv", zap.String("id", v.ID), zap.Error(err))
		}
		return
	}
	c.JSON(http.StatusOK, pathResponse(replay))
}

func (h *ValuationHandler) respondValuation(c *gin.Context, v *data.Valuation, summary models.ValuationSummary, scenario *int) {
	resp := models.ValuationResponse{
		ID:        v.ID,
		Kind:      string(v.Kind),
		Status:    "completed",
		CreatedAt: v.CreatedAt,
		Summary:   summary,
	}
	if scenario != nil {
		replay, err := h.replay(v, *scenario)
		if err != nil {
			respondModelError(c, err)
			return
		}
		resp.Path = pathResponse(replay)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ValuationHandler) replay(v *data.Valuation, scenario int) (*backtest.Result, error) {
	path, err := v.Path(scenario)
	if err != nil {
		return nil, err
	}
	return backtest.New().Run(path)
}

// market builds market parameters from a request. Supplied prices fill in
// any zero steps, scenarios and initial price.
func (h *ValuationHandler) market(req models.ValuationRequest) (model.MarketParams, *model.PriceMatrix, error) {
	return marketFromRequest(req.Market, req.Engine, req.Prices, h.limits)
}

func marketFromRequest(mc config.MarketConfig, eo models.EngineOptions, rows [][]float64, limits Limits) (model.MarketParams, *model.PriceMatrix, error) {
	degree := eo.Degree
	if degree == 0 {
		degree = config.DefaultDegree
	}
	var prices *model.PriceMatrix
	if len(rows) > 0 {
		m, err := model.NewPriceMatrix(rows)
		if err != nil {
			return model.MarketParams{}, nil, err
		}
		if mc.Steps == 0 {
			mc.Steps = m.Steps()
		}
		if mc.Scenarios == 0 {
			mc.Scenarios = m.Scenarios()
		}
		if mc.InitialPrice == 0 {
			mc.InitialPrice = m.At(0, 0)
		}
		prices = m
	}
	if limits.MaxScenarios > 0 && mc.Scenarios > limits.MaxScenarios {
		return model.MarketParams{}, nil, fmt.Errorf("%w: %d scenarios exceeds the limit of %d",
			model.ErrConfiguration, mc.Scenarios, limits.MaxScenarios)
	}
	return mc.ToModelParams(degree), prices, nil
}

func (h *ValuationHandler) options(eo models.EngineOptions) lsmc.Options {
	return engineOptions(eo, h.limits, h.logger)
}

func engineOptions(eo models.EngineOptions, limits Limits, logger *zap.Logger) lsmc.Options {
	workers := eo.Workers
	if workers == 0 || workers > limits.Workers {
		workers = limits.Workers
	}
	return lsmc.Options{Workers: workers, Seed: eo.Seed, Logger: logger}
}

func (h *ValuationHandler) observe(kind model.ContractKind, elapsed time.Duration, regressions int, err error) {
	if h.metrics != nil {
		h.metrics.ObserveValuation(string(kind), elapsed, regressions, err)
	}
}

// summarize reports the price with the Monte Carlo standard error of the
// discounted scenario values.
func summarize(price float64, values []float64, discount float64, policy *lsmc.PolicyTensor, regressions int, elapsed time.Duration) models.ValuationSummary {
	steps, states, scenarios := policy.Dims()
	var stdErr float64
	if len(values) > 1 {
		stdErr = discount * stat.StdDev(values, nil) / math.Sqrt(float64(len(values)))
	}
	return models.ValuationSummary{
		Price:       price,
		StdError:    stdErr,
		Steps:       steps,
		Scenarios:   scenarios,
		States:      states,
		Regressions: regressions,
		ElapsedMS:   elapsed.Milliseconds(),
	}
}

func pathResponse(r *backtest.Result) *models.PathResponse {
	rows := make([]models.LedgerRow, 0, len(r.Ledger))
	for _, row := range r.Ledger {
		rows = append(rows, models.LedgerRow{
			Step:        row.Step,
			Price:       row.Price,
			Action:      row.Label,
			StateStart:  row.StateStart,
			StateEnd:    row.StateEnd,
			LevelStart:  row.LevelStart,
			LevelEnd:    row.LevelEnd,
			CashFlow:    row.CashFlow,
			CumCashFlow: row.CumCashFlow,
		})
	}
	return &models.PathResponse{
		Scenario:     r.Scenario,
		Total:        r.Total,
		PresentValue: r.PresentValue,
		FinalLevel:   r.FinalLevel,
		Ledger:       rows,
	}
}
