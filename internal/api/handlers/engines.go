package handlers

import (
	"net/http"

	"energy-lsmc/internal/api/models"
	"energy-lsmc/internal/config"
	"energy-lsmc/internal/simulate"

	"github.com/gin-gonic/gin"
)

// EngineHandler describes the available valuation engines
type EngineHandler struct{}

// NewEngineHandler creates a new engine handler
func NewEngineHandler() *EngineHandler {
	return &EngineHandler{}
}

var engineParameters = []models.ParameterInfo{
	{
		Name:        "degree",
		Type:        "int",
		Description: "Polynomial degree of the continuation-value regression",
		Default:     config.DefaultDegree,
	},
	{
		Name:        "workers",
		Type:        "int",
		Description: "States decided in parallel within one time step",
		Default:     1,
	},
	{
		Name:        "seed",
		Type:        "int",
		Description: "Seed of the GBM simulator when no prices are supplied",
		Default:     simulate.DefaultSeed,
	},
}

// ListEngines handles GET /api/v1/engines
func (h *EngineHandler) ListEngines(c *gin.Context) {
	engines := []models.EngineInfo{
		{
			Kind:        "storage",
			Description: "Storage facility. Each step withdraws one DCQ (sell), holds, or injects one DCQ (buy); starts and ends at minimum inventory.",
			Parameters: append([]models.ParameterInfo{
				{Name: "max_inventory", Type: "int", Description: "Maximum inventory level"},
				{Name: "min_inventory", Type: "int", Description: "Minimum inventory level", Default: 0},
				{Name: "dcq", Type: "int", Description: "Quantity moved per injection or withdrawal"},
			}, engineParameters...),
		},
		{
			Kind:        "swing",
			Description: "Swing contract. ACQ/DCQ rights to buy DCQ at the strike, at most one per step, with an optional take-or-pay minimum.",
			Parameters: append([]models.ParameterInfo{
				{Name: "strike", Type: "float", Description: "Exercise price per unit"},
				{Name: "acq", Type: "int", Description: "Annual contract quantity"},
				{Name: "dcq", Type: "int", Description: "Quantity per exercised right"},
				{Name: "take_or_pay", Type: "int", Description: "Minimum quantity that must be taken", Default: 0},
				{Name: "enforce_take_or_pay", Type: "bool", Description: "Force exercises to meet take_or_pay", Default: false},
			}, engineParameters...),
		},
	}

	c.JSON(http.StatusOK, gin.H{"engines": engines})
}
