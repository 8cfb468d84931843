package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MarketParams are the simulation and regression settings shared by every
// contract.
// Units:
// - Maturity: year fractions
// - Rate, Dividend, Volatility: annualized, continuously compounded
type MarketParams struct {
	InitialPrice float64 `validate:"gt=0"`
	Maturity     float64 `validate:"gt=0"`
	Steps        int     `validate:"gt=0"`
	Rate         float64 `validate:"gte=0"`
	Dividend     float64 `validate:"gte=0"`
	Volatility   float64 `validate:"gt=0"`
	Scenarios    int     `validate:"gt=0"`
	Degree       int     `validate:"gt=0"`
}

// TimeUnit is the length of one decision step in years.
func (p MarketParams) TimeUnit() float64 { return p.Maturity / float64(p.Steps) }

// Discount is the one-step discount factor exp(-r*dt).
func (p MarketParams) Discount() float64 { return math.Exp(-p.Rate * p.TimeUnit()) }

// StorageParams describe a storage facility.
// Inventory levels and DCQ are in contract units (e.g. MWh, therms).
type StorageParams struct {
	MarketParams

	MaxInventory int `validate:"gt=0,gtefield=MinInventory"`
	MinInventory int `validate:"gte=0"`
	DCQ          int `validate:"gt=0"`
}

// StateCount is the number of inventory grid points K+1.
func (p StorageParams) StateCount() int {
	return (p.MaxInventory-p.MinInventory)/p.DCQ + 1
}

// Level maps a grid index to a physical inventory level.
func (p StorageParams) Level(i int) float64 {
	return float64(p.MinInventory + i*p.DCQ)
}

func (p StorageParams) Validate() error {
	return structError(validate.Struct(p))
}

// SwingParams describe a swing supply contract.
//
// ACQ is the annual contract quantity, DCQ the quantity taken per exercised
// right. TakeOrPay is the minimum quantity; it only constrains the recursion
// when EnforceTakeOrPay is set.
type SwingParams struct {
	MarketParams

	Strike           float64 `validate:"gte=0"`
	ACQ              int     `validate:"gt=0,gtefield=DCQ"`
	DCQ              int     `validate:"gt=0"`
	TakeOrPay        int     `validate:"gte=0"`
	EnforceTakeOrPay bool
}

// Rights is the number of exercisable rights R = ACQ / DCQ.
func (p SwingParams) Rights() int { return p.ACQ / p.DCQ }

// MinRights is the number of rights that must be exercised to meet the
// take-or-pay quantity, ceil(ToP / DCQ). Zero when not enforced.
func (p SwingParams) MinRights() int {
	if !p.EnforceTakeOrPay {
		return 0
	}
	return (p.TakeOrPay + p.DCQ - 1) / p.DCQ
}

func (p SwingParams) Validate() error {
	if err := structError(validate.Struct(p)); err != nil {
		return err
	}
	if m := p.MinRights(); m > p.Rights() || m > p.Steps {
		return fmt.Errorf("%w: take-or-pay needs %d rights but only %d rights over %d steps exist",
			ErrConfiguration, m, p.Rights(), p.Steps)
	}
	return nil
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(msgs, "; "))
}
