// Package contracts reads batch valuation requests from JSON files.
package contracts

import (
	"fmt"
	"os"
	"time"

	"github.com/xhhuango/json"

	"github.com/quantops/greekbot/bsm"
)

// Contract describes a single European option valuation query. The
// expiry is given either as a year fraction (time_to_expiry) or as a
// date (expiration_date, 2006-01-02); an omitted expiry means the
// contract expires now and prices at intrinsic value.
type Contract struct {
	Symbol         string  `json:"symbol,omitempty"`
	Spot           float64 `json:"spot"`
	Strike         float64 `json:"strike"`
	TimeToExpiry   float64 `json:"time_to_expiry,omitempty"`
	ExpirationDate string  `json:"expiration_date,omitempty"`
	RiskFreeRate   float64 `json:"risk_free_rate"`
	Volatility     float64 `json:"volatility"`
}

// Years resolves the contract's time to expiry in years, evaluating
// expiration_date against the supplied valuation time.
func (c Contract) Years(now time.Time) (float64, error) {
	if c.ExpirationDate == "" {
		return c.TimeToExpiry, nil
	}
	if c.TimeToExpiry != 0 {
		return 0, fmt.Errorf("contract %s: specify time_to_expiry or expiration_date, not both", c.Symbol)
	}
	expDate, err := time.Parse("2006-01-02", c.ExpirationDate)
	if err != nil {
		return 0, fmt.Errorf("contract %s: failed to parse expiration date %s: %s", c.Symbol, c.ExpirationDate, err)
	}
	return expDate.Sub(now).Hours() / 24 / 365, nil
}

// Model builds the pricing model for the contract at the given
// valuation time.
func (c Contract) Model(now time.Time) (bsm.Model, error) {
	years, err := c.Years(now)
	if err != nil {
		return bsm.Model{}, err
	}
	return bsm.New(c.Spot, c.Strike, years, c.RiskFreeRate, c.Volatility)
}

// Load reads a JSON array of contracts from path.
func Load(path string) ([]Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contracts file: %s", err)
	}

	var list []Contract
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contracts file: %s", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no contracts in %s", path)
	}

	return list, nil
}
