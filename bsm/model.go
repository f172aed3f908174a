package bsm

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameter is returned when a model parameter is outside the
// domain of the Black-Scholes-Merton formulas, or when a greek is
// requested at zero time to expiry.
var ErrInvalidParameter = errors.New("invalid parameter")

// stdNormal supplies the standard normal CDF and PDF used by every formula.
var stdNormal = distuv.UnitNormal

// Model holds the five Black-Scholes-Merton inputs. It is immutable:
// every method is a pure function of the values fixed at construction,
// so a Model may be shared across goroutines freely.
type Model struct {
	spot         float64 // current underlying price, > 0
	strike       float64 // strike price, > 0
	timeToExpiry float64 // years until expiration, >= 0
	riskFreeRate float64 // annualized continuously-compounded rate
	volatility   float64 // annualized volatility, > 0 when timeToExpiry > 0
}

// New validates the five parameters and returns the pricing model.
// Volatility is only constrained when time to expiry is positive; an
// expired contract prices at intrinsic value regardless of volatility.
func New(spot, strike, timeToExpiry, riskFreeRate, volatility float64) (Model, error) {
	for _, v := range [5]float64{spot, strike, timeToExpiry, riskFreeRate, volatility} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Model{}, fmt.Errorf("%w: parameters must be finite, got %g", ErrInvalidParameter, v)
		}
	}
	if spot <= 0 {
		return Model{}, fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidParameter, spot)
	}
	if strike <= 0 {
		return Model{}, fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidParameter, strike)
	}
	if timeToExpiry < 0 {
		return Model{}, fmt.Errorf("%w: timeToExpiry must not be negative, got %g", ErrInvalidParameter, timeToExpiry)
	}
	if timeToExpiry > 0 && volatility <= 0 {
		return Model{}, fmt.Errorf("%w: volatility must be positive before expiry, got %g", ErrInvalidParameter, volatility)
	}

	return Model{
		spot:         spot,
		strike:       strike,
		timeToExpiry: timeToExpiry,
		riskFreeRate: riskFreeRate,
		volatility:   volatility,
	}, nil
}

func (m Model) Spot() float64         { return m.spot }
func (m Model) Strike() float64       { return m.strike }
func (m Model) TimeToExpiry() float64 { return m.timeToExpiry }
func (m Model) RiskFreeRate() float64 { return m.riskFreeRate }
func (m Model) Volatility() float64   { return m.volatility }

// expiryGuard rejects computations that divide by sigma*sqrt(T).
func (m Model) expiryGuard() error {
	if m.timeToExpiry == 0 {
		return fmt.Errorf("%w: undefined at zero time to expiry", ErrInvalidParameter)
	}
	return nil
}

// d1 assumes timeToExpiry > 0.
func (m Model) d1() float64 {
	return (math.Log(m.spot/m.strike) + (m.riskFreeRate+0.5*m.volatility*m.volatility)*m.timeToExpiry) /
		(m.volatility * math.Sqrt(m.timeToExpiry))
}

// d2 assumes timeToExpiry > 0.
func (m Model) d2() float64 {
	return m.d1() - m.volatility*math.Sqrt(m.timeToExpiry)
}

// D1 returns the d1 auxiliary quantity. It is undefined at expiry.
func (m Model) D1() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	return m.d1(), nil
}

// D2 returns the d2 auxiliary quantity. It is undefined at expiry.
func (m Model) D2() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	return m.d2(), nil
}

// CallPrice returns the European call price. At expiry the price is the
// intrinsic value; d1/d2 are never evaluated on that path.
func (m Model) CallPrice() float64 {
	if m.timeToExpiry == 0 {
		return m.CallIntrinsic()
	}
	d1, d2 := m.d1(), m.d2()
	return m.spot*stdNormal.CDF(d1) - m.strike*math.Exp(-m.riskFreeRate*m.timeToExpiry)*stdNormal.CDF(d2)
}

// PutPrice returns the European put price. At expiry the price is the
// intrinsic value.
func (m Model) PutPrice() float64 {
	if m.timeToExpiry == 0 {
		return m.PutIntrinsic()
	}
	d1, d2 := m.d1(), m.d2()
	return m.strike*math.Exp(-m.riskFreeRate*m.timeToExpiry)*stdNormal.CDF(-d2) - m.spot*stdNormal.CDF(-d1)
}

// CallIntrinsic returns the immediate-exercise payoff of the call.
func (m Model) CallIntrinsic() float64 {
	return math.Max(0, m.spot-m.strike)
}

// PutIntrinsic returns the immediate-exercise payoff of the put.
func (m Model) PutIntrinsic() float64 {
	return math.Max(0, m.strike-m.spot)
}

// CallExtrinsic returns the time value of the call, floored at zero.
func (m Model) CallExtrinsic() float64 {
	return math.Max(0, m.CallPrice()-m.CallIntrinsic())
}

// PutExtrinsic returns the time value of the put, floored at zero.
func (m Model) PutExtrinsic() float64 {
	return math.Max(0, m.PutPrice()-m.PutIntrinsic())
}
