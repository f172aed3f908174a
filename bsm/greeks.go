package bsm

import (
	"fmt"
	"math"
)

// Default bump sizes for the finite-difference sensitivities.
const (
	DefaultPriceBump = 0.01 // 1% spot bump for shadow gamma
	DefaultVolBump   = 0.05 // 5% vol bump for shadow gamma
	DefaultVolStep   = 0.01 // absolute vol step for skew gamma
)

// Greeks bundles the eight first-order sensitivities of a model.
type Greeks struct {
	CallDelta float64 `json:"call_delta"`
	PutDelta  float64 `json:"put_delta"`
	Gamma     float64 `json:"gamma"`
	CallTheta float64 `json:"call_theta"`
	PutTheta  float64 `json:"put_theta"`
	Vega      float64 `json:"vega"`
	CallRho   float64 `json:"call_rho"`
	PutRho    float64 `json:"put_rho"`
}

// CallDelta returns the call price sensitivity to spot, in (0, 1).
func (m Model) CallDelta() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	return stdNormal.CDF(m.d1()), nil
}

// PutDelta returns the put price sensitivity to spot, in (-1, 0).
// CallDelta - PutDelta = 1 exactly.
func (m Model) PutDelta() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	return stdNormal.CDF(m.d1()) - 1, nil
}

// Gamma returns the second-order spot sensitivity. It is the same for
// the call and the put.
func (m Model) Gamma() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	return stdNormal.Prob(m.d1()) / (m.spot * m.volatility * math.Sqrt(m.timeToExpiry)), nil
}

// CallTheta returns the call price sensitivity to the passage of time.
func (m Model) CallTheta() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	d1, d2 := m.d1(), m.d2()
	return -(m.spot*m.volatility*stdNormal.Prob(d1))/(2*math.Sqrt(m.timeToExpiry)) -
		m.riskFreeRate*m.strike*math.Exp(-m.riskFreeRate*m.timeToExpiry)*stdNormal.CDF(d2), nil
}

// PutTheta returns the put price sensitivity to the passage of time.
func (m Model) PutTheta() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	d1, d2 := m.d1(), m.d2()
	return -(m.spot*m.volatility*stdNormal.Prob(d1))/(2*math.Sqrt(m.timeToExpiry)) +
		m.riskFreeRate*m.strike*math.Exp(-m.riskFreeRate*m.timeToExpiry)*stdNormal.CDF(-d2), nil
}

// Vega returns the price sensitivity to volatility. It is the same for
// the call and the put.
func (m Model) Vega() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	return m.spot * math.Sqrt(m.timeToExpiry) * stdNormal.Prob(m.d1()), nil
}

// CallRho returns the call price sensitivity to the risk-free rate.
func (m Model) CallRho() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	return m.strike * m.timeToExpiry * math.Exp(-m.riskFreeRate*m.timeToExpiry) * stdNormal.CDF(m.d2()), nil
}

// PutRho returns the put price sensitivity to the risk-free rate.
func (m Model) PutRho() (float64, error) {
	if err := m.expiryGuard(); err != nil {
		return 0, err
	}
	return -m.strike * m.timeToExpiry * math.Exp(-m.riskFreeRate*m.timeToExpiry) * stdNormal.CDF(-m.d2()), nil
}

// AllGreeks computes the eight sensitivities in one pass over d1/d2.
func (m Model) AllGreeks() (Greeks, error) {
	if err := m.expiryGuard(); err != nil {
		return Greeks{}, err
	}

	d1, d2 := m.d1(), m.d2()
	sqrtT := math.Sqrt(m.timeToExpiry)
	discount := math.Exp(-m.riskFreeRate * m.timeToExpiry)
	pdf := stdNormal.Prob(d1)
	cdf := stdNormal.CDF(d1)

	return Greeks{
		CallDelta: cdf,
		PutDelta:  cdf - 1,
		Gamma:     pdf / (m.spot * m.volatility * sqrtT),
		CallTheta: -(m.spot*m.volatility*pdf)/(2*sqrtT) - m.riskFreeRate*m.strike*discount*stdNormal.CDF(d2),
		PutTheta:  -(m.spot*m.volatility*pdf)/(2*sqrtT) + m.riskFreeRate*m.strike*discount*stdNormal.CDF(-d2),
		Vega:      m.spot * sqrtT * pdf,
		CallRho:   m.strike * m.timeToExpiry * discount * stdNormal.CDF(d2),
		PutRho:    -m.strike * m.timeToExpiry * discount * stdNormal.CDF(-d2),
	}, nil
}

// ShadowGamma estimates gamma under simultaneous spot and volatility
// moves: the up shadow bumps both up, the down shadow bumps both down.
// priceBump and volBump are fractions of the current spot and vol.
func (m Model) ShadowGamma(priceBump, volBump float64) (up, down float64, err error) {
	if priceBump <= 0 {
		return 0, 0, fmt.Errorf("%w: price bump must be positive, got %g", ErrInvalidParameter, priceBump)
	}

	baseDelta, err := m.CallDelta()
	if err != nil {
		return 0, 0, err
	}

	spotUp := m.spot * (1 + priceBump)
	upModel, err := New(spotUp, m.strike, m.timeToExpiry, m.riskFreeRate, m.volatility*(1+volBump))
	if err != nil {
		return 0, 0, err
	}
	upDelta, err := upModel.CallDelta()
	if err != nil {
		return 0, 0, err
	}

	spotDown := m.spot * (1 - priceBump)
	downModel, err := New(spotDown, m.strike, m.timeToExpiry, m.riskFreeRate, m.volatility*(1-volBump))
	if err != nil {
		return 0, 0, err
	}
	downDelta, err := downModel.CallDelta()
	if err != nil {
		return 0, 0, err
	}

	up = (upDelta - baseDelta) / (spotUp - m.spot)
	down = (baseDelta - downDelta) / (m.spot - spotDown)
	return up, down, nil
}

// SkewGamma (volga/vomma) estimates the sensitivity of vega to
// volatility by central difference with an absolute volStep.
func (m Model) SkewGamma(volStep float64) (float64, error) {
	if volStep <= 0 {
		return 0, fmt.Errorf("%w: vol step must be positive, got %g", ErrInvalidParameter, volStep)
	}

	upModel, err := New(m.spot, m.strike, m.timeToExpiry, m.riskFreeRate, m.volatility+volStep)
	if err != nil {
		return 0, err
	}
	vegaUp, err := upModel.Vega()
	if err != nil {
		return 0, err
	}

	downModel, err := New(m.spot, m.strike, m.timeToExpiry, m.riskFreeRate, m.volatility-volStep)
	if err != nil {
		return 0, err
	}
	vegaDown, err := downModel.Vega()
	if err != nil {
		return 0, err
	}

	return (vegaUp - vegaDown) / (2 * volStep), nil
}
