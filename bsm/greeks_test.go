package bsm

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

func TestDelta(t *testing.T) {
	atm := baseModel(t)

	callDelta, err := atm.CallDelta()
	if err != nil {
		t.Fatal(err)
	}
	putDelta, err := atm.PutDelta()
	if err != nil {
		t.Fatal(err)
	}

	if callDelta <= 0 || callDelta >= 1 {
		t.Errorf("call delta should be in (0, 1), got %v", callDelta)
	}
	if putDelta <= -1 || putDelta >= 0 {
		t.Errorf("put delta should be in (-1, 0), got %v", putDelta)
	}
	assertFloatEqual(t, callDelta-putDelta, 1, 1e-12)

	itmDelta, err := mustModel(t, 110, 100, 1.0, 0.05, 0.2).CallDelta()
	if err != nil {
		t.Fatal(err)
	}
	otmDelta, err := mustModel(t, 90, 100, 1.0, 0.05, 0.2).CallDelta()
	if err != nil {
		t.Fatal(err)
	}
	if itmDelta <= callDelta {
		t.Errorf("ITM call delta %v should exceed ATM delta %v", itmDelta, callDelta)
	}
	if otmDelta >= callDelta {
		t.Errorf("OTM call delta %v should be below ATM delta %v", otmDelta, callDelta)
	}
}

// Randomized sweep: delta parity and put-call parity must hold across
// the whole valid parameter domain, not just the anchor case.
func TestParityRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		spot := 1 + rng.Float64()*499
		strike := 1 + rng.Float64()*499
		years := 0.01 + rng.Float64()*2.99
		rate := -0.05 + rng.Float64()*0.15
		vol := 0.01 + rng.Float64()*0.99

		m := mustModel(t, spot, strike, years, rate, vol)

		callDelta, err := m.CallDelta()
		if err != nil {
			t.Fatal(err)
		}
		putDelta, err := m.PutDelta()
		if err != nil {
			t.Fatal(err)
		}
		assertFloatEqual(t, callDelta-putDelta, 1, 1e-9)

		forward := spot - strike*math.Exp(-rate*years)
		assertFloatEqual(t, m.CallPrice()-m.PutPrice(), forward, 1e-8)
	}
}

func TestGamma(t *testing.T) {
	longDated, err := baseModel(t).Gamma()
	if err != nil {
		t.Fatal(err)
	}
	shortDated, err := mustModel(t, 100, 100, 0.5, 0.05, 0.2).Gamma()
	if err != nil {
		t.Fatal(err)
	}

	if longDated <= 0 {
		t.Errorf("gamma should be positive, got %v", longDated)
	}
	if shortDated <= longDated {
		t.Errorf("gamma should rise as expiry nears: T=0.5 gave %v, T=1.0 gave %v", shortDated, longDated)
	}
}

func TestVega(t *testing.T) {
	longDated, err := baseModel(t).Vega()
	if err != nil {
		t.Fatal(err)
	}
	shortDated, err := mustModel(t, 100, 100, 0.5, 0.05, 0.2).Vega()
	if err != nil {
		t.Fatal(err)
	}

	if longDated <= 0 {
		t.Errorf("vega should be positive, got %v", longDated)
	}
	if shortDated >= longDated {
		t.Errorf("vega should fall as expiry nears: T=0.5 gave %v, T=1.0 gave %v", shortDated, longDated)
	}
}

func TestTheta(t *testing.T) {
	m := baseModel(t)

	callTheta, err := m.CallTheta()
	if err != nil {
		t.Fatal(err)
	}
	putTheta, err := m.PutTheta()
	if err != nil {
		t.Fatal(err)
	}

	if callTheta >= 0 {
		t.Errorf("call theta should be negative for the base case, got %v", callTheta)
	}
	if putTheta >= 0 {
		t.Errorf("put theta should be negative for the base case, got %v", putTheta)
	}
}

func TestRho(t *testing.T) {
	m := baseModel(t)

	callRho, err := m.CallRho()
	if err != nil {
		t.Fatal(err)
	}
	putRho, err := m.PutRho()
	if err != nil {
		t.Fatal(err)
	}

	if callRho <= 0 {
		t.Errorf("call rho should be positive for r=0.05, got %v", callRho)
	}
	if putRho >= 0 {
		t.Errorf("put rho should be negative for r=0.05, got %v", putRho)
	}
}

func TestAllGreeksMatchesAccessors(t *testing.T) {
	m := baseModel(t)

	greeks, err := m.AllGreeks()
	if err != nil {
		t.Fatal(err)
	}

	accessors := []struct {
		name string
		fn   func() (float64, error)
		want float64
	}{
		{"CallDelta", m.CallDelta, greeks.CallDelta},
		{"PutDelta", m.PutDelta, greeks.PutDelta},
		{"Gamma", m.Gamma, greeks.Gamma},
		{"CallTheta", m.CallTheta, greeks.CallTheta},
		{"PutTheta", m.PutTheta, greeks.PutTheta},
		{"Vega", m.Vega, greeks.Vega},
		{"CallRho", m.CallRho, greeks.CallRho},
		{"PutRho", m.PutRho, greeks.PutRho},
	}

	for _, a := range accessors {
		got, err := a.fn()
		if err != nil {
			t.Fatalf("%s: %v", a.name, err)
		}
		assertFloatEqual(t, got, a.want, 1e-12)
	}
}

func TestGreeksRejectedAtExpiry(t *testing.T) {
	m := mustModel(t, 100, 100, 0, 0.05, 0.2)

	queries := []struct {
		name string
		fn   func() (float64, error)
	}{
		{"CallDelta", m.CallDelta},
		{"PutDelta", m.PutDelta},
		{"Gamma", m.Gamma},
		{"CallTheta", m.CallTheta},
		{"PutTheta", m.PutTheta},
		{"Vega", m.Vega},
		{"CallRho", m.CallRho},
		{"PutRho", m.PutRho},
	}

	for _, q := range queries {
		if _, err := q.fn(); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s at expiry: got %v, want ErrInvalidParameter", q.name, err)
		}
	}

	if _, err := m.AllGreeks(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("AllGreeks at expiry: got %v, want ErrInvalidParameter", err)
	}
	if _, _, err := m.ShadowGamma(DefaultPriceBump, DefaultVolBump); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ShadowGamma at expiry: got %v, want ErrInvalidParameter", err)
	}
	if _, err := m.SkewGamma(DefaultVolStep); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("SkewGamma at expiry: got %v, want ErrInvalidParameter", err)
	}
}

func TestShadowGamma(t *testing.T) {
	m := baseModel(t)

	up, down, err := m.ShadowGamma(DefaultPriceBump, DefaultVolBump)
	if err != nil {
		t.Fatal(err)
	}
	if up <= 0 || down <= 0 {
		t.Errorf("shadow gammas should be positive for an ATM option, got up %v down %v", up, down)
	}

	// With a vanishing vol bump the shadow gammas collapse to plain gamma.
	gamma, err := m.Gamma()
	if err != nil {
		t.Fatal(err)
	}
	upSmall, downSmall, err := m.ShadowGamma(1e-5, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertFloatEqual(t, upSmall, gamma, 1e-3)
	assertFloatEqual(t, downSmall, gamma, 1e-3)
}

// Degenerate bump sizes would divide by zero; they must be rejected
// instead of returning NaN or Inf with a nil error.
func TestShadowGammaRejectsDegenerateBump(t *testing.T) {
	m := baseModel(t)

	for _, priceBump := range []float64{0, -0.01} {
		up, down, err := m.ShadowGamma(priceBump, DefaultVolBump)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("ShadowGamma(%v, _): got %v, want ErrInvalidParameter", priceBump, err)
		}
		if math.IsNaN(up) || math.IsInf(up, 0) || math.IsNaN(down) || math.IsInf(down, 0) {
			t.Errorf("ShadowGamma(%v, _): non-finite values %v, %v escaped", priceBump, up, down)
		}
	}
}

func TestSkewGammaRejectsDegenerateStep(t *testing.T) {
	m := baseModel(t)

	for _, volStep := range []float64{0, -0.01} {
		skew, err := m.SkewGamma(volStep)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("SkewGamma(%v): got %v, want ErrInvalidParameter", volStep, err)
		}
		if math.IsNaN(skew) || math.IsInf(skew, 0) {
			t.Errorf("SkewGamma(%v): non-finite value %v escaped", volStep, skew)
		}
	}
}

func TestSkewGamma(t *testing.T) {
	m := baseModel(t)

	skew, err := m.SkewGamma(DefaultVolStep)
	if err != nil {
		t.Fatal(err)
	}

	// Analytic vomma is vega * d1 * d2 / sigma; both d1 and d2 are
	// positive for the base case, so the estimate must be too.
	if skew <= 0 {
		t.Errorf("skew gamma should be positive for the base case, got %v", skew)
	}

	vega, err := m.Vega()
	if err != nil {
		t.Fatal(err)
	}
	d1, err := m.D1()
	if err != nil {
		t.Fatal(err)
	}
	d2, err := m.D2()
	if err != nil {
		t.Fatal(err)
	}
	analytic := vega * d1 * d2 / m.Volatility()
	assertFloatEqual(t, skew, analytic, math.Abs(analytic)*0.05)
}
