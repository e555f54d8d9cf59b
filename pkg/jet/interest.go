package jet

import (
	"fmt"
	"math"
)

// Interpolate linearly maps x from [x0, x1] onto [y0, y1]. A degenerate
// range (x0 == x1) yields y0. A reversed range or an x outside it is an
// error rather than an extrapolation.
func Interpolate(x, x0, x1, y0, y1 float64) (float64, error) {
	if math.IsNaN(x) || x0 > x1 || x < x0 || x > x1 {
		return 0, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, x, x0, x1)
	}
	return lerp(x, x0, x1, y0, y1), nil
}

func lerp(x, x0, x1, y0, y1 float64) float64 {
	if x0 == x1 {
		return y0
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

func bps(v uint16) float64 { return float64(v) / BasisPointMax }

// ContinuousRate is the piecewise-linear continuously compounded borrow rate
// at utilization u. Utilization is clamped to [0, 1]. The three segments meet
// at utilizationRate1 and utilizationRate2; a boundary value belongs to the
// upper segment.
func ContinuousRate(cfg ReserveConfig, u float64) float64 {
	switch {
	case math.IsNaN(u) || u < 0:
		u = 0
	case u > 1:
		u = 1
	}
	u1, u2 := bps(cfg.UtilizationRate1), bps(cfg.UtilizationRate2)
	r0, r1, r2, r3 := bps(cfg.BorrowRate0), bps(cfg.BorrowRate1), bps(cfg.BorrowRate2), bps(cfg.BorrowRate3)
	switch {
	case u < u1:
		return lerp(u, 0, u1, r0, r1)
	case u < u2:
		return lerp(u, u1, u2, r1, r2)
	default:
		return lerp(u, u2, 1, r2, r3)
	}
}

// BorrowAPR annualizes a continuous rate with the fee (basis points) added
// on top of the per-second growth.
func BorrowAPR(ccRate float64, feeBps uint16) float64 {
	rt := ccRate / SecondsPerYear
	return math.Log1p((1+bps(feeBps))*math.Expm1(rt)) * SecondsPerYear
}

// DepositAPY is the depositor's share of the borrow rate at utilization u.
func DepositAPY(ccRate, u float64) float64 {
	rt := ccRate / SecondsPerYear
	return math.Log1p(math.Expm1(rt)) * SecondsPerYear * u
}

// Validate checks that the utilization breakpoints are ordered and within
// 100%. Decoded configs are not validated automatically; ContinuousRate
// still returns a value for an invalid config.
func (c ReserveConfig) Validate() error {
	if c.UtilizationRate1 > c.UtilizationRate2 {
		return fmt.Errorf("%w: utilizationRate1 %d exceeds utilizationRate2 %d", ErrInvalidConfig, c.UtilizationRate1, c.UtilizationRate2)
	}
	if c.UtilizationRate2 > BasisPointMax {
		return fmt.Errorf("%w: utilizationRate2 %d exceeds %d", ErrInvalidConfig, c.UtilizationRate2, BasisPointMax)
	}
	return nil
}

// rates computes the derived rate fields for a reserve at utilization u.
func rates(cfg ReserveConfig, u float64) (cc, apr, apy float64) {
	cc = ContinuousRate(cfg, u)
	return cc, BorrowAPR(cc, cfg.ManageFeeRate), DepositAPY(cc, u)
}
