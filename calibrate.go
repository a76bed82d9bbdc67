package optiontree

import "math"

// Calibration defaults. The interval matches the conventional search range
// for an up-factor; the iteration cap bounds a search over a pathological
// interval.
const (
	defaultTol     = 1e-12
	defaultMaxIter = 100
)

var defaultInterval = [2]float64{1.0001, 10.0}

// CalibrateParams describes a calibration problem: find the up-factor whose
// lattice reproduces the observed market price of the contract.
type CalibrateParams struct {
	Observed     float64 // observed market price of the contract
	Spot         float64
	Strike       float64
	Rate         float64
	TimeToExpiry float64 // in years
	Steps        int
	Model        Model
	Dividend     DividendSpec
	Payoff       Payoff
	Discounting  Discounting

	// Interval brackets the up-factor search; the zero value selects
	// (1.0001, 10). The objective must change sign over it.
	Interval [2]float64
	// Tol and MaxIter bound the root search; zero values select the
	// defaults.
	Tol     float64
	MaxIter int
}

func (p CalibrateParams) withDefaults() CalibrateParams {
	if p.Interval == [2]float64{} {
		p.Interval = defaultInterval
	}
	if p.Tol == 0 {
		p.Tol = defaultTol
	}
	if p.MaxIter == 0 {
		p.MaxIter = defaultMaxIter
	}
	return p
}

func (p CalibrateParams) lattice(u float64) (*Lattice, error) {
	asset := Asset{Spot: p.Spot, Dividend: p.Dividend}
	return NewLattice(asset, p.Rate, Config{
		TimeToExpiry: p.TimeToExpiry,
		Steps:        p.Steps,
		U:            u,
		Model:        p.Model,
	})
}

// CalibrateEuropean finds the up-factor whose lattice reprices the observed
// European contract and returns that lattice. Each objective evaluation uses
// the closed-form fast path.
func CalibrateEuropean(p CalibrateParams) (*Lattice, error) {
	p = p.withDefaults()
	var buildErr error
	f := func(u float64) float64 {
		l, err := p.lattice(u)
		if err != nil {
			buildErr = err
			return math.NaN()
		}
		opt, err := NewOption(l, p.Strike, European, p.Discounting)
		if err != nil {
			buildErr = err
			return math.NaN()
		}
		call, put, err := opt.FastPutCall()
		if err != nil {
			buildErr = err
			return math.NaN()
		}
		if p.Payoff == Call {
			return call - p.Observed
		}
		return put - p.Observed
	}
	u, err := brentq(f, p.Interval[0], p.Interval[1], p.Tol, p.MaxIter)
	if buildErr != nil {
		return nil, buildErr
	}
	if err != nil {
		return nil, err
	}
	return p.lattice(u)
}

// CalibrateAmerican finds the up-factor whose lattice reprices the observed
// American contract and returns that lattice. Unlike the European case every
// objective evaluation rebuilds the full value lattice.
func CalibrateAmerican(p CalibrateParams) (*Lattice, error) {
	p = p.withDefaults()
	var buildErr error
	f := func(u float64) float64 {
		l, err := p.lattice(u)
		if err != nil {
			buildErr = err
			return math.NaN()
		}
		opt, err := NewOption(l, p.Strike, American, p.Discounting)
		if err != nil {
			buildErr = err
			return math.NaN()
		}
		return opt.Value(p.Payoff) - p.Observed
	}
	u, err := brentq(f, p.Interval[0], p.Interval[1], p.Tol, p.MaxIter)
	if buildErr != nil {
		return nil, buildErr
	}
	if err != nil {
		return nil, err
	}
	return p.lattice(u)
}

// Deamericanized is the outcome of stripping the early exercise right out of
// an American market price.
type Deamericanized struct {
	// Lattice reproduces the observed American price.
	Lattice *Lattice
	// U and ImpliedVol are the calibrated lattice parameters.
	U          float64
	ImpliedVol float64
	// EquivalentEuropean is the European value on the calibrated lattice.
	EquivalentEuropean float64
	// Premium is the observed American price minus EquivalentEuropean. A
	// correct calibration never yields a meaningfully negative premium.
	Premium float64
}

// Deamericanize calibrates the lattice to an observed American price, then
// prices the European contract of the same strike on that lattice. The gap
// between the two is the early exercise premium.
func Deamericanize(p CalibrateParams) (Deamericanized, error) {
	l, err := CalibrateAmerican(p)
	if err != nil {
		return Deamericanized{}, err
	}
	opt, err := NewOption(l, p.Strike, European, p.Discounting)
	if err != nil {
		return Deamericanized{}, err
	}
	call, put, err := opt.FastPutCall()
	if err != nil {
		return Deamericanized{}, err
	}
	eur := call
	if p.Payoff == Put {
		eur = put
	}
	return Deamericanized{
		Lattice:            l,
		U:                  l.U,
		ImpliedVol:         l.ImpliedVol,
		EquivalentEuropean: eur,
		Premium:            p.Observed - eur,
	}, nil
}

// brentq finds a root of f inside [a, b] with Brent's method, combining
// bisection with secant and inverse quadratic steps. f(a) and f(b) must have
// opposite signs.
func brentq(f func(float64) float64, a, b, tol float64, maxIter int) (float64, error) {
	const eps = 2.220446049250313e-16

	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if math.IsNaN(fa) || math.IsNaN(fb) || fa*fb > 0 {
		return 0, calibErrf("no root bracketed in [%g, %g]", a, b)
	}

	c, fc := b, fb
	var d, e float64
	for i := 0; i < maxIter; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*eps*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Interpolate: secant when only two points are distinct,
			// inverse quadratic otherwise.
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}
	return b, calibErrf("root search did not converge within %d iterations", maxIter)
}
