package optiontree

import (
	"fmt"
	"io"
	"math"

	"github.com/leekchan/accounting"
	"gonum.org/v1/gonum/mat"
)

// Model selects the lattice parameterization.
type Model int

const (
	// CRR is the Cox-Ross-Rubinstein tree: d = 1/u exactly.
	CRR Model = iota
	// RB is the Rendleman-Bartter tree: drift-adjusted u and d, computed
	// independently.
	RB
)

func (m Model) String() string {
	switch m {
	case CRR:
		return "CRR"
	case RB:
		return "RB"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Config holds the lattice parameters. Exactly one of U and Sigma must be
// set; the other is derived under the chosen model.
type Config struct {
	TimeToExpiry float64 // in years
	Steps        int
	U            float64 // upward move per step
	Sigma        float64 // implied volatility
	Model        Model
}

// Lattice is the recombining price tree of the underlying asset. Cell
// (row, col) holds the price after col steps of which row were down moves,
// so cell value = Spot * U^(col-row) * D^row before dividend adjustment.
// Only the triangle row <= col is meaningful.
//
// A Lattice is immutable once built. Building it is the expensive step, so
// share one lattice across every valuation on the same underlying.
type Lattice struct {
	Asset        Asset
	Rate         float64
	Model        Model
	TimeToExpiry float64
	Steps        int
	DeltaT       float64
	U, D         float64
	ImpliedVol   float64

	// Warnings collects non-fatal diagnostics raised during construction,
	// such as a degenerate up-factor.
	Warnings []Warning

	prices *mat.Dense
}

// NewLattice builds the dividend-adjusted price lattice for the asset under
// the given annualized rate and configuration.
func NewLattice(asset Asset, rate float64, cfg Config) (*Lattice, error) {
	if err := asset.Dividend.validate(); err != nil {
		return nil, err
	}
	if cfg.Steps <= 0 {
		return nil, configErrf("step count must be greater than zero, got %d", cfg.Steps)
	}
	if cfg.TimeToExpiry <= 0 {
		return nil, configErrf("time to expiry must be greater than zero, got %g", cfg.TimeToExpiry)
	}
	if (cfg.U != 0) == (cfg.Sigma != 0) {
		return nil, configErrf("exactly one of the up-factor and the volatility must be set")
	}
	if cfg.U < 0 {
		return nil, configErrf("up-factor cannot be zero or negative, got %g", cfg.U)
	}
	if asset.Dividend.ExStep > cfg.Steps {
		return nil, configErrf("ex-dividend step %d lies beyond the final step %d",
			asset.Dividend.ExStep, cfg.Steps)
	}

	l := &Lattice{
		Asset:        asset,
		Rate:         rate,
		Model:        cfg.Model,
		TimeToExpiry: cfg.TimeToExpiry,
		Steps:        cfg.Steps,
		DeltaT:       cfg.TimeToExpiry / float64(cfg.Steps),
	}

	switch cfg.Model {
	case CRR:
		if cfg.U != 0 {
			l.U = cfg.U
			l.ImpliedVol = math.Log(cfg.U) / sqrt(l.DeltaT)
		} else {
			l.U = exp(cfg.Sigma * sqrt(l.DeltaT))
			l.ImpliedVol = cfg.Sigma
		}
		l.D = 1 / l.U
	case RB:
		if cfg.Sigma != 0 {
			l.ImpliedVol = cfg.Sigma
			l.U = exp((rate-0.5*sqr(cfg.Sigma))*l.DeltaT + cfg.Sigma*sqrt(l.DeltaT))
		} else {
			l.U = cfg.U
			// Back out the volatility from u by solving the quadratic
			// x^2 + Bx + C = 0 and keeping the larger root.
			b := -2 / sqrt(l.DeltaT)
			c := 2 / sqrt(l.DeltaT) * (math.Log(cfg.U) - rate*l.DeltaT)
			disc := sqr(b) - 4*c
			if disc < 0 {
				return nil, configErrf("up-factor %g implies no real volatility under the RB model", cfg.U)
			}
			l.ImpliedVol = (-b + sqrt(disc)) / 2
		}
		l.D = exp((rate-0.5*sqr(l.ImpliedVol))*l.DeltaT - l.ImpliedVol*sqrt(l.DeltaT))
	default:
		return nil, configErrf("lattice model %v not supported", cfg.Model)
	}

	if l.U <= 0 {
		return nil, configErrf("up-factor cannot be zero or negative, got %g", l.U)
	}
	if l.U <= 1 {
		l.Warnings = append(l.Warnings, Warning{
			Message: fmt.Sprintf("up-factor %g does not exceed 1: up moves behave like down moves", l.U),
		})
	}

	l.prices = l.Asset.Dividend.adjust(l, l.rawTree())
	return l, nil
}

// Prices returns the price tree. The matrix is shared with the lattice and
// must not be mutated.
func (l *Lattice) Prices() *mat.Dense { return l.prices }

// rawTree fills the price triangle column by column. Columns do not depend
// on one another, only on the shared spot, U and D.
func (l *Lattice) rawTree() *mat.Dense {
	s := mat.NewDense(l.Steps+1, l.Steps+1, nil)
	for col := l.Steps; col >= 0; col-- {
		for row := 0; row <= col; row++ {
			s.Set(row, col, l.Asset.Spot*math.Pow(l.U, float64(col-row))*math.Pow(l.D, float64(row)))
		}
	}
	return s
}

// adjust returns the dividend-adjusted price tree. The raw tree is not
// touched when an adjustment applies; a fresh matrix is produced instead.
func (d DividendSpec) adjust(l *Lattice, raw *mat.Dense) *mat.Dense {
	switch {
	case d.Dollar != 0 && d.ExStep >= 0:
		adj := mat.NewDense(l.Steps+1, l.Steps+1, nil)
		adj.Sub(raw, d.dividendTree(l))
		return adj
	case d.Dollar != 0:
		// A dollar dividend with no scheduled ex-dividend step never
		// reaches the tree.
		return raw
	case d.Yield != 0:
		// Single whole-lattice haircut, not compounded per step.
		adj := mat.NewDense(l.Steps+1, l.Steps+1, nil)
		adj.Scale(1-d.Yield*l.DeltaT, raw)
		return adj
	default:
		return raw
	}
}

// dividendTree is the correction subtracted from every node at and after the
// ex-dividend step: the dollar amount compounded forward at the local move
// rate. Row r grows by U over the first Steps+1-r columns and by D after,
// matching the move that leads out of each node, which keeps the adjusted
// tree recombining.
func (d DividendSpec) dividendTree(l *Lattice) *mat.Dense {
	n := l.Steps
	k := d.ExStep
	div := mat.NewDense(n+1, n+1, nil)
	for row := 0; row <= n; row++ {
		acc := d.Dollar
		for col := k; col <= n; col++ {
			if col > k {
				if col < n+1-row {
					acc *= l.U
				} else {
					acc *= l.D
				}
			}
			if row <= col {
				div.Set(row, col, acc)
			}
		}
	}
	return div
}

// Summary writes a short description of the underlying asset and the tree
// parameters to w.
func (l *Lattice) Summary(w io.Writer) {
	ac := accounting.Accounting{Symbol: "$", Precision: 2}
	fmt.Fprintln(w, "UNDERLYING ASSET SUMMARY")
	fmt.Fprintf(w, "  Spot price:     %s\n", ac.FormatMoney(l.Asset.Spot))
	fmt.Fprintf(w, "  Time to expiry: %.4f years\n", l.TimeToExpiry)
	fmt.Fprintf(w, "  Interest rate:  %.2f%%\n", l.Rate*100)
	fmt.Fprintf(w, "  Implied vol:    %.2f%%\n", l.ImpliedVol*100)
	fmt.Fprintf(w, "  Lattice:        %v, %d steps\n", l.Model, l.Steps)
	l.Asset.Dividend.Describe(w)
}

// helper functions

// square the input
func sqr(x float64) float64 { return x * x }

// local function aliases
var exp = math.Exp
var sqrt = math.Sqrt
