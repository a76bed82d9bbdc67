package optiontree

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"
)

// Style is the exercise style of an option contract.
type Style int

const (
	European Style = iota
	American
)

// Payoff selects the side of the contract.
type Payoff int

const (
	Call Payoff = iota
	Put
)

// Discounting selects the per-step discounting convention.
type Discounting int

const (
	// Continuous discounts by exp(-r*dt) per step.
	Continuous Discounting = iota
	// Discrete discounts by 1/(1+r*dt) per step.
	Discrete
)

// Option values a contract on an underlying price lattice. The per-step
// discount factor and the risk-neutral up-probability are fixed at
// construction; call and put root values are cached once computed so the
// parity shortcut can derive the missing side.
type Option struct {
	Lattice     *Lattice
	Strike      float64
	Style       Style
	Discounting Discounting

	// Discount is the per-step discount factor under the chosen convention.
	Discount float64
	// RiskNeutralProb is the probability of an up move under the
	// risk-neutral measure: (1/Discount - d)/(u - d) on a CRR tree, 0.5 by
	// construction on an RB tree.
	RiskNeutralProb float64

	callValue, putValue float64
	hasCall, hasPut     bool
}

// NewOption prepares a valuation of the contract with the given strike on the
// lattice.
func NewOption(l *Lattice, strike float64, style Style, disc Discounting) (*Option, error) {
	if l == nil {
		return nil, configErrf("option needs an underlying lattice")
	}
	if strike <= 0 {
		return nil, configErrf("strike must be greater than zero, got %g", strike)
	}
	if style != European && style != American {
		return nil, configErrf("exercise style %d not supported", style)
	}

	o := &Option{Lattice: l, Strike: strike, Style: style, Discounting: disc}
	switch disc {
	case Continuous:
		o.Discount = exp(-l.Rate * l.DeltaT)
	case Discrete:
		o.Discount = 1 / (1 + l.Rate*l.DeltaT)
	default:
		return nil, configErrf("discounting convention %d not supported", disc)
	}
	if l.Model == CRR {
		o.RiskNeutralProb = (1/o.Discount - l.D) / (l.U - l.D)
	} else {
		o.RiskNeutralProb = 0.5
	}
	return o, nil
}

// Call values the call by backward induction and returns the value lattice.
// The returned matrix is caller-owned; the root value is cached on the
// option.
func (o *Option) Call() *mat.Dense {
	v := o.induct(Call)
	o.callValue = v.At(0, 0)
	o.hasCall = true
	return v
}

// Put values the put by backward induction and returns the value lattice.
func (o *Option) Put() *mat.Dense {
	v := o.induct(Put)
	o.putValue = v.At(0, 0)
	o.hasPut = true
	return v
}

// Value returns the root value for the given payoff, running the backward
// induction if it has not been computed yet.
func (o *Option) Value(p Payoff) float64 {
	if p == Call {
		if !o.hasCall {
			o.Call()
		}
		return o.callValue
	}
	if !o.hasPut {
		o.Put()
	}
	return o.putValue
}

// induct fills a value lattice from the terminal payoff backwards. Each node
// is the discounted risk-neutral expectation of its two children; American
// contracts additionally floor every node at its intrinsic value, which
// traces the early exercise boundary.
func (o *Option) induct(p Payoff) *mat.Dense {
	n := o.Lattice.Steps
	prices := o.Lattice.prices
	v := mat.NewDense(n+1, n+1, nil)

	for row := 0; row <= n; row++ {
		v.Set(row, n, intrinsic(p, prices.At(row, n), o.Strike))
	}
	for col := n - 1; col >= 0; col-- {
		for row := 0; row <= col; row++ {
			cont := o.Discount * (o.RiskNeutralProb*v.At(row, col+1) +
				(1-o.RiskNeutralProb)*v.At(row+1, col+1))
			if o.Style == American {
				if ex := intrinsic(p, prices.At(row, col), o.Strike); ex > cont {
					cont = ex
				}
			}
			v.Set(row, col, cont)
		}
	}
	return v
}

// FastPutCall values both sides of a European contract without building a
// value lattice. The terminal nodes follow a Binomial(N, p) distribution, so
// the call is the discounted dot product of terminal payoffs and terminal
// probabilities; the put is then always derived through put-call parity
// rather than recomputed.
func (o *Option) FastPutCall() (call, put float64, err error) {
	if o.Style != European {
		return 0, 0, configErrf("fast valuation is only defined for European contracts")
	}
	n := o.Lattice.Steps
	p := o.RiskNeutralProb

	// p leaves [0,1] while a root search probes an up-factor below the
	// risk-free growth rate; the integer exponents keep the weights finite
	// there.
	weights := make([]float64, n+1)
	payoffs := make([]float64, n+1)
	for row := 0; row <= n; row++ {
		up := n - row // up moves reaching this node
		weights[row] = combin.GeneralizedBinomial(float64(n), float64(up)) *
			math.Pow(p, float64(up)) * math.Pow(1-p, float64(row))
		payoffs[row] = intrinsic(Call, o.Lattice.prices.At(row, n), o.Strike)
	}
	o.callValue = floats.Dot(payoffs, weights) * math.Pow(o.Discount, float64(n))
	o.hasCall = true
	if err := o.PutCallParity(); err != nil {
		return 0, 0, err
	}
	return o.callValue, o.putValue, nil
}

// PutCallParity derives the side of the pair that has not been computed yet
// from the one that has: put = call + K*df^N - S0. One side must have been
// computed first.
func (o *Option) PutCallParity() error {
	if o.Style != European {
		return configErrf("put-call parity only holds for European contracts")
	}
	if !o.hasCall && !o.hasPut {
		return calibErrf("put-call parity needs the call or the put computed first")
	}
	dfN := math.Pow(o.Discount, float64(o.Lattice.Steps))
	s0 := o.Lattice.prices.At(0, 0)
	switch {
	case o.hasCall && !o.hasPut:
		o.putValue = o.callValue + o.Strike*dfN - s0
		o.hasPut = true
	case o.hasPut && !o.hasCall:
		o.callValue = o.putValue + s0 - o.Strike*dfN
		o.hasCall = true
	}
	return nil
}

func intrinsic(p Payoff, price, strike float64) float64 {
	if p == Call {
		return math.Max(0, price-strike)
	}
	return math.Max(0, strike-price)
}
