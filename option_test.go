package optiontree

import (
	"errors"
	"math"
	"testing"
)

// referenceLattice is the spot 300 scenario used throughout: r = 8%, four
// months to expiry, four CRR steps at 30% volatility.
func referenceLattice(t *testing.T) *Lattice {
	t.Helper()
	l, err := NewLattice(
		Asset{Spot: 300, Dividend: NoDividend()},
		0.08,
		Config{TimeToExpiry: 1.0 / 3, Steps: 4, Sigma: 0.30, Model: CRR},
	)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	return l
}

func TestEuropeanPutCallParity(t *testing.T) {
	l := referenceLattice(t)
	opt, err := NewOption(l, 300, European, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}

	call := opt.Call().At(0, 0)
	put := opt.Put().At(0, 0)

	dfN := math.Pow(opt.Discount, 4)
	if got, want := call-put, 300-300*dfN; !almostEqual(got, want, 1e-9) {
		t.Errorf("call - put = %v, want %v", got, want)
	}
}

func TestFastPathMatchesInduction(t *testing.T) {
	for _, disc := range []Discounting{Continuous, Discrete} {
		l := referenceLattice(t)
		slow, err := NewOption(l, 300, European, disc)
		if err != nil {
			t.Fatalf("NewOption: %v", err)
		}
		fast, err := NewOption(l, 300, European, disc)
		if err != nil {
			t.Fatalf("NewOption: %v", err)
		}

		call, put, err := fast.FastPutCall()
		if err != nil {
			t.Fatalf("FastPutCall: %v", err)
		}
		if want := slow.Call().At(0, 0); !almostEqual(call, want, 1e-9) {
			t.Errorf("disc %d: fast call = %v, induction %v", disc, call, want)
		}
		if want := slow.Put().At(0, 0); !almostEqual(put, want, 1e-9) {
			t.Errorf("disc %d: fast put = %v, induction %v", disc, put, want)
		}
	}
}

func TestDiscountingConventions(t *testing.T) {
	l := referenceLattice(t)
	cont, err := NewOption(l, 300, European, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	disc, err := NewOption(l, 300, European, Discrete)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}

	if want := math.Exp(-0.08 * l.DeltaT); !almostEqual(cont.Discount, want, 1e-12) {
		t.Errorf("continuous discount = %v, want %v", cont.Discount, want)
	}
	if want := 1 / (1 + 0.08*l.DeltaT); !almostEqual(disc.Discount, want, 1e-12) {
		t.Errorf("discrete discount = %v, want %v", disc.Discount, want)
	}
}

func TestRiskNeutralProbability(t *testing.T) {
	l := referenceLattice(t)
	opt, err := NewOption(l, 300, European, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	want := (1/opt.Discount - l.D) / (l.U - l.D)
	if !almostEqual(opt.RiskNeutralProb, want, 1e-12) {
		t.Errorf("p = %v, want %v", opt.RiskNeutralProb, want)
	}

	rb, err := NewLattice(
		Asset{Spot: 300, Dividend: NoDividend()},
		0.08,
		Config{TimeToExpiry: 1.0 / 3, Steps: 4, Sigma: 0.30, Model: RB},
	)
	if err != nil {
		t.Fatalf("NewLattice RB: %v", err)
	}
	rbOpt, err := NewOption(rb, 300, European, Continuous)
	if err != nil {
		t.Fatalf("NewOption RB: %v", err)
	}
	if rbOpt.RiskNeutralProb != 0.5 {
		t.Errorf("RB p = %v, want 0.5", rbOpt.RiskNeutralProb)
	}
}

// TestAmericanDominatesEuropean: the American value is at least the European
// value at every node, with equality on the terminal column.
func TestAmericanDominatesEuropean(t *testing.T) {
	l, err := NewLattice(
		Asset{Spot: 100, Dividend: NoDividend()},
		0.05,
		Config{TimeToExpiry: 1, Steps: 50, Sigma: 0.20, Model: CRR},
	)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	eur, err := NewOption(l, 110, European, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	amer, err := NewOption(l, 110, American, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}

	eurTree := eur.Put()
	amerTree := amer.Put()
	for col := 0; col <= 50; col++ {
		for row := 0; row <= col; row++ {
			e, a := eurTree.At(row, col), amerTree.At(row, col)
			if a < e-1e-12 {
				t.Fatalf("node (%d,%d): american %v below european %v", row, col, a, e)
			}
			if col == 50 && !almostEqual(a, e, 1e-12) {
				t.Fatalf("terminal node %d: american %v != european %v", row, a, e)
			}
		}
	}
	if amerTree.At(0, 0) <= eurTree.At(0, 0) {
		t.Errorf("american put %v should exceed european put %v at the root",
			amerTree.At(0, 0), eurTree.At(0, 0))
	}
}

// Without dividends an American call is never exercised early, so its value
// collapses to the European one.
func TestAmericanCallNoDividendEqualsEuropean(t *testing.T) {
	l, err := NewLattice(
		Asset{Spot: 100, Dividend: NoDividend()},
		0.05,
		Config{TimeToExpiry: 1, Steps: 50, Sigma: 0.20, Model: CRR},
	)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}
	eur, err := NewOption(l, 95, European, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	amer, err := NewOption(l, 95, American, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	if e, a := eur.Value(Call), amer.Value(Call); !almostEqual(e, a, 1e-9) {
		t.Errorf("american call %v, european call %v", a, e)
	}
}

func TestPutCallParityNeedsOneSide(t *testing.T) {
	l := referenceLattice(t)
	opt, err := NewOption(l, 300, European, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}

	err = opt.PutCallParity()
	var calErr *CalibrationError
	if !errors.As(err, &calErr) {
		t.Fatalf("err = %v, want CalibrationError", err)
	}

	// After computing the call, parity fills in the put.
	opt.Call()
	if err := opt.PutCallParity(); err != nil {
		t.Fatalf("PutCallParity after Call: %v", err)
	}
	direct, err := NewOption(l, 300, European, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	if got, want := opt.Value(Put), direct.Put().At(0, 0); !almostEqual(got, want, 1e-9) {
		t.Errorf("parity put = %v, induction put = %v", got, want)
	}
}

func TestFastPathEuropeanOnly(t *testing.T) {
	l := referenceLattice(t)
	opt, err := NewOption(l, 300, American, Continuous)
	if err != nil {
		t.Fatalf("NewOption: %v", err)
	}
	if _, _, err := opt.FastPutCall(); err == nil {
		t.Fatal("FastPutCall on an American contract should fail")
	}
	if err := opt.PutCallParity(); err == nil {
		t.Fatal("PutCallParity on an American contract should fail")
	}
}

func TestOptionValidation(t *testing.T) {
	l := referenceLattice(t)
	if _, err := NewOption(nil, 300, European, Continuous); err == nil {
		t.Error("nil lattice should fail")
	}
	if _, err := NewOption(l, 0, European, Continuous); err == nil {
		t.Error("zero strike should fail")
	}
	if _, err := NewOption(l, 300, Style(9), Continuous); err == nil {
		t.Error("unknown style should fail")
	}
	if _, err := NewOption(l, 300, European, Discounting(9)); err == nil {
		t.Error("unknown discounting should fail")
	}
}
