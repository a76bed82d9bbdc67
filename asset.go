package optiontree

import (
	"fmt"
	"io"
	"time"

	"github.com/leekchan/accounting"
)

// Asset describes the underlying asset of an option contract.
type Asset struct {
	Spot     float64
	Dividend DividendSpec
}

// DividendSpec is the dividend payable over the life of the contract: none, a
// known dollar amount, or a proportional yield. A dollar dividend carries an
// ex-dividend trigger, either a step index on the lattice or a calendar date.
// Date triggers are resolved to step indices with ResolveExDate before a
// lattice is built.
type DividendSpec struct {
	Dollar float64   // known dollar dividend
	Yield  float64   // proportional dividend yield
	ExStep int       // ex-dividend step index; negative when not scheduled
	ExDate time.Time // ex-dividend date; zero when not scheduled
}

// NoDividend reports that no dividend is expected during the contract.
func NoDividend() DividendSpec {
	return DividendSpec{ExStep: -1}
}

// CashDividend is a known dollar dividend going ex at the given lattice step.
func CashDividend(amount float64, exStep int) DividendSpec {
	return DividendSpec{Dollar: amount, ExStep: exStep}
}

// CashDividendOnDate is a known dollar dividend going ex on the given date.
// Resolve it to a step with ResolveExDate before building a lattice.
func CashDividendOnDate(amount float64, exDate time.Time) DividendSpec {
	return DividendSpec{Dollar: amount, ExStep: -1, ExDate: exDate}
}

// YieldDividend is a proportional dividend yield applied as a single haircut
// across the whole lattice.
func YieldDividend(rate float64) DividendSpec {
	return DividendSpec{Yield: rate, ExStep: -1}
}

func (d DividendSpec) validate() error {
	if d.Dollar != 0 && d.Yield != 0 {
		return configErrf("dollar dividend and dividend yield cannot both be set")
	}
	if d.ExStep >= 0 && !d.ExDate.IsZero() {
		return configErrf("ex-dividend date and ex-dividend step cannot both be set")
	}
	if !d.ExDate.IsZero() {
		return configErrf("ex-dividend date %s has not been resolved to a step: call ResolveExDate first",
			d.ExDate.Format("2006-01-02"))
	}
	return nil
}

// Describe writes a short account of the dividend payment to w.
func (d DividendSpec) Describe(w io.Writer) {
	ac := accounting.Accounting{Symbol: "$", Precision: 2}
	switch {
	case d.Dollar != 0 && !d.ExDate.IsZero():
		fmt.Fprintf(w, "Dollar dividend of %s, ex-dividend on %s.\n",
			ac.FormatMoney(d.Dollar), d.ExDate.Format("2006-01-02"))
	case d.Dollar != 0 && d.ExStep >= 0:
		fmt.Fprintf(w, "Dollar dividend of %s, ex-dividend at step %d.\n",
			ac.FormatMoney(d.Dollar), d.ExStep)
	case d.Yield != 0:
		fmt.Fprintf(w, "Dividend yield of %.2f%%.\n", d.Yield*100)
	default:
		fmt.Fprintln(w, "No dividend payment expected during the course of the contract.")
	}
}
