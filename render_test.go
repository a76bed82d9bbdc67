package optiontree

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintTree(t *testing.T) {
	l, err := NewLattice(
		Asset{Spot: 300, Dividend: NoDividend()},
		0.08,
		Config{TimeToExpiry: 1.0 / 3, Steps: 2, Sigma: 0.30, Model: CRR},
	)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}

	var buf bytes.Buffer
	PrintTree(&buf, l.Prices(), "Underlying asset tree")
	out := buf.String()

	if !strings.Contains(out, "Underlying asset tree") {
		t.Errorf("output missing title:\n%s", out)
	}
	if !strings.Contains(out, "$300.00") {
		t.Errorf("output missing formatted root price:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	l, err := NewLattice(
		Asset{Spot: 300, Dividend: CashDividend(1.5, 2)},
		0.08,
		Config{TimeToExpiry: 1.0 / 3, Steps: 4, Sigma: 0.30, Model: CRR},
	)
	if err != nil {
		t.Fatalf("NewLattice: %v", err)
	}

	var buf bytes.Buffer
	l.Summary(&buf)
	out := buf.String()

	for _, want := range []string{"$300.00", "8.00%", "30.00%", "$1.50", "step 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	var none bytes.Buffer
	NoDividend().Describe(&none)
	if !strings.Contains(none.String(), "No dividend payment expected") {
		t.Errorf("no-dividend description unexpected: %s", none.String())
	}
}
