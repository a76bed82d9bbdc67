package optiontree

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/leekchan/accounting"
	"gonum.org/v1/gonum/mat"
)

// PrintTree writes a readable view of a price or value lattice to w, one
// column per time step and one row per node. Presentation only; the matrix
// is not modified.
func PrintTree(w io.Writer, tree mat.Matrix, title string) {
	ac := accounting.Accounting{Symbol: "$", Precision: 2}
	rows, cols := tree.Dims()

	fmt.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "step")
	for col := 0; col < cols; col++ {
		fmt.Fprintf(tw, "\t%d", col)
	}
	fmt.Fprintln(tw, "\t")
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if row <= col {
				fmt.Fprintf(tw, "\t%s", ac.FormatMoney(tree.At(row, col)))
			} else {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintln(tw, "\t")
	}
	tw.Flush()
}
