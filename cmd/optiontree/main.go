// Command optiontree prices a sample contract on a binomial lattice and
// strips the early exercise premium out of an American price.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/leekchan/accounting"

	optiontree "github.com/Finsinyur/PyOptionTree"
)

func main() {
	// Reference scenario: spot 300, 8% rate, four months to expiry on a
	// four-step CRR tree at 30% volatility.
	asset := optiontree.Asset{Spot: 300, Dividend: optiontree.NoDividend()}
	cfg := optiontree.Config{
		TimeToExpiry: 1.0 / 3,
		Steps:        4,
		Sigma:        0.30,
		Model:        optiontree.CRR,
	}

	lattice, err := optiontree.NewLattice(asset, 0.08, cfg)
	if err != nil {
		log.Fatal(err)
	}
	for _, warn := range lattice.Warnings {
		fmt.Println("warning:", warn.Message)
	}

	lattice.Summary(os.Stdout)
	optiontree.PrintTree(os.Stdout, lattice.Prices(), "Underlying asset tree")

	european, err := optiontree.NewOption(lattice, 300, optiontree.European, optiontree.Continuous)
	if err != nil {
		log.Fatal(err)
	}
	call, put, err := european.FastPutCall()
	if err != nil {
		log.Fatal(err)
	}

	ac := accounting.Accounting{Symbol: "$", Precision: 2}
	fmt.Println("European call:", ac.FormatMoney(call))
	fmt.Println("European put: ", ac.FormatMoney(put))

	american, err := optiontree.NewOption(lattice, 300, optiontree.American, optiontree.Continuous)
	if err != nil {
		log.Fatal(err)
	}
	putTree := american.Put()
	optiontree.PrintTree(os.Stdout, putTree, "American put tree")
	fmt.Println("American put: ", ac.FormatMoney(american.Value(optiontree.Put)))

	// Treat the American put value as a market quote and back out the
	// early exercise premium it carries.
	res, err := optiontree.Deamericanize(optiontree.CalibrateParams{
		Observed:     american.Value(optiontree.Put),
		Spot:         300,
		Strike:       300,
		Rate:         0.08,
		TimeToExpiry: 1.0 / 3,
		Steps:        4,
		Model:        optiontree.CRR,
		Dividend:     optiontree.NoDividend(),
		Payoff:       optiontree.Put,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Calibrated up-factor: %.6f (implied vol %.2f%%)\n", res.U, res.ImpliedVol*100)
	fmt.Println("Equivalent European: ", ac.FormatMoney(res.EquivalentEuropean))
	fmt.Println("Early exercise premium:", ac.FormatMoney(res.Premium))
}
