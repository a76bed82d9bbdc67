// Package optiontree prices European and American options on recombining
// binomial lattices.
//
// A Lattice holds the price tree of the underlying asset, built from the spot
// price, the interest rate and either an up-factor or a volatility under the
// Cox-Ross-Rubinstein or Rendleman-Bartter parameterization, with optional
// adjustment for a scheduled dividend. An Option values a contract on a
// lattice by backward induction; European contracts also have a closed-form
// fast path over the terminal binomial distribution. The calibration
// functions recover the up-factor implied by an observed market price with a
// bracketing root-finder, and Deamericanize extracts the early exercise
// premium embedded in an American price.
//
// Lattices are immutable once built and may be shared across any number of
// option valuations on the same underlying.
package optiontree
