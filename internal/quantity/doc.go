// Package quantity implements physical quantities with uncertainty.
//
// A [Quantity] carries a value, its one-sigma error and a dimension vector
// over length, time, mass, current, temperature and currency. Values are
// always stored in canonical base units (meter, second, gram, ampere,
// kelvin, currency) whatever units were used to build them; [Quantity.Convert]
// and the formatters translate back only on output.
//
//	speed := quantity.MustNew(10, 0, "meter/second")
//	drift := quantity.MustNew(2, 0, "yard/minute")
//	sum, err := speed.Add(drift)
//	kmh, err := sum.Convert("kilometer/hour") // (36.109728 ± 0)
//
// # Error Propagation
//
// Errors propagate to first order assuming independent operands. Each
// quantity has an origin token shared only by copies of the same value, so
// a.Add(a) and a.Mul(a) use the fully correlated formulas (2·da and 2·da·|a|)
// while two separately built quantities with equal contents stay
// independent. Results of operations always get a fresh origin.
package quantity
