// Package engine evaluates the valve gear formulas.
//
// ARCHITECTURE:
//
// Straight-Line Dataflow:
// The nine outputs are produced by a fixed array of steps. Step i reads raw
// inputs and outputs with index < i, and nothing else. There is no
// dependency resolver, no memoization and no recomputation:
//
//	WS  <- D
//	FPM <- S
//	BA  <- B
//	VPM <- FPM, BA
//	PA  <- VPM
//	PH  <- PA, W
//	HT  <- A, L, PH
//	TM  <- T, A, L
//	CLL <- S, HT, A, L
//
// Evaluation is pure: the same Inputs always yield the same Outputs.
//
// The engine never fails. Callers must run validate.CheckInputs first; a
// zero Port Width or Lap+Lead still produces Inf/NaN, which downstream
// checks do not treat as negative.
//
// CRITICAL PATTERNS:
//
// Literal constants (336, 60, 12, 144, 7874, math.Pi) and the operator
// grouping of each formula are kept as written so results stay comparable
// with other implementations to within double rounding.
package engine
