// Package param holds the ordered parameter model for valve gear sizing.
//
// The model has exactly NumInputs measured inputs and NumOutputs derived
// outputs, addressed by stable 1-based index. Both collections are fixed
// arrays; there is no insertion, removal or reordering.
//
// Key design constraints:
//   - Index order is the only dependency mechanism between outputs
//   - Canonical names are the join key for text persistence and must not change
//   - A zero value means both "not entered" and "invalid"; callers cannot tell them apart
//
// param imports nothing internal. Every other internal package builds on it.
package param
