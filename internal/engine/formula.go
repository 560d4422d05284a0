package engine

import (
	"math"

	"github.com/roach88/valvegear/internal/param"
)

// Step describes one formula in the pipeline.
type Step struct {
	// Output is the index this step writes.
	Output param.OutputID

	// Inputs and Outputs list what the formula reads.
	// Every entry in Outputs has a lower index than Output.
	Inputs  []param.InputID
	Outputs []param.OutputID

	eval func(in param.Inputs, out *param.Outputs) float64
}

// pipeline is the evaluation sequence. Order is significant.
var pipeline = [param.NumOutputs]Step{
	{
		Output: param.WheelSpeed,
		Inputs: []param.InputID{param.DriveWheelDiameter},
		eval: func(in param.Inputs, _ *param.Outputs) float64 {
			return (in.Get(param.DriveWheelDiameter) * math.Pi * 336 * 60) / 12
		},
	},
	{
		Output: param.PistonSpeed,
		Inputs: []param.InputID{param.PistonStroke},
		eval: func(in param.Inputs, _ *param.Outputs) float64 {
			return (336 * 2 * in.Get(param.PistonStroke)) / 12
		},
	},
	{
		Output: param.BoreArea,
		Inputs: []param.InputID{param.Bore},
		eval: func(in param.Inputs, _ *param.Outputs) float64 {
			return math.Pi * math.Pow(in.Get(param.Bore)/2, 2)
		},
	},
	{
		Output:  param.VolumeSweptPerMinute,
		Outputs: []param.OutputID{param.PistonSpeed, param.BoreArea},
		eval: func(_ param.Inputs, out *param.Outputs) float64 {
			return (out.Get(param.PistonSpeed) * out.Get(param.BoreArea)) / 144
		},
	},
	{
		Output:  param.PortArea,
		Outputs: []param.OutputID{param.VolumeSweptPerMinute},
		eval: func(_ param.Inputs, out *param.Outputs) float64 {
			return out.Get(param.VolumeSweptPerMinute) / 7874
		},
	},
	{
		Output:  param.PortHeight,
		Inputs:  []param.InputID{param.PortWidth},
		Outputs: []param.OutputID{param.PortArea},
		eval: func(in param.Inputs, out *param.Outputs) float64 {
			return (out.Get(param.PortArea) * 12.0) / in.Get(param.PortWidth)
		},
	},
	{
		Output:  param.HalfTravel,
		Inputs:  []param.InputID{param.Lap, param.Lead},
		Outputs: []param.OutputID{param.PortHeight},
		eval: func(in param.Inputs, out *param.Outputs) float64 {
			return in.Get(param.Lap) + in.Get(param.Lead) + out.Get(param.PortHeight)
		},
	},
	{
		Output: param.TravelMargin,
		Inputs: []param.InputID{param.ValveTravel, param.Lap, param.Lead},
		eval: func(in param.Inputs, _ *param.Outputs) float64 {
			return in.Get(param.ValveTravel) - (in.Get(param.Lap) + in.Get(param.Lead))
		},
	},
	{
		Output:  param.CombinationLeverLength,
		Inputs:  []param.InputID{param.PistonStroke, param.Lap, param.Lead},
		Outputs: []param.OutputID{param.HalfTravel},
		eval: func(in param.Inputs, out *param.Outputs) float64 {
			lapLead := in.Get(param.Lap) + in.Get(param.Lead)
			return (in.Get(param.PistonStroke) * out.Get(param.HalfTravel)) / (2.0 * (lapLead / 2.0))
		},
	},
}

// Steps returns the pipeline in evaluation order.
func Steps() []Step {
	steps := make([]Step, len(pipeline))
	copy(steps, pipeline[:])
	return steps
}

// Compute evaluates all nine formulas in order.
func Compute(in param.Inputs) param.Outputs {
	return ComputeEach(in, nil)
}

// ComputeEach evaluates all nine formulas in order, calling visit (if non-nil)
// after each value is produced.
func ComputeEach(in param.Inputs, visit func(Step, float64)) param.Outputs {
	var out param.Outputs
	for _, s := range pipeline {
		v := s.eval(in, &out)
		out[s.Output-1] = v
		if visit != nil {
			visit(s, v)
		}
	}
	return out
}
