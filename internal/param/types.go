package param

// NumInputs and NumOutputs are the fixed sizes of the two collections.
const (
	NumInputs  = 7
	NumOutputs = 9
)

// InputID is the 1-based index of an input.
type InputID int

// Canonical input indices.
const (
	DriveWheelDiameter InputID = iota + 1
	PistonStroke
	Bore
	Lead
	Lap
	ValveTravel
	PortWidth
)

// OutputID is the 1-based index of an output.
type OutputID int

// Canonical output indices, in evaluation order.
const (
	WheelSpeed OutputID = iota + 1
	PistonSpeed
	BoreArea
	VolumeSweptPerMinute
	PortArea
	PortHeight
	HalfTravel
	TravelMargin
	CombinationLeverLength
)

// Input is one measured quantity.
type Input struct {
	Letter      string  `json:"letter"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Example     float64 `json:"example"`
	Value       float64 `json:"value"`
}

// Output is one derived quantity.
type Output struct {
	Letter string  `json:"letter"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// Inputs is a snapshot of input values, position i holding index i+1.
type Inputs [NumInputs]float64

// Outputs is a snapshot of output values, position i holding index i+1.
type Outputs [NumOutputs]float64

// Get returns the value at a canonical input index.
func (in Inputs) Get(id InputID) float64 { return in[id-1] }

// Get returns the value at a canonical output index.
func (out Outputs) Get(id OutputID) float64 { return out[id-1] }

var canonicalInputs = [NumInputs]Input{
	{Letter: "D", Name: "Drive Wheel Diameter", Description: "The drive wheel diameter.", Example: 66},
	{Letter: "S", Name: "Piston Stroke", Description: "The piston stroke.", Example: 26},
	{Letter: "B", Name: "Bore", Description: "The bore.", Example: 20.5},
	{Letter: "L", Name: "Lead", Description: "The lead.", Example: 0.858},
	{Letter: "A", Name: "Lap", Description: "The lap (covering port at mid).", Example: 3.39},
	{Letter: "T", Name: "Valve Travel", Description: "The valve travel.", Example: 5.5},
	{Letter: "W", Name: "Port Width", Description: "The port width.", Example: 18},
}

var canonicalOutputs = [NumOutputs]Output{
	{Letter: "WS", Name: "Wheel Speed"},
	{Letter: "FPM", Name: "Piston Speed"},
	{Letter: "BA", Name: "Bore Area"},
	{Letter: "VPM", Name: "Volume Swept per Minute"},
	{Letter: "PA", Name: "Port Area"},
	{Letter: "PH", Name: "Port Height"},
	{Letter: "HT", Name: "Half Travel"},
	{Letter: "TM", Name: "Travel Margin"},
	{Letter: "CLL", Name: "Combination Lever Length"},
}

// Name returns the canonical name of the input.
func (id InputID) Name() string { return canonicalInputs[id-1].Name }

// Letter returns the short code of the input.
func (id InputID) Letter() string { return canonicalInputs[id-1].Letter }

// Valid reports whether id is within 1..NumInputs.
func (id InputID) Valid() bool { return id >= 1 && id <= NumInputs }

// Name returns the canonical name of the output.
func (id OutputID) Name() string { return canonicalOutputs[id-1].Name }

// Letter returns the short code of the output.
func (id OutputID) Letter() string { return canonicalOutputs[id-1].Letter }

// Valid reports whether id is within 1..NumOutputs.
func (id OutputID) Valid() bool { return id >= 1 && id <= NumOutputs }

// ExampleInputs returns the reference values shipped with the canonical table.
func ExampleInputs() Inputs {
	var in Inputs
	for i, c := range canonicalInputs {
		in[i] = c.Example
	}
	return in
}
