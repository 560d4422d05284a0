package cli

import (
	"encoding/json"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/param"
)

// Number is a float64 that survives JSON encoding.
// Finite values encode as numbers; NaN and infinities encode as strings.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(codec.FormatValue(v))
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// ValueView is one parameter in command output.
type ValueView struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
	Name   string `json:"name"`
	Value  Number `json:"value"`
}

func inputViews(in param.Inputs) []ValueView {
	views := make([]ValueView, 0, param.NumInputs)
	for i, v := range in {
		id := param.InputID(i + 1)
		views = append(views, ValueView{Index: int(id), Letter: id.Letter(), Name: id.Name(), Value: Number(v)})
	}
	return views
}

func outputViews(out param.Outputs) []ValueView {
	views := make([]ValueView, 0, param.NumOutputs)
	for i, v := range out {
		id := param.OutputID(i + 1)
		views = append(views, ValueView{Index: int(id), Letter: id.Letter(), Name: id.Name(), Value: Number(v)})
	}
	return views
}

var printer = message.NewPrinter(language.English)

// displayValue formats a computed value for people: grouped digits and four
// decimals. Saved files keep the exact form from codec.FormatValue.
func displayValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return codec.FormatValue(v)
	}
	return printer.Sprintf("%.4f", v)
}

// valuesTable renders values as index, letter, name and value columns.
func valuesTable(title string, views []ValueView, format func(float64) string) *Table {
	t := NewTable(title, "#", "Sym", "Name", "Value")
	for _, v := range views {
		t.AddRow(strconv.Itoa(v.Index), v.Letter, v.Name, format(float64(v.Value)))
	}
	return t
}
