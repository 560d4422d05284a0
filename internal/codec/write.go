package codec

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"

	"github.com/roach88/valvegear/internal/param"
)

// Record is one labelled value.
type Record struct {
	Name  string
	Value float64
}

// FormatValue renders a value the way it is persisted.
// Uses the shortest text that parses back to the same float64.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Write emits one "<name>: <value>" line per record.
func Write(w io.Writer, records iter.Seq[Record]) error {
	bw := bufio.NewWriter(w)
	for r := range records {
		if _, err := fmt.Fprintf(bw, "%s: %s\n", r.Name, FormatValue(r.Value)); err != nil {
			return fmt.Errorf("write %q: %w", r.Name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: flush: %w", err)
	}
	return nil
}

// InputRecords yields the model's inputs as records in index order.
func InputRecords(m *param.Model) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, in := range m.Inputs() {
			if !yield(Record{Name: in.Name, Value: in.Value}) {
				return
			}
		}
	}
}

// OutputRecords yields the model's outputs as records in index order.
func OutputRecords(m *param.Model) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, out := range m.Outputs() {
			if !yield(Record{Name: out.Name, Value: out.Value}) {
				return
			}
		}
	}
}

// WriteInputs writes the model's inputs.
func WriteInputs(w io.Writer, m *param.Model) error {
	return Write(w, InputRecords(m))
}

// WriteOutputs writes the model's outputs.
func WriteOutputs(w io.Writer, m *param.Model) error {
	return Write(w, OutputRecords(m))
}

// SaveFile truncates (or creates) path and hands it to write.
// The parent directory must already exist.
func SaveFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("save %s: close: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
