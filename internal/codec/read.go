package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/roach88/valvegear/internal/param"
)

// ErrNotFound is returned when the source to load cannot be opened.
var ErrNotFound = errors.New("no file found")

// maxLineSize bounds a single line of an inputs file.
const maxLineSize = 1 << 20

// Resolution is the outcome of loading one input.
type Resolution string

const (
	// Matched: a line carried the label and a numeric literal.
	Matched Resolution = "matched"
	// Fallback: a line carried the label but no literal; value set to 0.
	Fallback Resolution = "fallback"
	// Unmatched: no line carried the label; value left unchanged.
	Unmatched Resolution = "unmatched"
)

// LoadReport records how each input was resolved, by index.
type LoadReport struct {
	Resolutions [param.NumInputs]Resolution `json:"resolutions"`
}

// Resolution returns how the given input was resolved.
func (r LoadReport) Resolution(id param.InputID) Resolution {
	return r.Resolutions[id-1]
}

// Count returns the number of inputs with the given resolution.
func (r LoadReport) Count(res Resolution) int {
	n := 0
	for _, v := range r.Resolutions {
		if v == res {
			n++
		}
	}
	return n
}

// ReadLines reads every line of r, without line terminators.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// ReadInputs resolves every input of m against the lines of r.
// Each input is handled independently; nothing is rolled back.
func ReadInputs(r io.Reader, m *param.Model) (LoadReport, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return LoadReport{}, err
	}
	return ApplyLines(lines, m), nil
}

// ApplyLines resolves every input of m against lines.
func ApplyLines(lines []string, m *param.Model) LoadReport {
	var report LoadReport
	for id, in := range m.Inputs() {
		v, res := lookup(lines, in.Name)
		report.Resolutions[id-1] = res
		if res != Unmatched {
			// id comes from the model's own iterator, so it is in range.
			_ = m.SetInput(id, v)
		}
	}
	return report
}

// lookup finds the first line starting with "<name>:" and parses its value.
func lookup(lines []string, name string) (float64, Resolution) {
	key := name + ":"
	for _, line := range lines {
		if !strings.HasPrefix(line, key) {
			continue
		}
		_, rest, _ := strings.Cut(line, ":")
		v, ok := ParseLeading(strings.TrimLeftFunc(rest, unicode.IsSpace))
		if !ok {
			return 0, Fallback
		}
		return v, Matched
	}
	return 0, Unmatched
}

// ParseLeading parses the longest decimal floating-point literal at the
// start of s. Trailing text is ignored. ok is false, with v = 0, when s
// does not start with a literal or the literal is out of range.
func ParseLeading(s string) (v float64, ok bool) {
	n := scanLiteral(s)
	if n == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// scanLiteral returns the length of the literal [+-]digits[.digits][e[+-]digits]
// at the start of s, or 0 if there is none.
func scanLiteral(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - intStart
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if digits > 0 || j > i+1 {
			digits += j - i - 1
			i = j
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// LoadInputsFile loads inputs from the file at path into m.
// If the file cannot be opened, m is not touched and the returned error
// wraps ErrNotFound.
func LoadInputsFile(path string, m *param.Model) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadReport{}, fmt.Errorf("load %s: %w: %w", path, ErrNotFound, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return LoadReport{}, fmt.Errorf("load %s: %w", path, err)
	}
	return ApplyLines(lines, m), nil
}
