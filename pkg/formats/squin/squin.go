// Package squin reads and writes circuits as squin kernel source: the Python
// function decorated with @squin.kernel that bloqade compiles.
//
// The reader understands the straight-line subset that kernels used for
// demonstrations are written in:
//
//	@squin.kernel
//	def ghz():
//	    q = squin.qalloc(3)
//	    squin.h(q[0])
//	    for i in range(2):
//	        squin.cx(q[i], q[i + 1])
//	    squin.rz(math.pi / 4, q[2])
//	    return squin.measure(q)
//
// Register allocation, gate calls with q[expr] arguments, rotation calls with
// the angle first, for-range loops (nested allowed) and measurements of the
// whole register or a single qubit are supported. Docstrings and comments are
// skipped, as is everything after the first return. Any other squin call fails with UNSUPPORTED_GATE; any other
// statement fails with INVALID_FORMAT.
package squin

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats"
)

// Format implements [formats.Encoder] for squin kernel source.
type Format struct{}

// Name returns "squin".
func (Format) Name() string { return "squin" }

// Supports matches *.squin and *.squin.py files.
func (Format) Supports(filename string) bool {
	return formats.HasExt(filename, ".squin", ".squin.py")
}

// Extension returns ".squin.py".
func (Format) Extension() string { return ".squin.py" }

var gateNames = map[string]circuit.GateKind{
	"h":       circuit.KindH,
	"x":       circuit.KindX,
	"y":       circuit.KindY,
	"z":       circuit.KindZ,
	"s":       circuit.KindS,
	"t":       circuit.KindT,
	"rx":      circuit.KindRX,
	"ry":      circuit.KindRY,
	"rz":      circuit.KindRZ,
	"cx":      circuit.KindCX,
	"cnot":    circuit.KindCX,
	"cz":      circuit.KindCZ,
	"swap":    circuit.KindSWAP,
	"ccx":     circuit.KindCCX,
	"toffoli": circuit.KindCCX,
}

var (
	defRegex     = regexp.MustCompile(`^def\s+([A-Za-z_]\w*)\s*\(\s*\)\s*(->\s*[^:]+)?:$`)
	allocRegex   = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=\s*squin\.(?:qalloc|qubit\.new)\((.+)\)$`)
	forRegex     = regexp.MustCompile(`^for\s+([A-Za-z_]\w*)\s+in\s+range\((.+)\):$`)
	callRegex    = regexp.MustCompile(`^(?:return\s+|[A-Za-z_]\w*\s*=\s*)?squin\.([A-Za-z_][\w.]*)\((.*)\)$`)
	qubitRegex   = regexp.MustCompile(`^([A-Za-z_]\w*)\[(.+)\]$`)
	decoratorTag = "@squin.kernel"
)

// line is one logical source line with its indentation width.
type line struct {
	no     int
	indent int
	text   string
}

// Decode parses the first kernel found in data.
func (Format) Decode(data []byte, name string) (*circuit.Circuit, error) {
	kernel, body, err := extractKernel(string(data))
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = kernel
	}

	in := &interpreter{name: name}
	if err := in.block(body, map[string]int{}); err != nil {
		return nil, err
	}
	if in.c == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "squin: kernel %s allocates no qubits", kernel)
	}
	return in.c, nil
}

// extractKernel returns the function name and the body lines of the first
// decorated kernel, or of the first function when nothing is decorated.
func extractKernel(src string) (string, []line, error) {
	lines := logicalLines(src)

	start := -1
	for i, l := range lines {
		if l.text == decoratorTag && i+1 < len(lines) && defRegex.MatchString(lines[i+1].text) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		for i, l := range lines {
			if defRegex.MatchString(l.text) {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return "", nil, errors.New(errors.ErrCodeInvalidFormat, "squin: no kernel function found")
	}

	def := lines[start]
	kernel := defRegex.FindStringSubmatch(def.text)[1]
	var body []line
	for _, l := range lines[start+1:] {
		if l.indent <= def.indent {
			break
		}
		body = append(body, l)
	}
	if len(body) == 0 {
		return "", nil, errors.New(errors.ErrCodeInvalidFormat, "squin: kernel %s has an empty body", kernel)
	}
	return kernel, body, nil
}

// logicalLines strips comments, blank lines and docstrings.
func logicalLines(src string) []line {
	var (
		out      []line
		inDoc    bool
		docQuote string
	)
	for i, raw := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		raw = expandTabs(raw)
		trimmed := strings.TrimSpace(raw)

		if inDoc {
			if strings.Contains(trimmed, docQuote) {
				inDoc = false
			}
			continue
		}
		if q := docstringQuote(trimmed); q != "" {
			if strings.Count(trimmed, q) == 1 {
				inDoc, docQuote = true, q
			}
			continue
		}

		if j := strings.IndexByte(trimmed, '#'); j >= 0 {
			trimmed = strings.TrimSpace(trimmed[:j])
		}
		if trimmed == "" {
			continue
		}
		out = append(out, line{
			no:     i + 1,
			indent: len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace)),
			text:   trimmed,
		})
	}
	return out
}

func docstringQuote(s string) string {
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, q) {
			return q
		}
	}
	return ""
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

type interpreter struct {
	name string
	reg  string
	c    *circuit.Circuit

	// returned is set once a return statement runs; nothing after it is
	// interpreted.
	returned bool
}

func (in *interpreter) errorf(l line, code errors.Code, format string, args ...any) error {
	return errors.New(code, "squin: line %d: %s", l.no, fmt.Sprintf(format, args...))
}

// block executes lines that share the indentation of the first one. Deeper
// lines belong to the preceding for statement.
func (in *interpreter) block(lines []line, vars map[string]int) error {
	for i := 0; i < len(lines) && !in.returned; i++ {
		l := lines[i]
		m := forRegex.FindStringSubmatch(l.text)
		if m == nil {
			if err := in.statement(l, vars); err != nil {
				return err
			}
			if l.text == "return" || strings.HasPrefix(l.text, "return ") {
				in.returned = true
			}
			continue
		}

		j := i + 1
		for j < len(lines) && lines[j].indent > l.indent {
			j++
		}
		body := lines[i+1 : j]
		if len(body) == 0 {
			return in.errorf(l, errors.ErrCodeInvalidFormat, "for loop without body")
		}
		lo, hi, err := in.rangeBounds(l, m[2], vars)
		if err != nil {
			return err
		}
		for v := lo; v < hi && !in.returned; v++ {
			inner := make(map[string]int, len(vars)+1)
			for k, x := range vars {
				inner[k] = x
			}
			inner[m[1]] = v
			if err := in.block(body, inner); err != nil {
				return err
			}
		}
		i = j - 1
	}
	return nil
}

func (in *interpreter) rangeBounds(l line, args string, vars map[string]int) (int, int, error) {
	parts := splitArgs(args)
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := in.intExpr(l, p, vars)
		if err != nil {
			return 0, 0, err
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return 0, vals[0], nil
	case 2:
		return vals[0], vals[1], nil
	default:
		return 0, 0, in.errorf(l, errors.ErrCodeInvalidFormat, "range takes one or two arguments")
	}
}

func (in *interpreter) intExpr(l line, expr string, vars map[string]int) (int, error) {
	if in.reg != "" && in.c != nil {
		if strings.ReplaceAll(expr, " ", "") == "len("+in.reg+")" {
			return in.c.NumQubits(), nil
		}
	}
	v, err := formats.EvalInt(expr, vars)
	if err != nil {
		return 0, in.errorf(l, errors.ErrCodeInvalidFormat, "%s", errors.UserMessage(err))
	}
	return v, nil
}

func (in *interpreter) statement(l line, vars map[string]int) error {
	if m := allocRegex.FindStringSubmatch(l.text); m != nil {
		if in.c != nil {
			return in.errorf(l, errors.ErrCodeInvalidFormat, "kernel allocates qubits twice")
		}
		n, err := in.intExpr(l, m[2], vars)
		if err != nil {
			return err
		}
		c, err := circuit.New(n, in.name)
		if err != nil {
			return err
		}
		in.reg, in.c = m[1], c
		return nil
	}

	if l.text == "return" || l.text == "pass" {
		return nil
	}

	m := callRegex.FindStringSubmatch(l.text)
	if m == nil {
		return in.errorf(l, errors.ErrCodeInvalidFormat, "unsupported statement %q", l.text)
	}
	if in.c == nil {
		return in.errorf(l, errors.ErrCodeInvalidFormat, "gate before qalloc")
	}
	fn, args := m[1], splitArgs(m[2])

	if fn == "measure" {
		return in.measure(l, args, vars)
	}

	kind, ok := gateNames[fn]
	if !ok {
		return formats.Unsupported("squin", fmt.Sprintf("squin.%s (line %d)", fn, l.no))
	}

	g := circuit.Gate{Kind: kind}
	if kind.IsRotation() {
		if len(args) != 2 {
			return in.errorf(l, errors.ErrCodeInvalidFormat, "squin.%s takes an angle and a qubit", fn)
		}
		fv := make(map[string]float64, len(vars))
		for k, v := range vars {
			fv[k] = float64(v)
		}
		angle, err := formats.Eval(args[0], fv)
		if err != nil {
			return in.errorf(l, errors.ErrCodeInvalidFormat, "%s", errors.UserMessage(err))
		}
		g.Angle = angle
		args = args[1:]
	}

	for _, a := range args {
		q, err := in.qubit(l, a, vars)
		if err != nil {
			return err
		}
		g.Qubits = append(g.Qubits, q)
	}
	if err := in.c.Append(g); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "squin: line %d", l.no)
	}
	return nil
}

func (in *interpreter) measure(l line, args []string, vars map[string]int) error {
	if len(args) != 1 {
		return in.errorf(l, errors.ErrCodeInvalidFormat, "squin.measure takes one argument")
	}
	if args[0] == in.reg {
		return in.c.MeasureAll()
	}
	q, err := in.qubit(l, args[0], vars)
	if err != nil {
		return err
	}
	if err := in.c.Measure(q); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "squin: line %d", l.no)
	}
	return nil
}

func (in *interpreter) qubit(l line, arg string, vars map[string]int) (int, error) {
	m := qubitRegex.FindStringSubmatch(strings.TrimSpace(arg))
	if m == nil || m[1] != in.reg {
		return 0, in.errorf(l, errors.ErrCodeInvalidFormat, "expected %s[index], got %q", in.reg, arg)
	}
	return in.intExpr(l, m[2], vars)
}

// splitArgs splits a call argument list on top-level commas.
func splitArgs(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		out = append(out, last)
	}
	return out
}
