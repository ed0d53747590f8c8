// Package qasm reads and writes the OpenQASM 2.0 subset that maps onto the
// circuit model.
//
// Grammar accepted by the reader:
//
//	program   ::= header? statement*
//	header    ::= "OPENQASM" version ";" | "include" string ";"
//	statement ::= qreg | creg | gate | measure | barrier
//	qreg      ::= "qreg" id "[" int "]" ";"
//	creg      ::= "creg" id "[" int "]" ";"
//	gate      ::= name ("(" expr ")")? arg ("," arg)* ";"
//	measure   ::= "measure" arg "->" arg ";"
//	barrier   ::= "barrier" arg ("," arg)* ";"
//	arg       ::= id ("[" int "]")?
//
// Several quantum registers are laid out one after the other. A bare register
// argument broadcasts a single-qubit gate or measurement over the register.
// Gate definitions, conditionals, reset and opaque gates are rejected.
package qasm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats"
)

// DefaultName is used when the caller does not name the circuit.
const DefaultName = "QASM Circuit"

// Format implements [formats.Encoder] for OpenQASM 2.0.
type Format struct{}

// Name returns "qasm".
func (Format) Name() string { return "qasm" }

// Supports matches *.qasm files.
func (Format) Supports(filename string) bool { return formats.HasExt(filename, ".qasm") }

// Extension returns ".qasm".
func (Format) Extension() string { return ".qasm" }

var (
	regRegex     = regexp.MustCompile(`^(qreg|creg)\s+([A-Za-z_]\w*)\s*\[\s*(\d+)\s*\]$`)
	gateRegex    = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:\((.*)\)\s*|\s+)(.+)$`)
	measureRegex = regexp.MustCompile(`^measure\s+(.+?)\s*->\s*(.+)$`)
	argRegex     = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:\[\s*(\d+)\s*\])?$`)
)

var gateNames = map[string]circuit.GateKind{
	"h":    circuit.KindH,
	"x":    circuit.KindX,
	"y":    circuit.KindY,
	"z":    circuit.KindZ,
	"s":    circuit.KindS,
	"t":    circuit.KindT,
	"rx":   circuit.KindRX,
	"ry":   circuit.KindRY,
	"rz":   circuit.KindRZ,
	"cx":   circuit.KindCX,
	"CX":   circuit.KindCX,
	"cz":   circuit.KindCZ,
	"swap": circuit.KindSWAP,
	"ccx":  circuit.KindCCX,
}

type register struct {
	offset int
	size   int
}

type statement struct {
	line       int
	text       string
	unfinished bool // no terminating ';'
}

type parser struct {
	name  string
	qregs map[string]register
	cregs map[string]int
	total int
	c     *circuit.Circuit
	errs  []error
}

// Decode parses an OpenQASM 2.0 program. All statement errors are collected
// and reported together; the code of the first one is returned.
func (Format) Decode(data []byte, name string) (*circuit.Circuit, error) {
	if name == "" {
		name = DefaultName
	}
	p := &parser{
		name:  name,
		qregs: map[string]register{},
		cregs: map[string]int{},
	}
	for _, st := range statements(string(data)) {
		if err := p.statement(st); err != nil {
			p.errs = append(p.errs, err)
		}
	}

	if len(p.errs) > 0 {
		msgs := make([]string, len(p.errs))
		for i, err := range p.errs {
			msgs[i] = errors.UserMessage(err)
		}
		code := errors.GetCode(p.errs[0])
		if code == "" {
			code = errors.ErrCodeInvalidFormat
		}
		return nil, errors.New(code, "qasm: %s", strings.Join(msgs, "; "))
	}
	if p.c == nil {
		if err := p.ensureCircuit(statement{}); err != nil {
			return nil, err
		}
	}
	return p.c, nil
}

// statements splits source into ';'-terminated statements, dropping //
// comments. A trailing statement without ';' is kept so it can be reported.
func statements(src string) []statement {
	var (
		out   []statement
		buf   strings.Builder
		start int
	)
	for i, raw := range strings.Split(src, "\n") {
		if j := strings.Index(raw, "//"); j >= 0 {
			raw = raw[:j]
		}
		for _, r := range raw {
			if buf.Len() == 0 && (r == ' ' || r == '\t' || r == '\r') {
				continue
			}
			if buf.Len() == 0 {
				start = i + 1
			}
			if r == ';' {
				out = append(out, statement{line: start, text: strings.TrimSpace(buf.String())})
				buf.Reset()
				continue
			}
			buf.WriteRune(r)
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		out = append(out, statement{line: start, text: rest, unfinished: true})
	}
	return out
}

func (p *parser) errorf(st statement, code errors.Code, format string, args ...any) error {
	return errors.New(code, "line %d: %s", st.line, fmt.Sprintf(format, args...))
}

func (p *parser) statement(st statement) error {
	text := st.text
	switch {
	case text == "":
		return nil
	case strings.HasPrefix(text, "OPENQASM"):
		if !strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(text, "OPENQASM")), "2") {
			return p.errorf(st, errors.ErrCodeInvalidFormat, "only OpenQASM 2 is supported")
		}
		return nil
	case strings.HasPrefix(text, "include"):
		return nil
	case st.unfinished:
		return p.errorf(st, errors.ErrCodeInvalidFormat, "statement %q is not terminated", text)
	case strings.ContainsAny(text, "{}"):
		return p.errorf(st, errors.ErrCodeUnsupportedGate, "gate definitions are not supported")
	case strings.HasPrefix(text, "barrier"):
		return nil
	}

	if m := regRegex.FindStringSubmatch(text); m != nil {
		size, _ := strconv.Atoi(m[3])
		return p.declare(st, m[1], m[2], size)
	}
	if m := measureRegex.FindStringSubmatch(text); m != nil {
		return p.measure(st, m[1], m[2])
	}

	m := gateRegex.FindStringSubmatch(text)
	if m == nil {
		return p.errorf(st, errors.ErrCodeInvalidFormat, "cannot parse %q", text)
	}
	kind, ok := gateNames[m[1]]
	if !ok {
		return errors.New(errors.ErrCodeUnsupportedGate, "line %d: unsupported gate %s", st.line, m[1])
	}
	return p.gate(st, kind, m[2], m[3])
}

func (p *parser) declare(st statement, kind, name string, size int) error {
	if size < 1 {
		return p.errorf(st, errors.ErrCodeInvalidInput, "register %s has size %d", name, size)
	}
	if kind == "creg" {
		p.cregs[name] = size
		return nil
	}
	if p.c != nil {
		return p.errorf(st, errors.ErrCodeInvalidFormat, "qreg %s declared after the first gate", name)
	}
	if _, dup := p.qregs[name]; dup {
		return p.errorf(st, errors.ErrCodeInvalidFormat, "qreg %s declared twice", name)
	}
	if size > circuit.MaxQubits-p.total {
		return p.errorf(st, errors.ErrCodeInvalidInput, "qreg %s brings the circuit past %d qubits", name, circuit.MaxQubits)
	}
	p.qregs[name] = register{offset: p.total, size: size}
	p.total += size
	return nil
}

func (p *parser) ensureCircuit(st statement) error {
	if p.c != nil {
		return nil
	}
	if p.total == 0 {
		return p.errorf(st, errors.ErrCodeInvalidInput, "no qreg declared")
	}
	c, err := circuit.New(p.total, p.name)
	if err != nil {
		return err
	}
	p.c = c
	return nil
}

// qubits resolves an argument to absolute indices. A bare register expands
// to every qubit in it.
func (p *parser) qubits(st statement, arg string) ([]int, error) {
	m := argRegex.FindStringSubmatch(strings.TrimSpace(arg))
	if m == nil {
		return nil, p.errorf(st, errors.ErrCodeInvalidFormat, "bad argument %q", arg)
	}
	reg, ok := p.qregs[m[1]]
	if !ok {
		return nil, p.errorf(st, errors.ErrCodeInvalidFormat, "unknown qreg %s", m[1])
	}
	if m[2] == "" {
		out := make([]int, reg.size)
		for i := range out {
			out[i] = reg.offset + i
		}
		return out, nil
	}
	i, _ := strconv.Atoi(m[2])
	if i >= reg.size {
		return nil, errors.New(errors.ErrCodeQubitOutOfRange, "line %d: %s[%d] out of range [0, %d)", st.line, m[1], i, reg.size)
	}
	return []int{reg.offset + i}, nil
}

func (p *parser) gate(st statement, kind circuit.GateKind, params, args string) error {
	if err := p.ensureCircuit(st); err != nil {
		return err
	}

	var angle float64
	switch {
	case kind.IsRotation():
		if strings.TrimSpace(params) == "" {
			return p.errorf(st, errors.ErrCodeInvalidFormat, "%s needs an angle", kind)
		}
		v, err := formats.Eval(params, nil)
		if err != nil {
			return p.errorf(st, errors.ErrCodeInvalidFormat, "%s", errors.UserMessage(err))
		}
		angle = v
	case params != "":
		return p.errorf(st, errors.ErrCodeInvalidFormat, "%s takes no parameters", kind)
	}

	parts := strings.Split(args, ",")
	if kind.Arity() == 1 {
		var targets []int
		for _, a := range parts {
			qs, err := p.qubits(st, a)
			if err != nil {
				return err
			}
			targets = append(targets, qs...)
		}
		for _, q := range targets {
			if err := p.c.Append(circuit.Gate{Kind: kind, Qubits: []int{q}, Angle: angle}); err != nil {
				return err
			}
		}
		return nil
	}

	g := circuit.Gate{Kind: kind, Angle: angle}
	for _, a := range parts {
		qs, err := p.qubits(st, a)
		if err != nil {
			return err
		}
		if len(qs) != 1 {
			return p.errorf(st, errors.ErrCodeUnsupportedGate, "register broadcast of %s", kind)
		}
		g.Qubits = append(g.Qubits, qs[0])
	}
	if err := p.c.Append(g); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "line %d", st.line)
	}
	return nil
}

func (p *parser) measure(st statement, src, dst string) error {
	if err := p.ensureCircuit(st); err != nil {
		return err
	}
	qs, err := p.qubits(st, src)
	if err != nil {
		return err
	}
	if m := argRegex.FindStringSubmatch(strings.TrimSpace(dst)); m == nil {
		return p.errorf(st, errors.ErrCodeInvalidFormat, "bad measurement target %q", dst)
	} else if _, ok := p.cregs[m[1]]; !ok {
		return p.errorf(st, errors.ErrCodeInvalidFormat, "unknown creg %s", m[1])
	}
	for _, q := range qs {
		if err := p.c.Measure(q); err != nil {
			return err
		}
	}
	return nil
}
