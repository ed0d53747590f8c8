package formats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/qrying/stackreel/pkg/errors"
)

// Eval evaluates a small arithmetic expression as found in gate angles and
// loop indices: numbers, identifiers bound in vars, the constant pi, unary
// signs, + - * / and parentheses.
func Eval(expr string, vars map[string]float64) (float64, error) {
	p := &exprParser{src: expr, vars: vars}
	p.next()
	v, err := p.sum()
	if err != nil {
		return 0, err
	}
	if p.tok != "" {
		return 0, p.errorf("unexpected %q", p.tok)
	}
	return v, nil
}

// EvalInt is [Eval] for integer contexts such as qubit indices.
func EvalInt(expr string, vars map[string]int) (int, error) {
	fv := make(map[string]float64, len(vars))
	for k, v := range vars {
		fv[k] = float64(v)
	}
	v, err := Eval(expr, fv)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "expression %q is not an integer", expr)
	}
	return int(v), nil
}

// pi is a variable so the table below is computed the same way Eval computes.
var pi = math.Pi

var namedAngles = []struct {
	value float64
	text  string
}{
	{pi, "pi"},
	{-pi, "-pi"},
	{pi / 2, "pi/2"},
	{-pi / 2, "-pi/2"},
	{pi / 4, "pi/4"},
	{-pi / 4, "-pi/4"},
	{pi / 8, "pi/8"},
	{2 * pi, "2*pi"},
	{3 * pi / 2, "3*pi/2"},
}

// FormatAngle renders an angle for source formats. Common multiples of pi are
// written symbolically; everything else uses the shortest exact decimal.
func FormatAngle(a float64) string {
	for _, n := range namedAngles {
		if a == n.value {
			return n.text
		}
	}
	return strconv.FormatFloat(a, 'g', -1, 64)
}

type exprParser struct {
	src  string
	pos  int
	tok  string
	vars map[string]float64
}

func (p *exprParser) errorf(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidFormat, "expression %q: %s", p.src, fmt.Sprintf(format, args...))
}

func (p *exprParser) next() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.tok = ""
		return
	}
	start := p.pos
	c := rune(p.src[p.pos])
	switch {
	case unicode.IsDigit(c) || c == '.':
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if (c >= '0' && c <= '9') || c == '.' {
				p.pos++
				continue
			}
			if (c == 'e' || c == 'E') && p.pos+1 < len(p.src) {
				p.pos++
				if p.src[p.pos] == '+' || p.src[p.pos] == '-' {
					p.pos++
				}
				continue
			}
			break
		}
	case unicode.IsLetter(c) || c == '_':
		for p.pos < len(p.src) {
			c := rune(p.src[p.pos])
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '.' {
				break
			}
			p.pos++
		}
	default:
		p.pos++
	}
	p.tok = p.src[start:p.pos]
}

func (p *exprParser) sum() (float64, error) {
	v, err := p.product()
	if err != nil {
		return 0, err
	}
	for p.tok == "+" || p.tok == "-" {
		op := p.tok
		p.next()
		r, err := p.product()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			v += r
		} else {
			v -= r
		}
	}
	return v, nil
}

func (p *exprParser) product() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for p.tok == "*" || p.tok == "/" {
		op := p.tok
		p.next()
		r, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			v *= r
			continue
		}
		if r == 0 {
			return 0, p.errorf("division by zero")
		}
		v /= r
	}
	return v, nil
}

func (p *exprParser) unary() (float64, error) {
	switch p.tok {
	case "-":
		p.next()
		v, err := p.unary()
		return -v, err
	case "+":
		p.next()
		return p.unary()
	}
	return p.primary()
}

func (p *exprParser) primary() (float64, error) {
	tok := p.tok
	switch {
	case tok == "":
		return 0, p.errorf("unexpected end of expression")
	case tok == "(":
		p.next()
		v, err := p.sum()
		if err != nil {
			return 0, err
		}
		if p.tok != ")" {
			return 0, p.errorf("missing )")
		}
		p.next()
		return v, nil
	case tok[0] >= '0' && tok[0] <= '9' || tok[0] == '.':
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, p.errorf("bad number %q", tok)
		}
		p.next()
		return v, nil
	case strings.EqualFold(tok, "pi") || tok == "math.pi" || tok == "np.pi":
		p.next()
		return math.Pi, nil
	default:
		if v, ok := p.vars[tok]; ok {
			p.next()
			return v, nil
		}
		return 0, p.errorf("unknown identifier %q", tok)
	}
}
