package affine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// Programs: chains of unary operations
// ============================================================

// Op is one step of a Program: a named operation and its numeric parameter
// (exponent, root order, constant or tolerance) when it takes one.
type Op struct {
	Name  string
	Param float64
}

func (o Op) String() string {
	if opTable[o.Name].param {
		return o.Name + ":" + strconv.FormatFloat(o.Param, 'g', -1, 64)
	}
	return o.Name
}

// Program is a chain of operations applied left to right to one value.
type Program []Op

func (p Program) String() string {
	parts := make([]string, len(p))
	for i, o := range p {
		parts[i] = o.String()
	}
	return strings.Join(parts, ",")
}

type opDef struct {
	param bool
	form  func(f *Form, p float64, iv interval.Interval) *Form
	plain func(iv interval.Interval, p float64) interval.Interval
}

func unaryOp(form func(*Form, interval.Interval) *Form, plain func(interval.Interval) interval.Interval) opDef {
	return opDef{
		form:  func(f *Form, _ float64, iv interval.Interval) *Form { return form(f, iv) },
		plain: func(iv interval.Interval, _ float64) interval.Interval { return plain(iv) },
	}
}

var opTable = map[string]opDef{
	"sqr":  unaryOp((*Form).Sqr, interval.Interval.Sqr),
	"sqrt": unaryOp((*Form).Sqrt, interval.Interval.Sqrt),
	"exp":  unaryOp((*Form).Exp, interval.Interval.Exp),
	"log":  unaryOp((*Form).Log, interval.Interval.Log),
	"inv":  unaryOp((*Form).Inv, interval.Interval.Inv),
	"sin":  unaryOp((*Form).Sin, interval.Interval.Sin),
	"cos":  unaryOp((*Form).Cos, interval.Interval.Cos),
	"tan":  unaryOp((*Form).Tan, interval.Interval.Tan),
	"asin": unaryOp((*Form).Asin, interval.Interval.Asin),
	"acos": unaryOp((*Form).Acos, interval.Interval.Acos),
	"atan": unaryOp((*Form).Atan, interval.Interval.Atan),
	"sinh": unaryOp((*Form).Sinh, interval.Interval.Sinh),
	"cosh": unaryOp((*Form).Cosh, interval.Interval.Cosh),
	"tanh": unaryOp((*Form).Tanh, interval.Interval.Tanh),
	"abs":  unaryOp((*Form).Abs, interval.Interval.Abs),
	"sign": unaryOp((*Form).Sign, interval.Interval.Sign),
	"neg": {
		form:  func(f *Form, _ float64, _ interval.Interval) *Form { return f.Neg() },
		plain: func(iv interval.Interval, _ float64) interval.Interval { return iv.Neg() },
	},
	"pow": {
		param: true,
		form:  func(f *Form, p float64, iv interval.Interval) *Form { return f.PowReal(p, iv) },
		plain: func(iv interval.Interval, p float64) interval.Interval { return iv.PowReal(p) },
	},
	"root": {
		param: true,
		form:  func(f *Form, p float64, iv interval.Interval) *Form { return f.Root(int(p), iv) },
		plain: func(iv interval.Interval, p float64) interval.Interval { return iv.Root(int(p)) },
	},
	"add": {
		param: true,
		form:  func(f *Form, p float64, _ interval.Interval) *Form { return f.AddScalar(p) },
		plain: func(iv interval.Interval, p float64) interval.Interval { return iv.AddScalar(p) },
	},
	"mul": {
		param: true,
		form:  func(f *Form, p float64, _ interval.Interval) *Form { return f.MulScalar(p) },
		plain: func(iv interval.Interval, p float64) interval.Interval { return iv.Scale(p) },
	},
	"compact": {
		param: true,
		form:  func(f *Form, p float64, _ interval.Interval) *Form { return f.Compact(p) },
		plain: func(iv interval.Interval, _ float64) interval.Interval { return iv },
	},
}

// maxExponent bounds the pow and root parameters a program accepts.
const maxExponent = 1 << 31

// Ops lists the operation names a Program accepts.
func Ops() []string {
	names := make([]string, 0, len(opTable))
	for name := range opTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseProgram reads a comma-separated chain such as "sqr,exp,pow:3,root:2".
func ParseProgram(s string) (Program, error) {
	var prog Program
	for _, raw := range strings.Split(s, ",") {
		tok := strings.ToLower(strings.TrimSpace(raw))
		if tok == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(tok, ":")
		def, ok := opTable[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOp, name)
		}
		op := Op{Name: name}
		switch {
		case def.param && !hasArg:
			return nil, fmt.Errorf("%w: %s needs a parameter", ErrBadParam, name)
		case !def.param && hasArg:
			return nil, fmt.Errorf("%w: %s takes no parameter", ErrBadParam, name)
		case def.param:
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrBadParam, name, err)
			}
			if (name == "root" || name == "pow") && math.Abs(v) > maxExponent {
				return nil, fmt.Errorf("%w: %s parameter %g outside ±2^31", ErrBadParam, name, v)
			}
			if name == "root" && v != float64(int(v)) {
				return nil, fmt.Errorf("%w: root order %g is not an integer", ErrBadParam, v)
			}
			op.Param = v
		}
		prog = append(prog, op)
	}
	return prog, nil
}

// Run applies the program to f in place. Alongside the form it carries a plain
// enclosure of the value, which every step receives as the caller's enclosure.
// The result is the form's enclosure intersected with the plain one.
func (p Program) Run(f *Form) interval.Interval {
	iv := f.ToInterval()
	for _, o := range p {
		def := opTable[o.Name]
		plain := def.plain(iv, o.Param)
		def.form(f, o.Param, iv)
		iv = f.ToInterval().Intersect(plain)
	}
	return iv
}
