package affine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/njchilds90/goaffine/interval"
)

// ============================================================
// MCP tool interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Space  string      `json:"space,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// FormResult is the JSON view of a form.
type FormResult struct {
	Kind   string  `json:"kind"`
	Size   int     `json:"size"`
	Lo     float64 `json:"lo"`
	Hi     float64 `json:"hi"`
	Center float64 `json:"center"`
	Err    float64 `json:"err"`
	Terms  int     `json:"terms"`
	// Range is the program result: the form's enclosure intersected with the
	// plain enclosure carried alongside it.
	Range [2]float64 `json:"range"`
}

func formResult(f *Form, rng interval.Interval) FormResult {
	iv := f.ToInterval()
	return FormResult{
		Kind:   f.Kind().String(),
		Size:   f.Size(),
		Lo:     jsonSafe(iv.Lo),
		Hi:     jsonSafe(iv.Hi),
		Center: f.Center(),
		Err:    f.Err(),
		Terms:  f.Len(),
		Range:  [2]float64{jsonSafe(rng.Lo), jsonSafe(rng.Hi)},
	}
}

// jsonSafe maps infinities to ±MaxFloat64, which encoding/json can represent.
func jsonSafe(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	case math.IsNaN(v):
		return 0
	}
	return v
}

// HandleToolCall runs one tool call against a fresh Space built from cfg.
// Params may override "policy" and "mode".
func HandleToolCall(cfg *Config, req ToolRequest) ToolResponse {
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("%w: missing param: %s", ErrBadParam, key)
		}
		n, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("%w: param %s must be a number", ErrBadParam, key)
		}
		return n, nil
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("%w: missing param: %s", ErrBadParam, key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%w: param %s must be a string", ErrBadParam, key)
		}
		return s, nil
	}
	optString := func(key, def string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getString(key)
	}
	getInterval := func(key string) (interval.Interval, error) {
		v, ok := req.Params[key]
		if !ok {
			return interval.Interval{}, fmt.Errorf("%w: missing param: %s", ErrBadParam, key)
		}
		raw, ok := v.([]interface{})
		if !ok || len(raw) != 2 {
			return interval.Interval{}, fmt.Errorf("%w: param %s must be [lo, hi]", ErrBadParam, key)
		}
		lo, ok1 := raw[0].(float64)
		hi, ok2 := raw[1].(float64)
		if !ok1 || !ok2 || lo > hi {
			return interval.Interval{}, fmt.Errorf("%w: param %s must be [lo, hi] with lo <= hi", ErrBadParam, key)
		}
		return interval.New(lo, hi), nil
	}
	getProgram := func() (Program, error) {
		src, err := optString("program", "")
		if err != nil {
			return nil, err
		}
		return ParseProgram(src)
	}
	space := func() (*Space, error) {
		c := *cfg
		var err error
		if c.Policy, err = optString("policy", cfg.Policy); err != nil {
			return nil, err
		}
		if c.Mode, err = optString("mode", cfg.Mode); err != nil {
			return nil, err
		}
		return NewSpaceFromConfig(&c)
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "enclose":
		x, err := getInterval("x")
		if err != nil {
			return fail(err)
		}
		prog, err := getProgram()
		if err != nil {
			return fail(err)
		}
		s, err := space()
		if err != nil {
			return fail(err)
		}
		f := s.Fresh(x)
		rng := prog.Run(f)
		if tol := cfg.Compaction.Tolerance; tol > 0 {
			f.Compact(tol)
		}
		return ToolResponse{Result: formResult(f, rng), String: f.String(), Space: s.ID().String()}

	case "multiply":
		a, err := getInterval("a")
		if err != nil {
			return fail(err)
		}
		b, err := getInterval("b")
		if err != nil {
			return fail(err)
		}
		s, err := space()
		if err != nil {
			return fail(err)
		}
		x := s.Fresh(a)
		x.MulForm(s.Fresh(b))
		return ToolResponse{Result: formResult(x, x.ToInterval()), String: x.String(), Space: s.ID().String()}

	case "compact":
		x, err := getInterval("x")
		if err != nil {
			return fail(err)
		}
		tol, err := getNumber("tol")
		if err != nil {
			return fail(err)
		}
		prog, err := getProgram()
		if err != nil {
			return fail(err)
		}
		s, err := space()
		if err != nil {
			return fail(err)
		}
		f := s.Fresh(x)
		rng := prog.Run(f)
		before := f.Len()
		f.Compact(tol)
		return ToolResponse{
			Result: map[string]interface{}{"before": before, "form": formResult(f, rng)},
			String: f.String(),
			Space:  s.ID().String(),
		}

	case "sweep":
		x, err := getInterval("x")
		if err != nil {
			return fail(err)
		}
		parts, err := getNumber("parts")
		if err != nil {
			return fail(err)
		}
		if parts != math.Trunc(parts) || parts < 1 || parts > 1<<16 {
			return fail(fmt.Errorf("%w: parts must be an integer in [1, 65536]", ErrBadParam))
		}
		prog, err := getProgram()
		if err != nil {
			return fail(err)
		}
		res, err := Sweep(context.Background(), cfg, x, int(parts), prog)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{
			Result: [2]float64{jsonSafe(res.Range.Lo), jsonSafe(res.Range.Hi)},
			String: res.Range.String(),
		}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "MCP tool specification"}
	}
	return ToolResponse{Error: fmt.Sprintf("%s: %s", ErrUnknownOp, req.Tool)}
}

// ToolSpec returns the JSON schema of the tools for agent registration.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("enclose", "Run a program (e.g. \"sqr,exp,pow:3\") over an affine form of x=[lo,hi]",
			[]string{"x"}, map[string]string{"x": "array", "program": "string", "policy": "string", "mode": "string"}),
		ts("multiply", "Multiply two independent affine forms of a=[lo,hi] and b=[lo,hi]",
			[]string{"a", "b"}, map[string]string{"a": "array", "b": "array", "policy": "string", "mode": "string"}),
		ts("compact", "Run a program over x, then fold noise terms below tol into the error",
			[]string{"x", "tol"}, map[string]string{"x": "array", "tol": "number", "program": "string", "policy": "string"}),
		ts("sweep", "Split x into parts pieces, run the program on each concurrently and return the hull",
			[]string{"x", "parts"}, map[string]string{"x": "array", "parts": "integer", "program": "string"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools, "ops": Ops()}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
