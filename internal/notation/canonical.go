// Package notation compiles move notation strings into command instances.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SeamusWaldron/cubeanim/internal/registry"
)

var ErrInvalidRepetition = errors.New("notation: repetition count must be 1-9")

// Diagnostic reports a token that could not be compiled.
type Diagnostic struct {
	Index int
	Token string
	Err   error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("token %d %q: %v", d.Index, d.Token, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Result is the output of Compile.
type Result struct {
	Instances   []registry.Instance
	Diagnostics []Diagnostic
}

// ParseToken compiles a single token such as R, R', R2 or R'2.
// A trailing decimal digit is the repetition count.
func ParseToken(tok string) (registry.Instance, error) {
	reps := 1
	code := tok
	if n := len(tok); n > 0 && tok[n-1] >= '0' && tok[n-1] <= '9' {
		reps = int(tok[n-1] - '0')
		code = tok[:n-1]
		if reps == 0 {
			return registry.Instance{}, ErrInvalidRepetition
		}
	}
	return registry.Lookup(code, reps)
}

// Compile compiles a whitespace-separated notation string. Invalid tokens
// are reported and skipped; compilation continues with the next token.
func Compile(s string) Result {
	var res Result
	res.Diagnostics = CompileTo(s, func(inst registry.Instance) error {
		res.Instances = append(res.Instances, inst)
		return nil
	})
	return res
}

// CompileTo compiles s and hands each valid instance to sink in order, as
// soon as it is compiled. A sink error is recorded as a diagnostic for that
// token.
func CompileTo(s string, sink func(registry.Instance) error) []Diagnostic {
	var diags []Diagnostic
	for i, tok := range strings.Fields(s) {
		inst, err := ParseToken(tok)
		if err == nil {
			err = sink(inst)
		}
		if err != nil {
			diags = append(diags, Diagnostic{Index: i, Token: tok, Err: err})
		}
	}
	return diags
}

// Format renders instances as a space-separated notation string.
func Format(instances []registry.Instance) string {
	if len(instances) == 0 {
		return ""
	}
	parts := make([]string, len(instances))
	for i, inst := range instances {
		parts[i] = inst.Notation()
	}
	return strings.Join(parts, " ")
}

// Invert returns the sequence that undoes instances.
func Invert(instances []registry.Instance) []registry.Instance {
	out := make([]registry.Instance, len(instances))
	for i, inst := range instances {
		out[len(instances)-1-i] = inst.Inverse()
	}
	return out
}
