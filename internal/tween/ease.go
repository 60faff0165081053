// Package tween interpolates a value over time along an easing curve and
// holds the tempo presets used for animating layer turns.
package tween

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidEase = errors.New("tween: invalid ease")

// DefaultOvershoot is the back ease overshoot used when none is given.
const DefaultOvershoot = 1.70158

// Easing maps linear progress in [0,1] to eased progress. Eased progress
// starts at 0 and ends at 1 but may leave [0,1] in between.
type Easing struct {
	name string
	fn   func(p float64) float64
}

// At returns the eased value for progress p, clamped to [0,1].
func (e Easing) At(p float64) float64 {
	p = math.Max(0, math.Min(1, p))
	if e.fn == nil {
		return p
	}
	return e.fn(p)
}

func (e Easing) String() string {
	if e.name == "" {
		return "linear"
	}
	return e.name
}

// Linear is the identity easing.
var Linear = Easing{name: "linear", fn: func(p float64) float64 { return p }}

// ParseEase parses names such as "linear", "power2.out", "power1.inOut",
// "sine.in", "back.inOut(1)". A name without a variant uses out.
func ParseEase(s string) (Easing, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "linear" || s == "none" || strings.HasPrefix(s, "power0") {
		return Linear, nil
	}

	base, variant, _ := strings.Cut(s, ".")
	if variant == "" {
		variant = "out"
	}

	var param string
	if i := strings.IndexByte(variant, '('); i >= 0 {
		if !strings.HasSuffix(variant, ")") {
			return Easing{}, fmt.Errorf("%w: %q", ErrInvalidEase, s)
		}
		param = variant[i+1 : len(variant)-1]
		variant = variant[:i]
	}

	var out func(float64) float64
	switch {
	case strings.HasPrefix(base, "power"):
		n, err := strconv.Atoi(strings.TrimPrefix(base, "power"))
		if err != nil || n < 0 || n > 4 || param != "" {
			return Easing{}, fmt.Errorf("%w: %q", ErrInvalidEase, s)
		}
		out = powerOut(float64(n + 1))
	case base == "sine" && param == "":
		out = func(p float64) float64 { return math.Sin(p * math.Pi / 2) }
	case base == "back":
		overshoot := DefaultOvershoot
		if param != "" {
			v, err := strconv.ParseFloat(param, 64)
			if err != nil {
				return Easing{}, fmt.Errorf("%w: %q", ErrInvalidEase, s)
			}
			overshoot = v
		}
		out = backOut(overshoot)
	default:
		return Easing{}, fmt.Errorf("%w: %q", ErrInvalidEase, s)
	}

	var fn func(float64) float64
	switch variant {
	case "out":
		fn = out
	case "in":
		fn = func(p float64) float64 { return 1 - out(1-p) }
	case "inOut":
		fn = func(p float64) float64 {
			if p < 0.5 {
				return (1 - out(1-2*p)) / 2
			}
			return 0.5 + out(2*p-1)/2
		}
	default:
		return Easing{}, fmt.Errorf("%w: %q", ErrInvalidEase, s)
	}
	return Easing{name: s, fn: fn}, nil
}

// MustParseEase is ParseEase for names known at compile time.
func MustParseEase(s string) Easing {
	e, err := ParseEase(s)
	if err != nil {
		panic(err)
	}
	return e
}

func powerOut(exp float64) func(float64) float64 {
	return func(p float64) float64 {
		return 1 - math.Pow(1-p, exp)
	}
}

func backOut(s float64) func(float64) float64 {
	return func(p float64) float64 {
		p--
		return p*p*((s+1)*p+s) + 1
	}
}
