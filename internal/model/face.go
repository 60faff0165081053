// Package model holds the static description of a 3x3x3 puzzle: its six
// faces, the 54 facelet seat codes, the color table and the 27 cubies.
package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidCode = errors.New("model: invalid facelet code")

// Face is one of the six outer faces, in facelet-string order.
type Face int

const (
	U Face = iota // Up
	R             // Right
	F             // Front
	D             // Down
	L             // Left
	B             // Back
)

// Faces lists all faces in facelet-string order.
var Faces = [6]Face{U, R, F, D, L, B}

const faceLetters = "URFDLB"

func (f Face) String() string {
	if f < U || f > B {
		return "?"
	}
	return faceLetters[f : f+1]
}

// Letter returns the face's single-byte notation letter.
func (f Face) Letter() byte {
	return faceLetters[f]
}

// FaceFromLetter maps U, R, F, D, L or B to its Face.
func FaceFromLetter(c byte) (Face, bool) {
	for i := 0; i < len(faceLetters); i++ {
		if faceLetters[i] == c {
			return Face(i), true
		}
	}
	return 0, false
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() r3.Vec {
	switch f {
	case U:
		return r3.Vec{Y: 1}
	case D:
		return r3.Vec{Y: -1}
	case R:
		return r3.Vec{X: 1}
	case L:
		return r3.Vec{X: -1}
	case F:
		return r3.Vec{Z: 1}
	case B:
		return r3.Vec{Z: -1}
	}
	return r3.Vec{}
}

// Color is a sticker color.
type Color int

const (
	White Color = iota
	Red
	Green
	Yellow
	Orange
	Blue
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Red:
		return "R"
	case Green:
		return "G"
	case Yellow:
		return "Y"
	case Orange:
		return "O"
	case Blue:
		return "B"
	default:
		return "?"
	}
}

// Hex returns the display color as a #rrggbb string.
func (c Color) Hex() string {
	switch c {
	case White:
		return "#FFFFFF"
	case Red:
		return "#891214"
	case Green:
		return "#199B4C"
	case Yellow:
		return "#FED52F"
	case Orange:
		return "#FF5525"
	case Blue:
		return "#0D48AC"
	default:
		return "#000000"
	}
}

// ColorOf returns the color carried by stickers whose home seat is on f.
func ColorOf(f Face) Color {
	return Color(f)
}

// Code is a facelet seat code such as "U1" or "B9".
type Code string

// ParseCode validates s as a seat code.
func ParseCode(s string) (Code, error) {
	if len(s) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	if _, ok := FaceFromLetter(s[0]); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	if s[1] < '1' || s[1] > '9' {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	return Code(s), nil
}

// Face returns the face part of the code.
func (c Code) Face() Face {
	f, _ := FaceFromLetter(c[0])
	return f
}

// Slot returns the 1-based slot number on the face.
func (c Code) Slot() int {
	return int(c[1] - '0')
}

// Index returns the code's position in the 54-character facelet string.
func (c Code) Index() int {
	return int(c.Face())*9 + c.Slot() - 1
}

// CodeAt returns the code at position i of the facelet string.
func CodeAt(i int) Code {
	return Code([]byte{faceLetters[i/9], byte('1' + i%9)})
}

// AllCodes returns the 54 codes in facelet-string order.
func AllCodes() []Code {
	codes := make([]Code, 54)
	for i := range codes {
		codes[i] = CodeAt(i)
	}
	return codes
}
