package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubeanim/internal/facecube"
)

func TestNetPlainSolved(t *testing.T) {
	r := New()
	r.Plain = true

	out, err := r.Net(facecube.Solved)
	require.NoError(t, err)

	want := strings.Join([]string{
		"      W W W ",
		"      W W W ",
		"      W W W ",
		"O O O G G G R R R B B B ",
		"O O O G G G R R R B B B ",
		"O O O G G G R R R B B B ",
		"      Y Y Y ",
		"      Y Y Y ",
		"      Y Y Y ",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("net mismatch (-want +got):\n%s", diff)
	}
}

func TestNetMatchesFacecubeNet(t *testing.T) {
	r := New()
	r.Plain = true
	c := facecube.New()

	assert.Equal(t, c.Net(), r.Cube(c))
}

func TestNetRejectsInvalid(t *testing.T) {
	_, err := New().Net("UUU")
	assert.ErrorIs(t, err, facecube.ErrInvalidFacelets)
}

func TestNetColoredKeepsLetters(t *testing.T) {
	out, err := New().Net(facecube.Solved)
	require.NoError(t, err)
	assert.Equal(t, 9, strings.Count(out, "W"))
	assert.Equal(t, 9, strings.Count(out, "Y"))
	assert.Equal(t, 9, strings.Count(out, "\n"))
}
