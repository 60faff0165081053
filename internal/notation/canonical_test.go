package notation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubeanim/internal/registry"
)

func codes(insts []registry.Instance) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = inst.Notation()
	}
	return out
}

func TestCompileSequence(t *testing.T) {
	res := Compile("U L R U F R' B D U'")
	assert.Empty(t, res.Diagnostics)
	want := []string{"U", "L", "R", "U", "F", "R'", "B", "D", "U'"}
	if diff := cmp.Diff(want, codes(res.Instances)); diff != "" {
		t.Errorf("instances mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileRepetitions(t *testing.T) {
	res := Compile("U2 R")
	require.Len(t, res.Instances, 2)
	assert.Equal(t, 2, res.Instances[0].Repetitions)
	assert.Equal(t, "U", res.Instances[0].Code())
	assert.Equal(t, 1, res.Instances[1].Repetitions)

	res = Compile("R'3")
	require.Len(t, res.Instances, 1)
	assert.Equal(t, "R'", res.Instances[0].Code())
	assert.Equal(t, 3, res.Instances[0].Repetitions)
}

func TestCompileUnknownToken(t *testing.T) {
	res := Compile("Q")
	assert.Empty(t, res.Instances)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "Q", res.Diagnostics[0].Token)
	assert.ErrorIs(t, res.Diagnostics[0], registry.ErrUnknownCommand)
}

func TestCompileContinuesAfterError(t *testing.T) {
	res := Compile("R Q U0 x F")
	assert.Equal(t, []string{"R", "F"}, codes(res.Instances))
	require.Len(t, res.Diagnostics, 3)
	assert.Equal(t, 1, res.Diagnostics[0].Index)
	assert.ErrorIs(t, res.Diagnostics[1].Err, ErrInvalidRepetition)
	assert.Equal(t, "x", res.Diagnostics[2].Token)
}

func TestCompileEmpty(t *testing.T) {
	res := Compile("   \t\n ")
	assert.Empty(t, res.Instances)
	assert.Empty(t, res.Diagnostics)
}

func TestCompileToStreamsInOrder(t *testing.T) {
	var got []string
	errFull := errors.New("full")
	diags := CompileTo("U R F", func(inst registry.Instance) error {
		if len(got) == 2 {
			return errFull
		}
		got = append(got, inst.Notation())
		return nil
	})
	assert.Equal(t, []string{"U", "R"}, got)
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0], errFull)
}

func TestFormatAndInvert(t *testing.T) {
	res := Compile("R U2 F' M")
	assert.Equal(t, "R U2 F' M", Format(res.Instances))
	assert.Equal(t, "M' F U'2 R'", Format(Invert(res.Instances)))
	assert.Equal(t, "", Format(nil))
}
