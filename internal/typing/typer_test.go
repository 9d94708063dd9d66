package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeArgs(t *testing.T) {
	assert.Equal(t, []string{"type", "--clearmodifiers", "--", "hello "}, typeArgs("xdotool", "hello "))
	assert.Equal(t, []string{"type", "--", "hello "}, typeArgs("ydotool", "hello "))
	assert.Equal(t, []string{"--", "hello "}, typeArgs("wtype", "hello "))
}

func TestTypeArgsGuardLeadingDash(t *testing.T) {
	for _, tool := range []string{"xdotool", "ydotool", "wtype"} {
		args := typeArgs(tool, "--dangerous")
		assert.Equal(t, "--dangerous", args[len(args)-1], tool)
		assert.Equal(t, "--", args[len(args)-2], tool)
	}
}

func TestTypeEmptyTextIsNoOp(t *testing.T) {
	typer := &Typer{method: ""}
	assert.NoError(t, typer.Type("   "))
}

func TestExplicitMethodKept(t *testing.T) {
	typer := NewTyper("wtype")
	assert.Equal(t, "wtype", typer.Method())
}
