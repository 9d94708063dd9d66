// Package hotkey turns a human-readable key combo into a matchable form
// and watches raw keyboard devices for it.
package hotkey

import (
	"fmt"
	"strings"

	"github.com/voxtype/voxtype/internal/input"
)

// Spec is a compiled hotkey combo. The combo matches when every modifier
// equivalence set has at least one member held down and a trigger-set key
// sees a key-down edge.
type Spec struct {
	Modifiers [][]uint16
	Trigger   []uint16
}

// modifierSets maps each modifier name to its interchangeable left/right pair.
var modifierSets = map[string][]uint16{
	"ctrl":  {input.KeyLeftCtrl, input.KeyRightCtrl},
	"alt":   {input.KeyLeftAlt, input.KeyRightAlt},
	"shift": {input.KeyLeftShift, input.KeyRightShift},
	"super": {input.KeyLeftMeta, input.KeyRightMeta},
	"cmd":   {input.KeyLeftMeta, input.KeyRightMeta},
	"win":   {input.KeyLeftMeta, input.KeyRightMeta},
	"meta":  {input.KeyLeftMeta, input.KeyRightMeta},
}

// Parse compiles a combo string like "<ctrl>+<alt>+space" into a Spec.
// A combo consisting of a single modifier is valid: the modifier pair itself
// becomes the trigger, so the hotkey fires on that key alone.
func Parse(combo string) (Spec, error) {
	var spec Spec
	for _, token := range strings.Split(combo, "+") {
		token = strings.ToLower(strings.TrimSpace(token))
		token = strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
		if token == "" {
			continue
		}

		if set, ok := modifierSets[token]; ok {
			spec.Modifiers = append(spec.Modifiers, set)
			continue
		}
		code, ok := input.LookupKey(token)
		if !ok {
			return Spec{}, fmt.Errorf("unknown key %q in combo %q", token, combo)
		}
		if len(spec.Trigger) > 0 {
			return Spec{}, fmt.Errorf("combo %q names more than one trigger key", combo)
		}
		spec.Trigger = []uint16{code}
	}

	if len(spec.Trigger) == 0 {
		// A lone modifier is promoted to the trigger; two or more modifiers
		// with no key have no defined firing edge.
		if len(spec.Modifiers) == 1 {
			spec.Trigger = spec.Modifiers[0]
			spec.Modifiers = nil
			return spec, nil
		}
		return Spec{}, fmt.Errorf("combo %q has no trigger key", combo)
	}
	return spec, nil
}

// isTrigger reports whether code belongs to the trigger equivalence set.
func (s Spec) isTrigger(code uint16) bool {
	for _, c := range s.Trigger {
		if c == code {
			return true
		}
	}
	return false
}

// modifiersHeld reports whether every modifier set has a pressed member.
func (s Spec) modifiersHeld(pressed map[uint16]bool) bool {
	for _, set := range s.Modifiers {
		held := false
		for _, c := range set {
			if pressed[c] {
				held = true
				break
			}
		}
		if !held {
			return false
		}
	}
	return true
}
