package input

// Linux evdev KEY_* codes (see input-event-codes.h). Only the keys the hotkey
// parser can name are listed; event decoding works with any code.
const (
	KeyEsc        = 1
	KeyBackspace  = 14
	KeyTab        = 15
	KeyEnter      = 28
	KeyLeftCtrl   = 29
	KeyLeftShift  = 42
	KeyRightShift = 54
	KeyLeftAlt    = 56
	KeySpace      = 57
	KeyF1         = 59
	KeyF11        = 87
	KeyF12        = 88
	KeyRightCtrl  = 97
	KeyRightAlt   = 100
	KeyHome       = 102
	KeyUp         = 103
	KeyPageUp     = 104
	KeyLeft       = 105
	KeyRight      = 106
	KeyEnd        = 107
	KeyDown       = 108
	KeyPageDown   = 109
	KeyInsert     = 110
	KeyDelete     = 111
	KeyLeftMeta   = 125
	KeyRightMeta  = 126
)

// letterCodes maps 'a'..'z' to their evdev codes. The codes follow the
// physical QWERTY rows, so they are not contiguous.
var letterCodes = map[byte]uint16{
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50,
}

// digitCodes maps '0'..'9' to their top-row evdev codes.
var digitCodes = map[byte]uint16{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
}

// namedKeys covers the non-modifier keys a hotkey combo can reference by name.
var namedKeys = map[string]uint16{
	"esc":       KeyEsc,
	"escape":    KeyEsc,
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"space":     KeySpace,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"insert":    KeyInsert,
	"delete":    KeyDelete,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"f1":        KeyF1,
	"f2":        KeyF1 + 1,
	"f3":        KeyF1 + 2,
	"f4":        KeyF1 + 3,
	"f5":        KeyF1 + 4,
	"f6":        KeyF1 + 5,
	"f7":        KeyF1 + 6,
	"f8":        KeyF1 + 7,
	"f9":        KeyF1 + 8,
	"f10":       KeyF1 + 9,
	"f11":       KeyF11,
	"f12":       KeyF12,
}

// LookupKey resolves a non-modifier key name (or single alphanumeric
// character) to its evdev code.
func LookupKey(name string) (uint16, bool) {
	if code, ok := namedKeys[name]; ok {
		return code, true
	}
	if len(name) == 1 {
		if code, ok := letterCodes[name[0]]; ok {
			return code, true
		}
		if code, ok := digitCodes[name[0]]; ok {
			return code, true
		}
	}
	return 0, false
}
