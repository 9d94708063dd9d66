// Package typing delivers transcribed text to the focused application through
// an external injection tool (xdotool, ydotool or wtype).
package typing

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// Typer injects text at the current input focus with a fixed tool chosen at
// startup.
type Typer struct {
	method string
}

// NewTyper resolves the injection tool. method "auto" picks the best tool for
// the current session type; naming a tool uses it directly. An empty method
// (nothing installed) is allowed: Type degrades to printing the text.
func NewTyper(method string) *Typer {
	if method == "" || method == "auto" {
		method = detectMethod()
	}
	return &Typer{method: method}
}

// Method returns the resolved tool name, empty when none is available.
func (t *Typer) Method() string { return t.method }

// Type enters text at the current focus. On failure the text is echoed to the
// console so the user's words are never lost.
func (t *Typer) Type(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if t.method == "" {
		fmt.Printf("📝 %s\n", text)
		return fmt.Errorf("no injection tool available (install xdotool or ydotool)")
	}

	cmd := exec.Command(t.method, typeArgs(t.method, text)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Printf("[TYPE] %s failed: %v (%s)", t.method, err, strings.TrimSpace(string(out)))
		fmt.Printf("📝 %s\n", text)
		return fmt.Errorf("%s failed: %v", t.method, err)
	}
	return nil
}

// typeArgs builds the per-tool argument list. The "--" guard keeps text that
// starts with a dash from being parsed as a flag.
func typeArgs(method, text string) []string {
	switch method {
	case "xdotool":
		return []string{"type", "--clearmodifiers", "--", text}
	case "ydotool":
		return []string{"type", "--", text}
	case "wtype":
		return []string{"--", text}
	}
	return []string{text}
}

// detectMethod prefers Wayland-native tools under Wayland and xdotool
// elsewhere, falling back through whatever is installed.
func detectMethod() string {
	session := strings.ToLower(os.Getenv("XDG_SESSION_TYPE"))
	var order []string
	if session == "wayland" {
		order = []string{"ydotool", "wtype", "xdotool"}
	} else {
		order = []string{"xdotool", "ydotool", "wtype"}
	}
	for _, tool := range order {
		if _, err := exec.LookPath(tool); err == nil {
			return tool
		}
	}
	return ""
}
