package wayland

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/actionsum/hostprobe/pkg/integrations/common"
	"github.com/actionsum/hostprobe/pkg/probe"
)

// Detector queries a Wayland session through compositor helper tools.
// Wayland has no protocol-level way to read another client's focus or the
// seat's idle time, so each compositor is asked through its own IPC.
type Detector struct {
	runner     common.Runner
	compositor string
}

// NewDetector creates a Wayland detector; getenv resolves the session
// environment used to identify the compositor.
func NewDetector(runner common.Runner, getenv func(string) string) *Detector {
	return &Detector{
		runner:     runner,
		compositor: detectCompositor(getenv),
	}
}

// detectCompositor identifies the compositor from the session environment
func detectCompositor(getenv func(string) string) string {
	if getenv("SWAYSOCK") != "" {
		return "sway"
	}
	if getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return "hyprland"
	}

	desktop := strings.ToLower(getenv("XDG_CURRENT_DESKTOP"))
	for _, name := range []string{"gnome", "kde", "sway", "hyprland"} {
		if strings.Contains(desktop, name) {
			return name
		}
	}

	return "unknown"
}

// Compositor returns the detected compositor name
func (d *Detector) Compositor() string {
	return d.compositor
}

// DisplayServer returns "wayland"
func (d *Detector) DisplayServer() string {
	return "wayland"
}

// ActiveWindowTitle returns the focused window title, "" when the
// compositor cannot or will not tell.
func (d *Detector) ActiveWindowTitle() (string, error) {
	ctx := context.Background()

	switch d.compositor {
	case "sway":
		output, err := d.runner.Run(ctx, "swaymsg", "-t", "get_tree")
		if err != nil {
			return "", nil
		}
		return parseSwayTree(output), nil

	case "hyprland":
		output, err := d.runner.Run(ctx, "hyprctl", "activewindow", "-j")
		if err != nil {
			return "", nil
		}
		return parseHyprlandWindow(output), nil

	case "gnome":
		output, err := d.runner.Run(ctx, "gdbus", "call", "--session",
			"--dest", "org.gnome.Shell",
			"--object-path", "/org/gnome/Shell",
			"--method", "org.gnome.Shell.Eval",
			gnomeTitleScript)
		if err != nil {
			return "", nil
		}
		return parseGnomeEval(string(output)), nil
	}

	return "", nil
}

const gnomeTitleScript = `global.display.focus_window ? global.display.focus_window.get_title() : ""`

type swayNode struct {
	Name          *string    `json:"name"`
	Type          string     `json:"type"`
	Focused       bool       `json:"focused"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

// parseSwayTree returns the name of the focused view in a sway tree
func parseSwayTree(output []byte) string {
	var root swayNode
	if err := json.Unmarshal(output, &root); err != nil {
		return ""
	}
	if node := findFocused(&root); node != nil && node.Name != nil {
		return strings.ToValidUTF8(*node.Name, "�")
	}
	return ""
}

func findFocused(node *swayNode) *swayNode {
	if node.Focused {
		// A focused workspace or output means no view has focus
		if node.Type == "con" || node.Type == "floating_con" {
			return node
		}
		return nil
	}
	for i := range node.Nodes {
		if found := findFocused(&node.Nodes[i]); found != nil {
			return found
		}
	}
	for i := range node.FloatingNodes {
		if found := findFocused(&node.FloatingNodes[i]); found != nil {
			return found
		}
	}
	return nil
}

// parseHyprlandWindow extracts the title from `hyprctl activewindow -j`
func parseHyprlandWindow(output []byte) string {
	var window struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(output, &window); err != nil {
		return ""
	}
	return strings.ToValidUTF8(window.Title, "�")
}

// parseGnomeEval parses gdbus output like: (true, '"Terminal"'). The
// second field is a GVariant string literal holding the JSON result.
func parseGnomeEval(output string) string {
	result := strings.TrimSpace(output)
	if !strings.HasPrefix(result, "(true,") {
		return ""
	}

	result = strings.TrimPrefix(result, "(true,")
	result = strings.TrimSuffix(result, ")")
	result = strings.TrimSpace(result)

	literal, ok := unquoteGVariant(result)
	if !ok {
		return ""
	}

	var title string
	if err := json.Unmarshal([]byte(literal), &title); err != nil {
		return ""
	}
	return title
}

// unquoteGVariant decodes a GVariant text-format string. gdbus quotes with
// ' unless the value contains one, then with ", and escapes backslashes.
func unquoteGVariant(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	quote := s[0]
	if (quote != '\'' && quote != '"') || s[len(s)-1] != quote {
		return "", false
	}
	body := s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", false
		}
		switch esc := body[i]; esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'u', 'U':
			width := 4
			if esc == 'U' {
				width = 8
			}
			if i+width >= len(body) {
				return "", false
			}
			r, err := strconv.ParseUint(body[i+1:i+1+width], 16, 32)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(r))
			i += width
		default:
			// \\, \' and \" stand for the character itself
			b.WriteByte(esc)
		}
	}
	return b.String(), true
}

// IdleTimeMs asks the compositor's idle monitor. Compositors without one
// are reported as a failed query.
func (d *Detector) IdleTimeMs() (uint64, error) {
	ctx := context.Background()

	switch d.compositor {
	case "gnome":
		output, err := d.runner.Run(ctx, "gdbus", "call", "--session",
			"--dest", "org.gnome.Mutter.IdleMonitor",
			"--object-path", "/org/gnome/Mutter/IdleMonitor/Core",
			"--method", "org.gnome.Mutter.IdleMonitor.GetIdletime")
		if err != nil {
			return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "Mutter IdleMonitor query failed")
		}
		ms, err := parseGVariantUint(string(output))
		if err != nil {
			return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "unexpected Mutter IdleMonitor reply")
		}
		return ms, nil

	case "kde":
		// KDE's ScreenSaver service reports milliseconds
		output, err := d.runner.Run(ctx, "gdbus", "call", "--session",
			"--dest", "org.freedesktop.ScreenSaver",
			"--object-path", "/org/freedesktop/ScreenSaver",
			"--method", "org.freedesktop.ScreenSaver.GetSessionIdleTime")
		if err != nil {
			return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "ScreenSaver GetSessionIdleTime failed")
		}
		ms, err := parseGVariantUint(string(output))
		if err != nil {
			return 0, probe.WrapQueryFailed(err, probe.OpIdleTime, "unexpected ScreenSaver reply")
		}
		return ms, nil
	}

	return 0, probe.QueryFailed(probe.OpIdleTime,
		fmt.Sprintf("no idle monitor available for wayland compositor %q", d.compositor))
}

// SupportsIdle reports whether IdleTimeMs has a compositor backend
func (d *Detector) SupportsIdle() bool {
	return d.compositor == "gnome" || d.compositor == "kde"
}

// SupportsTitle reports whether ActiveWindowTitle has a compositor backend
func (d *Detector) SupportsTitle() bool {
	switch d.compositor {
	case "sway", "hyprland", "gnome":
		return true
	}
	return false
}

// parseGVariantUint parses gdbus output like: (uint64 12345,)
func parseGVariantUint(output string) (uint64, error) {
	s := strings.TrimSpace(output)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSuffix(strings.TrimSpace(s), ",")

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, errors.Errorf("empty gdbus reply %q", output)
	}

	value := fields[len(fields)-1]
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse gdbus reply %q", output)
	}
	return n, nil
}
