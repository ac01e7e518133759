package wayland

import (
	"errors"
	"testing"

	"github.com/actionsum/hostprobe/pkg/integrations/common"
	"github.com/actionsum/hostprobe/pkg/integrations/common/commontest"
	"github.com/actionsum/hostprobe/pkg/probe"
)

const (
	mutterIdle = "gdbus call --session --dest org.gnome.Mutter.IdleMonitor --object-path /org/gnome/Mutter/IdleMonitor/Core --method org.gnome.Mutter.IdleMonitor.GetIdletime"
	kdeIdle    = "gdbus call --session --dest org.freedesktop.ScreenSaver --object-path /org/freedesktop/ScreenSaver --method org.freedesktop.ScreenSaver.GetSessionIdleTime"
	gnomeEval  = "gdbus call --session --dest org.gnome.Shell --object-path /org/gnome/Shell --method org.gnome.Shell.Eval " + gnomeTitleScript
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestDetectorInterface(t *testing.T) {
	var _ common.Session = (*Detector)(nil)
}

func TestGetDisplayServer(t *testing.T) {
	detector := NewDetector(commontest.NewFakeRunner(), envOf(nil))
	if got := detector.DisplayServer(); got != "wayland" {
		t.Errorf("DisplayServer() = %s, want %s", got, "wayland")
	}
}

func TestDetectCompositor(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{"sway socket", map[string]string{"SWAYSOCK": "/run/user/1000/sway-ipc.sock"}, "sway"},
		{"hyprland signature", map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "abc"}, "hyprland"},
		{"gnome desktop", map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"}, "gnome"},
		{"kde desktop", map[string]string{"XDG_CURRENT_DESKTOP": "KDE"}, "kde"},
		{"sway wins over desktop", map[string]string{"SWAYSOCK": "s", "XDG_CURRENT_DESKTOP": "GNOME"}, "sway"},
		{"nothing set", nil, "unknown"},
		{"unknown desktop", map[string]string{"XDG_CURRENT_DESKTOP": "river"}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectCompositor(envOf(tt.env)); got != tt.expected {
				t.Errorf("detectCompositor() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseSwayTree(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "focused tiled view",
			input: `{"type":"root","name":"root","nodes":[{"type":"output","name":"eDP-1","nodes":[
				{"type":"workspace","name":"1","nodes":[
					{"type":"con","name":"vim","focused":false},
					{"type":"con","name":"Firefox","focused":true}]}]}]}`,
			expected: "Firefox",
		},
		{
			name: "focused floating view",
			input: `{"type":"root","nodes":[{"type":"workspace","nodes":[],"floating_nodes":[
				{"type":"floating_con","name":"pavucontrol","focused":true}]}]}`,
			expected: "pavucontrol",
		},
		{
			name:     "focused empty workspace",
			input:    `{"type":"root","nodes":[{"type":"workspace","name":"2","focused":true}]}`,
			expected: "",
		},
		{
			name:     "null name",
			input:    `{"type":"root","nodes":[{"type":"con","name":null,"focused":true}]}`,
			expected: "",
		},
		{
			name:     "invalid JSON",
			input:    `not json`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSwayTree([]byte(tt.input)); got != tt.expected {
				t.Errorf("parseSwayTree() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseHyprlandWindow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"active window", `{"address":"0x1","class":"kitty","title":"~/src","pid":42}`, "~/src"},
		{"no window", `{}`, ""},
		{"invalid", `Invalid`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseHyprlandWindow([]byte(tt.input)); got != tt.expected {
				t.Errorf("parseHyprlandWindow(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseGnomeEval(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"title", `(true, '"Terminal"')` + "\n", "Terminal"},
		{"escaped quotes", `(true, '"say \\"hi\\""')`, `say "hi"`},
		{"apostrophe uses double quotes", `(true, "\"Bob's notes\"")`, "Bob's notes"},
		{"backslashes", `(true, '"C:\\\\Users\\\\x"')`, `C:\Users\x`},
		{"escaped apostrophe", `(true, '"it\'s"')`, "it's"},
		{"unicode escape", `(true, '"caf\u00e9"')`, "café"},
		{"unterminated literal", `(true, '"Terminal")`, ""},
		{"no focus", `(true, '""')`, ""},
		{"eval blocked", `(false, '')`, ""},
		{"garbage", `error`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseGnomeEval(tt.input); got != tt.expected {
				t.Errorf("parseGnomeEval(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseGVariantUint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint64
		wantErr  bool
	}{
		{"uint64", "(uint64 12345,)\n", 12345, false},
		{"uint32", "(uint32 7,)", 7, false},
		{"bare", "(42,)", 42, false},
		{"empty", "()", 0, true},
		{"not a number", "(uint64 abc,)", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGVariantUint(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseGVariantUint(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("parseGVariantUint(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIdleTimeMs(t *testing.T) {
	t.Run("gnome", func(t *testing.T) {
		runner := commontest.NewFakeRunner().On(mutterIdle, "(uint64 5000,)\n")
		detector := NewDetector(runner, envOf(map[string]string{"XDG_CURRENT_DESKTOP": "GNOME"}))

		idle, err := detector.IdleTimeMs()
		if err != nil || idle != 5000 {
			t.Errorf("IdleTimeMs() = %d, %v, want 5000, nil", idle, err)
		}
	})

	t.Run("kde", func(t *testing.T) {
		runner := commontest.NewFakeRunner().On(kdeIdle, "(uint32 1200,)\n")
		detector := NewDetector(runner, envOf(map[string]string{"XDG_CURRENT_DESKTOP": "KDE"}))

		idle, err := detector.IdleTimeMs()
		if err != nil || idle != 1200 {
			t.Errorf("IdleTimeMs() = %d, %v, want 1200, nil", idle, err)
		}
	})

	t.Run("gnome failure", func(t *testing.T) {
		runner := commontest.NewFakeRunner().Fail(mutterIdle, errors.New("no such service"))
		detector := NewDetector(runner, envOf(map[string]string{"XDG_CURRENT_DESKTOP": "GNOME"}))

		if _, err := detector.IdleTimeMs(); !probe.IsQueryFailed(err) {
			t.Errorf("IdleTimeMs() error = %v, want a QueryError", err)
		}
	})

	t.Run("unsupported compositor", func(t *testing.T) {
		detector := NewDetector(commontest.NewFakeRunner(), envOf(map[string]string{"SWAYSOCK": "s"}))
		if detector.SupportsIdle() {
			t.Error("SupportsIdle() = true for sway")
		}
		if _, err := detector.IdleTimeMs(); !probe.IsQueryFailed(err) {
			t.Errorf("IdleTimeMs() error = %v, want a QueryError", err)
		}
	})
}

func TestActiveWindowTitle(t *testing.T) {
	t.Run("sway", func(t *testing.T) {
		runner := commontest.NewFakeRunner().On("swaymsg -t get_tree",
			`{"type":"root","nodes":[{"type":"con","name":"foot","focused":true}]}`)
		detector := NewDetector(runner, envOf(map[string]string{"SWAYSOCK": "s"}))

		title, err := detector.ActiveWindowTitle()
		if err != nil || title != "foot" {
			t.Errorf("ActiveWindowTitle() = %q, %v, want foot, nil", title, err)
		}
	})

	t.Run("hyprland", func(t *testing.T) {
		runner := commontest.NewFakeRunner().On("hyprctl activewindow -j", `{"title":"btop"}`)
		detector := NewDetector(runner, envOf(map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "x"}))

		title, err := detector.ActiveWindowTitle()
		if err != nil || title != "btop" {
			t.Errorf("ActiveWindowTitle() = %q, %v, want btop, nil", title, err)
		}
	})

	t.Run("gnome", func(t *testing.T) {
		runner := commontest.NewFakeRunner().On(gnomeEval, `(true, '"Files"')`)
		detector := NewDetector(runner, envOf(map[string]string{"XDG_CURRENT_DESKTOP": "GNOME"}))

		title, err := detector.ActiveWindowTitle()
		if err != nil || title != "Files" {
			t.Errorf("ActiveWindowTitle() = %q, %v, want Files, nil", title, err)
		}
	})

	t.Run("tool failure is empty", func(t *testing.T) {
		runner := commontest.NewFakeRunner().Fail("swaymsg -t get_tree", errors.New("socket closed"))
		detector := NewDetector(runner, envOf(map[string]string{"SWAYSOCK": "s"}))

		title, err := detector.ActiveWindowTitle()
		if err != nil || title != "" {
			t.Errorf("ActiveWindowTitle() = %q, %v, want \"\", nil", title, err)
		}
	})

	t.Run("unknown compositor", func(t *testing.T) {
		runner := commontest.NewFakeRunner()
		detector := NewDetector(runner, envOf(nil))

		title, err := detector.ActiveWindowTitle()
		if err != nil || title != "" {
			t.Errorf("ActiveWindowTitle() = %q, %v, want \"\", nil", title, err)
		}
		if len(runner.Calls) != 0 {
			t.Errorf("unexpected commands: %v", runner.Calls)
		}
	})
}
