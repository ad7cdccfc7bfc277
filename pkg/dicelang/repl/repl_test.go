package repl

import (
	"strings"
	"testing"

	"github.com/ewens/dicelang/pkg/dicelang"
	"github.com/ewens/dicelang/pkg/dicelang/operator"
)

func TestHandleCommandMode(t *testing.T) {
	opts := Options{Mode: dicelang.ModeNormal}
	var out strings.Builder

	if quit := handleCommand(":mode average", &opts, &out); quit {
		t.Fatal("setting the mode should not quit")
	}
	if opts.Mode != dicelang.ModeAverage {
		t.Errorf("Mode = %v, want average", opts.Mode)
	}

	out.Reset()
	handleCommand(":mode", &opts, &out)
	if !strings.Contains(out.String(), "average") {
		t.Errorf("mode query output = %q", out.String())
	}

	out.Reset()
	handleCommand(":mode chaotic", &opts, &out)
	if opts.Mode != dicelang.ModeAverage {
		t.Error("unknown mode should leave the setting untouched")
	}
	if !strings.Contains(out.String(), "Unknown mode") {
		t.Errorf("output = %q", out.String())
	}
}

func TestHandleCommandVerboseToggles(t *testing.T) {
	opts := Options{}
	var out strings.Builder
	handleCommand(":verbose", &opts, &out)
	if !opts.Verbose {
		t.Error("first toggle should enable verbose")
	}
	handleCommand(":verbose", &opts, &out)
	if opts.Verbose {
		t.Error("second toggle should disable verbose")
	}
}

func TestHandleCommandSeed(t *testing.T) {
	old := operator.SetSource(operator.NewSource(1))
	defer operator.SetSource(old)

	opts := Options{}
	var out strings.Builder
	handleCommand(":seed 42", &opts, &out)
	if !strings.Contains(out.String(), "42") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	handleCommand(":seed nope", &opts, &out)
	if !strings.Contains(out.String(), "Invalid seed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestHandleCommandQuit(t *testing.T) {
	opts := Options{}
	var out strings.Builder
	if quit := handleCommand(":quit", &opts, &out); !quit {
		t.Error(":quit should quit")
	}
	if quit := handleCommand(":help", &opts, &out); quit {
		t.Error(":help should not quit")
	}
	if quit := handleCommand(":bogus", &opts, &out); quit {
		t.Error("unknown commands should not quit")
	}
}

func TestRollAndPrint(t *testing.T) {
	old := operator.SetSource(operator.NewSource(7))
	defer operator.SetSource(old)

	var out strings.Builder
	rollAndPrint("2+3", Options{Mode: dicelang.ModeNormal}, &out)
	if got := strings.TrimSpace(out.String()); got != "5" {
		t.Errorf("output = %q, want 5", got)
	}

	out.Reset()
	rollAndPrint("2+3", Options{Mode: dicelang.ModeNormal, Verbose: true}, &out)
	if got := strings.TrimSpace(out.String()); got != "2+3 = 5" {
		t.Errorf("verbose output = %q, want %q", got, "2+3 = 5")
	}

	out.Reset()
	rollAndPrint("1dd4", Options{}, &out)
	if !strings.Contains(out.String(), "Failed to construct") {
		t.Errorf("error output = %q", out.String())
	}
}

func TestFilterCompletions(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{":m", ":mode"},
		{"1d20 :h", ":help"},
		{"aver", "average"},
	}
	for _, tt := range tests {
		matches := filterCompletions(tt.line)
		found := false
		for _, m := range matches {
			if m == tt.want {
				found = true
			}
		}
		if !found {
			t.Errorf("filterCompletions(%q) = %v, want to include %q", tt.line, matches, tt.want)
		}
	}
	if got := filterCompletions("   "); got != nil {
		t.Errorf("blank line should not complete, got %v", got)
	}
	if got := filterCompletions("1d20 "); got != nil {
		t.Errorf("trailing space should not complete, got %v", got)
	}
}
