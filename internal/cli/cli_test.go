package cli

import (
	"io"
	"testing"

	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"layout", "render", "serve", "cache", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"svg,png,json", []string{"svg", "png", "json"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestParseOverrides(t *testing.T) {
	got, err := parseOverrides([]string{
		"node distance=2.5",
		"iterations=800",
		"coarsen=false",
		"algorithm=layered",
	})
	if err != nil {
		t.Fatalf("parseOverrides() = %v", err)
	}
	if got["node distance"] != 2.5 {
		t.Errorf("node distance = %v (%T), want 2.5", got["node distance"], got["node distance"])
	}
	if got["iterations"] != int64(800) {
		t.Errorf("iterations = %v (%T), want int64(800)", got["iterations"], got["iterations"])
	}
	if got["coarsen"] != false {
		t.Errorf("coarsen = %v, want false", got["coarsen"])
	}
	if got["algorithm"] != "layered" {
		t.Errorf("algorithm = %v, want layered", got["algorithm"])
	}

	if _, err := parseOverrides([]string{"no equals sign"}); !gderrors.Is(err, gderrors.ErrCodeInvalidOption) {
		t.Errorf("malformed pair = %v, want INVALID_OPTION", err)
	}

	if got, err := parseOverrides(nil); err != nil || got != nil {
		t.Errorf("parseOverrides(nil) = %v, %v", got, err)
	}
}
