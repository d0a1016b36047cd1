package cmd

import (
	"errors"
	"testing"

	"github.com/langpack/mod-lang-updater/internal/loader"
	"github.com/spf13/cobra"
)

func TestUsageArgsWrapsValidationErrors(t *testing.T) {
	wrapped := usageArgs(cobra.ExactArgs(1))
	cmd := &cobra.Command{Use: "test"}

	if err := wrapped(cmd, []string{"ok"}); err != nil {
		t.Fatalf("usageArgs returned unexpected error for valid args: %v", err)
	}

	err := wrapped(cmd, nil)
	if err == nil {
		t.Fatalf("usageArgs should return an error for invalid args")
	}
	if !isUsageError(err) {
		t.Fatalf("usageArgs error should be marked as usage error: %v", err)
	}
}

func TestIsUsageError(t *testing.T) {
	if !isUsageError(wrapUsageError(errors.New("bad args"))) {
		t.Fatalf("wrapped usage error not detected")
	}
	if !isUsageError(errors.New(`unknown command "foo" for "mod-lang-updater"`)) {
		t.Fatalf("unknown command error should be treated as usage error")
	}
	if isUsageError(errors.New("runtime failure")) {
		t.Fatalf("runtime failure should not be treated as usage error")
	}
}

func TestPositional(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		profileLoader  string
		profileVersion string
		wantLoader     loader.Loader
		wantVersion    string
		wantTarget     string
		wantErr        bool
	}{
		{name: "all three", args: []string{"Fabric", "1.18.2", "394468"}, wantLoader: loader.Fabric, wantVersion: "1.18.2", wantTarget: "394468"},
		{name: "forge all", args: []string{"forge", " 1.19 ", "all"}, wantLoader: loader.Forge, wantVersion: "1.19", wantTarget: "all"},
		{name: "from profile", args: []string{"all"}, profileLoader: "forge", profileVersion: "1.16.5", wantLoader: loader.Forge, wantVersion: "1.16.5", wantTarget: "all"},
		{name: "target only without profile", args: []string{"all"}, wantErr: true},
		{name: "two args", args: []string{"fabric", "1.18.2"}, wantErr: true},
		{name: "unknown loader", args: []string{"quilt", "1.18.2", "1"}, wantErr: true},
		{name: "empty version", args: []string{"fabric", "", "1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profileLoader, profileVersion = tt.profileLoader, tt.profileVersion
			t.Cleanup(func() { profileLoader, profileVersion = "", "" })

			l, version, target, err := positional(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("positional(%q) expected error, got nil", tt.args)
				}
				if !isUsageError(err) {
					t.Fatalf("positional(%q) error should be a usage error: %v", tt.args, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("positional(%q) unexpected error: %v", tt.args, err)
			}
			if l != tt.wantLoader || version != tt.wantVersion || target != tt.wantTarget {
				t.Fatalf("positional(%q) = %q, %q, %q; want %q, %q, %q",
					tt.args, l, version, target, tt.wantLoader, tt.wantVersion, tt.wantTarget)
			}
		})
	}
}
