package loader

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Loader
		wantErr bool
	}{
		{name: "fabric", input: "fabric", want: Fabric},
		{name: "forge", input: "forge", want: Forge},
		{name: "case and whitespace normalized", input: "  FoRgE ", want: Forge},
		{name: "quilt rejected", input: "quilt", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownLoader) {
					t.Fatalf("Parse(%q) error = %v, want ErrUnknownLoader", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTypeID(t *testing.T) {
	t.Parallel()

	if Forge.TypeID() != 1 {
		t.Fatalf("Forge.TypeID() = %d, want 1", Forge.TypeID())
	}
	if Fabric.TypeID() != 4 {
		t.Fatalf("Fabric.TypeID() = %d, want 4", Fabric.TypeID())
	}
	if Loader("quilt").TypeID() != 0 {
		t.Fatalf("unknown loader should map to 0")
	}
}
