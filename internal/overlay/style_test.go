package overlay

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinStyles(t *testing.T) {
	for _, name := range []string{"default", "minimal", "racing"} {
		style, err := BuiltinStyle(name)
		if err != nil {
			t.Fatalf("BuiltinStyle(%q): %v", name, err)
		}
		if err := style.Validate(); err != nil {
			t.Errorf("builtin style %q fails validation: %v", name, err)
		}
		if !style.Speed {
			t.Errorf("builtin style %q should draw speed", name)
		}
	}

	if _, err := BuiltinStyle("nope"); err == nil {
		t.Error("expected error for unknown style name")
	}
}

func TestLoadStyle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	data := `name: custom
units: mph
speed: true
gForce: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	style, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("LoadStyle: %v", err)
	}
	if style.Name != "custom" || style.Units != UnitsMph {
		t.Errorf("unexpected style: %+v", style)
	}
	if style.FontSize != defaultFontSize {
		t.Errorf("font size default not applied: %v", style.FontSize)
	}
	if style.GPS || style.Altitude {
		t.Errorf("widgets not named in the file must stay off: %+v", style)
	}
}

func TestLoadStyleInvalidUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	if err := os.WriteFile(path, []byte("units: parsecs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStyle(path); err == nil {
		t.Fatal("expected validation error for invalid units")
	}
}
