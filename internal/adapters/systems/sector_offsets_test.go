package systems

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSectorOffsets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offsets.yaml")
	body := "sectors:\n" +
		"  Spinward   Marches: {x: -4, y: -1}\n" +
		"  Home:\n" +
		"    x: 7\n" +
		"    y: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write offsets: %v", err)
	}

	got, err := LoadSectorOffsets(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if off, ok := got["Spinward Marches"]; !ok || off.X != -4 || off.Y != -1 {
		t.Fatalf("unexpected Spinward Marches offset: %+v ok=%v", off, ok)
	}
	if off, ok := got["Home"]; !ok || off.X != 7 || off.Y != 2 {
		t.Fatalf("unexpected Home offset: %+v ok=%v", off, ok)
	}
}

func TestLoadSectorOffsetsMissingFile(t *testing.T) {
	if _, err := LoadSectorOffsets(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
