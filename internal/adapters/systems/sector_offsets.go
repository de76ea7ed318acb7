package systems

import (
	"astrogation-service/internal/domain"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type sectorOffsetsFile struct {
	Sectors map[string]domain.SectorOffset `yaml:"sectors"`
}

// LoadSectorOffsets reads static sector offsets from a YAML file:
//
//	sectors:
//	  Spinward Marches: {x: -4, y: -1}
//
// Entries take precedence over the coordinates API.
func LoadSectorOffsets(path string) (map[string]domain.SectorOffset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load sector offsets: read %q: %w", path, err)
	}

	var f sectorOffsetsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("load sector offsets: parse %q: %w", path, err)
	}

	out := make(map[string]domain.SectorOffset, len(f.Sectors))
	for name, off := range f.Sectors {
		n := normalize(name)
		if n == "" {
			return nil, fmt.Errorf("load sector offsets: empty sector name in %q", path)
		}
		out[n] = off
	}
	return out, nil
}

// normalize collapses whitespace so cache keys are consistent.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
