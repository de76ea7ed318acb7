package systems

import (
	"astrogation-service/internal/domain"
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseTabDelimited reads Traveller Map's tab-delimited sector format.
// The first non-comment line is the header; columns are matched by name so
// extra or reordered columns are tolerated. Hex and UWP columns are required.
func ParseTabDelimited(r io.Reader, sector string) ([]domain.System, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cols map[string]int
	out := make([]domain.System, 0, 256)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")

		if cols == nil {
			cols = make(map[string]int, len(fields))
			for i, f := range fields {
				cols[strings.TrimSpace(f)] = i
			}
			if _, ok := cols["Hex"]; !ok {
				return nil, fmt.Errorf("parse sector %q: header has no Hex column", sector)
			}
			if _, ok := cols["UWP"]; !ok {
				return nil, fmt.Errorf("parse sector %q: header has no UWP column", sector)
			}
			continue
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		hex := field("Hex")
		if hex == "" {
			return nil, fmt.Errorf("parse sector %q: line %d: empty hex", sector, line)
		}

		out = append(out, domain.System{
			Sector:    sector,
			Hex:       hex,
			Name:      field("Name"),
			UWP:       field("UWP"),
			Remarks:   field("Remarks"),
			Zone:      parseZone(field("Zone")),
			GasGiants: gasGiants(field("PBG")),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse sector %q: %w", sector, err)
	}
	if cols == nil {
		return nil, fmt.Errorf("parse sector %q: no header", sector)
	}

	return out, nil
}

func parseZone(z string) domain.Zone {
	switch strings.ToUpper(z) {
	case "A":
		return domain.ZoneAmber
	case "R":
		return domain.ZoneRed
	}
	return domain.ZoneGreen
}

// gasGiants reads the G digit of a PBG triple (population multiplier,
// belts, gas giants).
func gasGiants(pbg string) int {
	if len(pbg) < 3 {
		return 0
	}
	c := pbg[2]
	if c < '0' || c > '9' {
		return 0
	}
	return int(c - '0')
}
