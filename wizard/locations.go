package wizard

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var locationsYAML []byte

// Locations is the static province → district → city lookup table.
// Order follows the source file so dropdowns render in a stable order.
type Locations struct {
	provinces []string
	districts map[string][]string // by province
	cities    map[string][]string // by district
	parent    map[string]string   // district -> province
}

// DefaultLocations is parsed from the embedded table at start-up.
var DefaultLocations = mustParseLocations(locationsYAML)

func mustParseLocations(raw []byte) *Locations {
	l, err := ParseLocations(raw)
	if err != nil {
		panic(fmt.Sprintf("wizard: embedded locations: %v", err))
	}
	return l
}

// ParseLocations reads a two-level YAML mapping of province → district → [cities].
func ParseLocations(raw []byte) (*Locations, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse locations: top level must be a mapping")
	}

	l := &Locations{
		districts: map[string][]string{},
		cities:    map[string][]string{},
		parent:    map[string]string{},
	}
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		province := root.Content[i].Value
		dnode := root.Content[i+1]
		if dnode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse locations: province %q must map districts", province)
		}
		l.provinces = append(l.provinces, province)
		for j := 0; j+1 < len(dnode.Content); j += 2 {
			district := dnode.Content[j].Value
			if prev, dup := l.parent[district]; dup {
				return nil, fmt.Errorf("parse locations: district %q listed under %q and %q", district, prev, province)
			}
			var cities []string
			if err := dnode.Content[j+1].Decode(&cities); err != nil {
				return nil, fmt.Errorf("parse locations: cities of %q: %w", district, err)
			}
			l.districts[province] = append(l.districts[province], district)
			l.cities[district] = cities
			l.parent[district] = province
		}
	}
	return l, nil
}

func (l *Locations) Provinces() []string { return append([]string(nil), l.provinces...) }

// Districts returns nil for an unknown province.
func (l *Locations) Districts(province string) []string {
	return append([]string(nil), l.districts[province]...)
}

// Cities returns nil for an unknown district.
func (l *Locations) Cities(district string) []string {
	return append([]string(nil), l.cities[district]...)
}

func (l *Locations) ValidProvince(province string) bool {
	_, ok := l.districts[province]
	return ok
}

// ValidDistrict reports whether district belongs to province.
func (l *Locations) ValidDistrict(province, district string) bool {
	p, ok := l.parent[district]
	return ok && p == province
}

// ValidCity reports whether city belongs to district.
func (l *Locations) ValidCity(district, city string) bool {
	for _, c := range l.cities[district] {
		if c == city {
			return true
		}
	}
	return false
}
