package advisor

import (
	"encoding/json"
	"fmt"
	"os"

	"bodywise/internal/poses"
	"bodywise/internal/services"
)

// Advisor supplies guide landmark templates shown while a person lines up a
// pose. Templates default to the catalog's built-in guides and may be
// replaced wholesale from a JSON file.
type Advisor struct {
	guides map[string][]poses.Landmark
	ready  bool
}

// New builds an advisor from the catalog's built-in guide templates.
func New(catalog *poses.Catalog) *Advisor {
	guides := make(map[string][]poses.Landmark, catalog.Len())
	for _, spec := range catalog.Specs() {
		guides[spec.ID] = append([]poses.Landmark(nil), spec.Guide...)
	}
	return &Advisor{guides: guides, ready: true}
}

// NewFromFile loads guide templates from a JSON file keyed by pose id.
// Poses absent from the file fall back to their catalog guides.
func NewFromFile(catalog *poses.Catalog, path string) (*Advisor, error) {
	advisor := New(catalog)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "advisor", "load",
			fmt.Sprintf("read guide template file %s", path), err)
	}

	var overrides map[string][]poses.Landmark
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "advisor", "load",
			fmt.Sprintf("parse guide template file %s", path), err)
	}

	for id, guide := range overrides {
		if _, known := catalog.ByID(id); !known {
			return nil, services.Wrap(services.ErrConfiguration, "advisor", "load",
				fmt.Sprintf("guide template references unknown pose %q", id), nil)
		}
		advisor.guides[id] = guide
	}
	return advisor, nil
}

// Ready reports whether guide templates are loaded. The controller treats an
// unready advisor as an unmet prerequisite.
func (a *Advisor) Ready() bool {
	return a != nil && a.ready
}

// Guide returns the template landmarks for a pose, or nil when none exist.
func (a *Advisor) Guide(spec poses.Spec) []poses.Landmark {
	if a == nil {
		return nil
	}
	guide, ok := a.guides[spec.ID]
	if !ok {
		return nil
	}
	return append([]poses.Landmark(nil), guide...)
}
