package poses

import (
	"fmt"
	"sort"
	"strings"
)

// Landmark is a normalized 2D body keypoint, origin top-left, coordinates in
// [0,1] relative to the frame dimensions.
type Landmark struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Spec describes one target pose.
type Spec struct {
	// ID is the stable identifier used as the photo store key.
	ID string `json:"id"`
	// Name is the short display name.
	Name string `json:"name"`
	// Description is the detailed target posture contract sent to the
	// analysis service verbatim.
	Description string `json:"description"`
	// ShortInstruction is the one-line guidance announced to the user.
	ShortInstruction string `json:"short_instruction"`
	// Order defines session progression; contiguous starting at 0.
	Order int `json:"order"`
	// Guide holds advisory overlay landmarks for this pose. Never used for
	// correctness decisions.
	Guide []Landmark `json:"guide,omitempty"`
}

// Catalog is an ordered, validated set of pose specs.
type Catalog struct {
	specs []Spec
}

// NewCatalog validates and orders the provided specs.
func NewCatalog(specs []Spec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("catalog requires at least one pose")
	}
	ordered := make([]Spec, len(specs))
	copy(ordered, specs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	seen := make(map[string]struct{}, len(ordered))
	for i, spec := range ordered {
		id := strings.TrimSpace(spec.ID)
		if id == "" {
			return nil, fmt.Errorf("pose at order %d has empty id", spec.Order)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate pose id %q", id)
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(spec.Description) == "" {
			return nil, fmt.Errorf("pose %q has empty description", id)
		}
		if spec.Order != i {
			return nil, fmt.Errorf("pose order must be contiguous from 0: pose %q has order %d, expected %d", id, spec.Order, i)
		}
	}
	return &Catalog{specs: ordered}, nil
}

// Default returns the built-in capture catalog.
func Default() *Catalog {
	catalog, err := NewCatalog(builtinSpecs())
	if err != nil {
		// The built-in set is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return catalog
}

// Len returns the number of poses.
func (c *Catalog) Len() int {
	return len(c.specs)
}

// At returns the pose at the given index.
func (c *Catalog) At(index int) (Spec, bool) {
	if index < 0 || index >= len(c.specs) {
		return Spec{}, false
	}
	return c.specs[index], true
}

// ByID returns the pose with the given id.
func (c *Catalog) ByID(id string) (Spec, bool) {
	for _, spec := range c.specs {
		if spec.ID == id {
			return spec, true
		}
	}
	return Spec{}, false
}

// Specs returns a copy of the ordered pose list.
func (c *Catalog) Specs() []Spec {
	cp := make([]Spec, len(c.specs))
	copy(cp, c.specs)
	return cp
}

func builtinSpecs() []Spec {
	return []Spec{
		{
			ID:   "front",
			Name: "front",
			Description: "Standing upright facing the camera directly, feet shoulder-width apart, " +
				"arms held slightly away from the torso at roughly 30 degrees, palms facing forward, " +
				"head level and looking straight ahead. The full body from head to feet is visible in frame.",
			ShortInstruction: "Face the camera, arms slightly out from your sides",
			Order:            0,
			Guide: []Landmark{
				{Name: "head", X: 0.50, Y: 0.10},
				{Name: "left_shoulder", X: 0.38, Y: 0.24},
				{Name: "right_shoulder", X: 0.62, Y: 0.24},
				{Name: "left_wrist", X: 0.28, Y: 0.52},
				{Name: "right_wrist", X: 0.72, Y: 0.52},
				{Name: "left_hip", X: 0.43, Y: 0.55},
				{Name: "right_hip", X: 0.57, Y: 0.55},
				{Name: "left_ankle", X: 0.44, Y: 0.93},
				{Name: "right_ankle", X: 0.56, Y: 0.93},
			},
		},
		{
			ID:   "side",
			Name: "side",
			Description: "Standing upright with the left side of the body toward the camera, feet together, " +
				"arms hanging relaxed along the sides of the body, shoulders back in a natural posture, " +
				"head facing forward in profile. The full body from head to feet is visible in frame.",
			ShortInstruction: "Turn left side to the camera, arms relaxed",
			Order:            1,
			Guide: []Landmark{
				{Name: "head", X: 0.50, Y: 0.10},
				{Name: "shoulder", X: 0.50, Y: 0.24},
				{Name: "wrist", X: 0.52, Y: 0.52},
				{Name: "hip", X: 0.50, Y: 0.55},
				{Name: "knee", X: 0.50, Y: 0.75},
				{Name: "ankle", X: 0.50, Y: 0.93},
			},
		},
		{
			ID:   "back",
			Name: "back",
			Description: "Standing upright with the back fully toward the camera, feet shoulder-width apart, " +
				"arms held slightly away from the torso at roughly 30 degrees, palms facing backward, " +
				"head level. The full body from head to feet is visible in frame.",
			ShortInstruction: "Turn your back to the camera, arms slightly out",
			Order:            2,
			Guide: []Landmark{
				{Name: "head", X: 0.50, Y: 0.10},
				{Name: "left_shoulder", X: 0.62, Y: 0.24},
				{Name: "right_shoulder", X: 0.38, Y: 0.24},
				{Name: "left_wrist", X: 0.72, Y: 0.52},
				{Name: "right_wrist", X: 0.28, Y: 0.52},
				{Name: "left_hip", X: 0.57, Y: 0.55},
				{Name: "right_hip", X: 0.43, Y: 0.55},
				{Name: "left_ankle", X: 0.56, Y: 0.93},
				{Name: "right_ankle", X: 0.44, Y: 0.93},
			},
		},
	}
}
