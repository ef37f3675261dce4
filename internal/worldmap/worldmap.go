// Package worldmap parses town map files into interactable area
// definitions. Maps use the Tiled JSON export format: area regions are
// objects on an object layer, classed by the interactable kind they
// define.
package worldmap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mcoot/townsquare-go/internal/model"
)

// Object class names recognized on the map's object layers
const (
	ClassConversationArea  = "ConversationArea"
	ClassViewingArea       = "ViewingArea"
	ClassPosterSessionArea = "PosterSessionArea"
)

type tiledMap struct {
	Layers []tiledLayer `json:"layers"`
}

type tiledLayer struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Objects []tiledObject `json:"objects"`
}

type tiledObject struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Class  string  `json:"class"` // newer Tiled exports use class over type
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (o tiledObject) class() string {
	if o.Class != "" {
		return o.Class
	}
	return o.Type
}

// Load reads and parses a map file
func Load(path string) ([]model.AreaDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return Parse(data)
}

// Parse extracts the interactable area definitions from a Tiled JSON map
// and validates the layout. A map with no object layer, duplicate area
// ids, or overlapping areas is unusable: the error is fatal to town
// creation and must abort it.
func Parse(data []byte) ([]model.AreaDefinition, error) {
	var m tiledMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing map: %w", err)
	}

	var objects []tiledObject
	found := false
	for _, layer := range m.Layers {
		if layer.Type != "objectgroup" {
			continue
		}
		found = true
		objects = append(objects, layer.Objects...)
	}
	if !found {
		return nil, model.ErrMapMissingObjectLayer
	}

	var defs []model.AreaDefinition
	for _, obj := range objects {
		var kind model.InteractableKind
		switch obj.class() {
		case ClassConversationArea:
			kind = model.KindConversationArea
		case ClassViewingArea:
			kind = model.KindViewingArea
		case ClassPosterSessionArea:
			kind = model.KindPosterSessionArea
		default:
			// Maps carry decorative objects too; only area classes matter
			continue
		}

		defs = append(defs, model.AreaDefinition{
			Kind: kind,
			ID:   model.InteractableID(obj.Name),
			Box: model.BoundingBox{
				X:      obj.X,
				Y:      obj.Y,
				Width:  obj.Width,
				Height: obj.Height,
			},
		})
	}

	if err := validate(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func validate(defs []model.AreaDefinition) error {
	seen := make(map[model.InteractableID]bool, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return fmt.Errorf("%w: area of kind %q has no name", model.ErrMapDuplicateArea, def.Kind)
		}
		if seen[def.ID] {
			return fmt.Errorf("%w: %q", model.ErrMapDuplicateArea, def.ID)
		}
		seen[def.ID] = true
	}

	for i := 0; i < len(defs); i++ {
		for j := i + 1; j < len(defs); j++ {
			if defs[i].Box.Overlaps(defs[j].Box) {
				return fmt.Errorf("%w: %q and %q", model.ErrMapOverlappingAreas, defs[i].ID, defs[j].ID)
			}
		}
	}
	return nil
}
