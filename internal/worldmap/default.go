package worldmap

import (
	_ "embed"

	"github.com/mcoot/townsquare-go/internal/model"
)

//go:embed maps/indoors.json
var defaultMap []byte

// Default returns the area definitions of the built-in town map, used
// when a town is created without a map file.
func Default() []model.AreaDefinition {
	defs, err := Parse(defaultMap)
	if err != nil {
		// The embedded map is validated by tests; reaching this means the
		// binary itself is broken.
		panic(err)
	}
	return defs
}
