package redis

import (
	"fmt"

	"github.com/mcoot/townsquare-go/internal/model"
)

// Key prefix for all town-related data
const keyPrefix = "townsq"

// imageKey returns the Redis key for a poster image
func imageKey(townID model.TownID, areaID model.InteractableID) string {
	return fmt.Sprintf("%s:poster:%s:%s", keyPrefix, townID, areaID)
}

// imagesForTownIndexKey returns the Redis key for the SET of poster keys in a town
func imagesForTownIndexKey(townID model.TownID) string {
	return fmt.Sprintf("%s:idx:posters_for_town:%s", keyPrefix, townID)
}
