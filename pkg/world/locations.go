package world

import "strings"

// Location identifies a place in the simulated world. Indoor locations use
// the "house:" prefix and form a connectivity graph; outdoor locations use
// the "outside:" prefix and are reachable only by leaving the house.
type Location string

const (
	LocKitchen  Location = "house:kitchen"
	LocLounge   Location = "house:lounge"
	LocBedroom  Location = "house:bedroom"
	LocHallway  Location = "house:hallway"
	LocBathroom Location = "house:bathroom"
	LocGarden   Location = "house:garden"

	LocCafe   Location = "outside:cafe"
	LocPark   Location = "outside:park"
	LocStreet Location = "outside:street"
	LocShop   Location = "outside:shop"
)

// HouseConnections is the adjacency list for indoor movement. The hallway is
// the hub; the garden is reached through the kitchen.
var HouseConnections = map[Location][]Location{
	LocKitchen:  {LocHallway, LocLounge, LocGarden},
	LocLounge:   {LocHallway, LocKitchen},
	LocBedroom:  {LocHallway},
	LocHallway:  {LocKitchen, LocLounge, LocBedroom, LocBathroom},
	LocBathroom: {LocHallway},
	LocGarden:   {LocKitchen},
}

var locationNames = map[Location]string{
	LocKitchen:  "the kitchen",
	LocLounge:   "the lounge",
	LocBedroom:  "the bedroom",
	LocHallway:  "the hallway",
	LocBathroom: "the bathroom",
	LocGarden:   "the garden",
	LocCafe:     "the café",
	LocPark:     "the park",
	LocStreet:   "the street",
	LocShop:     "the shop",
}

// IsIndoor reports whether l is inside the house.
func (l Location) IsIndoor() bool {
	return strings.HasPrefix(string(l), "house:")
}

// IsOutdoor reports whether l is outside the house.
func (l Location) IsOutdoor() bool {
	return strings.HasPrefix(string(l), "outside:")
}

// Name returns the human-readable name for l, falling back to the raw
// identifier for unknown locations.
func (l Location) Name() string {
	if name, ok := locationNames[l]; ok {
		return name
	}
	return string(l)
}

// AreAdjacent reports whether two indoor locations connect directly.
func AreAdjacent(from, to Location) bool {
	for _, next := range HouseConnections[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PathBetween returns the shortest indoor route from one house location to
// another, inclusive of both endpoints. If no route exists through the
// connectivity graph it falls back to the direct pair.
func PathBetween(from, to Location) []Location {
	if from == to {
		return []Location{from}
	}

	type node struct {
		loc  Location
		path []Location
	}

	visited := map[Location]bool{from: true}
	queue := []node{{loc: from, path: []Location{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range HouseConnections[current.loc] {
			if visited[next] {
				continue
			}
			path := append(append([]Location{}, current.path...), next)
			if next == to {
				return path
			}
			visited[next] = true
			queue = append(queue, node{loc: next, path: path})
		}
	}

	return []Location{from, to}
}
