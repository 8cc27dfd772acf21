package prompts

import (
	"fmt"

	"github.com/virlife/worldsim/pkg/world"
)

// sceneFlavor gives each known location a short sensory line. Unknown
// locations fall back to the bare name so the prompt never breaks when the
// reducer invents a place.
var sceneFlavor = map[world.Location]string{
	world.LocKitchen:  "morning light through the kitchen window, the kettle within reach",
	world.LocLounge:   "the lounge, sofa cushions still dented from last night",
	world.LocBedroom:  "the bedroom, duvet half-made, clothes over the chair",
	world.LocHallway:  "the hallway, coats on hooks, shoes by the door",
	world.LocBathroom: "the bathroom, mirror fogged at the edges",
	world.LocGarden:   "the garden, grass damp, a blackbird somewhere in the hedge",
	world.LocCafe:     "the café round the corner, milk steam and low chatter",
	world.LocPark:     "the park, dog walkers in the distance, leaves moving",
	world.LocStreet:   "the street outside, ordinary Leeds traffic",
	world.LocShop:     "the corner shop, narrow aisles, a bell over the door",
}

var timeFlavor = map[world.TimeOfDay]string{
	world.EarlyMorning: "The day is just starting; everything is slow and quiet.",
	world.LateMorning:  "Mid-morning. The house has warmed up and the day has shape.",
	world.Afternoon:    "Afternoon light, unhurried.",
	world.Evening:      "Evening. The lamps are on and the day is winding down.",
	world.LateNight:    "Late. The house is dark and the world outside is silent.",
}

// SceneDescription renders the current-scene block from the world document:
// where the characters are, with sensory flavor, plus a time-of-day line.
func SceneDescription(doc *world.Document) string {
	var place string
	if doc.Together() {
		place = fmt.Sprintf("George and Rebecca are together in %s.", flavorFor(doc.Locations.Rebecca))
	} else {
		place = fmt.Sprintf("George is in %s. Rebecca is in %s.",
			flavorFor(doc.Locations.George), flavorFor(doc.Locations.Rebecca))
	}
	return "CURRENT SCENE\n" + place + " " + timeFlavorFor(doc.Time.TimeOfDay)
}

func timeFlavorFor(bucket world.TimeOfDay) string {
	if f, ok := timeFlavor[bucket]; ok {
		return f
	}
	return string(bucket)
}

func flavorFor(loc world.Location) string {
	if f, ok := sceneFlavor[loc]; ok {
		return f
	}
	return loc.Name()
}
