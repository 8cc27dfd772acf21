package prompts

import (
	"fmt"
	"strings"

	"github.com/virlife/worldsim/pkg/world"
)

const keyMomentWindow = 2

// WorldLedger renders a compact plain-text slice of the world document for
// prompt inclusion: current time, collapsed location line, activities, the
// relationship tone, and the last few key moments. It deliberately omits
// facts and threads, which enter other blocks when relevant.
func WorldLedger(doc *world.Document) string {
	var b strings.Builder
	b.WriteString("WORLD LEDGER\n")
	fmt.Fprintf(&b, "Time: %s (day %d off-grid, %s)\n",
		doc.Time.CurrentDatetime.Format("Monday 15:04"),
		doc.Time.DaysIntoOffgrid,
		doc.Time.TimeOfDay)

	if doc.Together() {
		fmt.Fprintf(&b, "Location: together in %s\n", doc.Locations.Rebecca.Name())
	} else {
		fmt.Fprintf(&b, "Location: George in %s, Rebecca in %s\n",
			doc.Locations.George.Name(), doc.Locations.Rebecca.Name())
	}

	if doc.Activities.Shared != nil {
		fmt.Fprintf(&b, "Activity: %s (together)\n", doc.Activities.Shared.Description)
	} else {
		if doc.Activities.George != nil {
			fmt.Fprintf(&b, "George: %s\n", doc.Activities.George.Description)
		}
		if doc.Activities.Rebecca != nil {
			fmt.Fprintf(&b, "Rebecca: %s\n", doc.Activities.Rebecca.Description)
		}
	}

	if doc.Relationship.OverallTone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", doc.Relationship.OverallTone)
	}

	moments := doc.Relationship.RecentKeyMoments
	if len(moments) > keyMomentWindow {
		moments = moments[len(moments)-keyMomentWindow:]
	}
	for _, m := range moments {
		fmt.Fprintf(&b, "Recent: %s\n", m)
	}

	return strings.TrimRight(b.String(), "\n")
}
