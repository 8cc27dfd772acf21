package prompts

import (
	"strings"
	"testing"

	"github.com/virlife/worldsim/pkg/world"
)

func TestWorldLedger_Together(t *testing.T) {
	doc := world.NewDocument()
	ledger := WorldLedger(doc)

	if !strings.HasPrefix(ledger, "WORLD LEDGER\n") {
		t.Errorf("Expected ledger header, got %q", ledger)
	}
	if !strings.Contains(ledger, "Time: Monday 08:00 (day 0 off-grid, early_morning)") {
		t.Errorf("Expected formatted time line, got:\n%s", ledger)
	}
	// Shared location collapses to one line.
	if !strings.Contains(ledger, "Location: together in the kitchen") {
		t.Errorf("Expected collapsed location line, got:\n%s", ledger)
	}
	if strings.Contains(ledger, "George in") {
		t.Error("Together characters should not get per-person location lines")
	}
	if !strings.Contains(ledger, "Rebecca: making coffee") {
		t.Errorf("Expected Rebecca's activity, got:\n%s", ledger)
	}
	if !strings.Contains(ledger, "Tone: warm") {
		t.Errorf("Expected the relationship tone, got:\n%s", ledger)
	}
	if strings.HasSuffix(ledger, "\n") {
		t.Error("Ledger should not end with a newline")
	}
}

func TestWorldLedger_Apart(t *testing.T) {
	doc := world.NewDocument()
	doc.MoveGeorge(world.LocLounge)

	ledger := WorldLedger(doc)
	if !strings.Contains(ledger, "Location: George in the lounge, Rebecca in the kitchen") {
		t.Errorf("Expected per-person location line, got:\n%s", ledger)
	}
}

func TestWorldLedger_SharedActivity(t *testing.T) {
	doc := world.NewDocument()
	doc.SetSharedActivity("cooking dinner")

	ledger := WorldLedger(doc)
	if !strings.Contains(ledger, "Activity: cooking dinner (together)") {
		t.Errorf("Expected shared activity line, got:\n%s", ledger)
	}
	if strings.Contains(ledger, "Rebecca: making coffee") {
		t.Error("Individual activities should be gone after a shared one starts")
	}
}

func TestWorldLedger_KeyMomentWindow(t *testing.T) {
	doc := world.NewDocument()
	doc.Relationship.RecentKeyMoments = []string{"first", "second", "third", "fourth"}

	ledger := WorldLedger(doc)
	if strings.Contains(ledger, "Recent: first") || strings.Contains(ledger, "Recent: second") {
		t.Errorf("Expected only the newest moments, got:\n%s", ledger)
	}
	if !strings.Contains(ledger, "Recent: third") || !strings.Contains(ledger, "Recent: fourth") {
		t.Errorf("Expected the last two moments, got:\n%s", ledger)
	}
}

func TestSceneDescription(t *testing.T) {
	doc := world.NewDocument()
	scene := SceneDescription(doc)

	if !strings.HasPrefix(scene, "CURRENT SCENE\n") {
		t.Errorf("Expected scene header, got %q", scene)
	}
	if !strings.Contains(scene, "George and Rebecca are together in") {
		t.Errorf("Expected together phrasing, got %q", scene)
	}
	if !strings.Contains(scene, "kitchen window") {
		t.Errorf("Expected kitchen flavor, got %q", scene)
	}
	if !strings.Contains(scene, "slow and quiet") {
		t.Errorf("Expected early-morning time flavor, got %q", scene)
	}
}

func TestSceneDescription_Apart(t *testing.T) {
	doc := world.NewDocument()
	doc.MoveRebecca(world.LocGarden)

	scene := SceneDescription(doc)
	if !strings.Contains(scene, "George is in") || !strings.Contains(scene, "Rebecca is in") {
		t.Errorf("Expected per-person phrasing, got %q", scene)
	}
	if !strings.Contains(scene, "blackbird") {
		t.Errorf("Expected garden flavor, got %q", scene)
	}
}

func TestSceneDescription_UnknownTimeBucketFallsBack(t *testing.T) {
	doc := world.NewDocument()
	doc.Time.TimeOfDay = world.TimeOfDay("dusk")

	scene := SceneDescription(doc)
	if !strings.HasSuffix(scene, "dusk") {
		t.Errorf("Expected raw bucket fallback, got %q", scene)
	}
}

func TestSceneDescription_UnknownLocationFallsBack(t *testing.T) {
	doc := world.NewDocument()
	doc.MoveTogether(world.Location("house:attic"))

	scene := SceneDescription(doc)
	if !strings.Contains(scene, "together in house:attic") {
		t.Errorf("Expected raw identifier fallback, got %q", scene)
	}
}
