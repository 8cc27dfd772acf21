package world

import (
	"reflect"
	"testing"
)

func TestLocation_IndoorOutdoor(t *testing.T) {
	if !LocKitchen.IsIndoor() {
		t.Error("Expected kitchen to be indoor")
	}
	if LocKitchen.IsOutdoor() {
		t.Error("Kitchen should not be outdoor")
	}
	if !LocCafe.IsOutdoor() {
		t.Error("Expected cafe to be outdoor")
	}
	if LocCafe.IsIndoor() {
		t.Error("Cafe should not be indoor")
	}
}

func TestLocation_Name(t *testing.T) {
	if got := LocLounge.Name(); got != "the lounge" {
		t.Errorf("Expected 'the lounge', got %q", got)
	}
	// Unknown locations fall back to the raw identifier.
	if got := Location("house:attic").Name(); got != "house:attic" {
		t.Errorf("Expected raw identifier for unknown location, got %q", got)
	}
}

func TestAreAdjacent(t *testing.T) {
	tests := []struct {
		name string
		from Location
		to   Location
		want bool
	}{
		{"kitchen to hallway", LocKitchen, LocHallway, true},
		{"kitchen to garden", LocKitchen, LocGarden, true},
		{"bedroom to bathroom", LocBedroom, LocBathroom, false},
		{"garden to lounge", LocGarden, LocLounge, false},
		{"outdoor has no graph edges", LocCafe, LocPark, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AreAdjacent(tt.from, tt.to); got != tt.want {
				t.Errorf("AreAdjacent(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestPathBetween(t *testing.T) {
	tests := []struct {
		name string
		from Location
		to   Location
		want []Location
	}{
		{"same location", LocKitchen, LocKitchen, []Location{LocKitchen}},
		{"direct neighbors", LocKitchen, LocLounge, []Location{LocKitchen, LocLounge}},
		{"through the hallway", LocBedroom, LocBathroom, []Location{LocBedroom, LocHallway, LocBathroom}},
		{"garden to bedroom", LocGarden, LocBedroom, []Location{LocGarden, LocKitchen, LocHallway, LocBedroom}},
		{"no indoor route falls back to the pair", LocKitchen, LocCafe, []Location{LocKitchen, LocCafe}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PathBetween(tt.from, tt.to)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PathBetween(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
