package world

import "time"

// RecentPlacesLimit bounds the continuity list of recently visited locations.
const RecentPlacesLimit = 5

// Activity is an ongoing occupation for one or both characters.
type Activity struct {
	Description string    `json:"description"`
	StartedAt   time.Time `json:"started_at,omitempty"`
}

// Activities holds per-character occupations plus an optional shared one.
// A shared activity and individual activities are mutually exclusive.
type Activities struct {
	George  *Activity `json:"george"`
	Rebecca *Activity `json:"rebecca"`
	Shared  *Activity `json:"shared"`
}

// Locations tracks where each character currently is.
type Locations struct {
	George  Location `json:"george"`
	Rebecca Location `json:"rebecca"`
}

// Relationship carries the free-text tone plus an append-only log of
// key moments.
type Relationship struct {
	OverallTone      string   `json:"overall_tone"`
	RecentKeyMoments []string `json:"recent_key_moments"`
}

// Facts partitions accumulated canon into shared knowledge and Rebecca's
// knowledge about George.
type Facts struct {
	Shared             []string `json:"shared"`
	RebeccaAboutGeorge []string `json:"rebecca_about_george"`
}

// Document is the simulation's ground truth for one world. It is read and
// replaced wholesale on every turn; partial updates never happen.
//
// Version is the optimistic-concurrency stamp maintained by the store. It is
// not part of the serialized blob.
type Document struct {
	Time         WorldTime    `json:"time"`
	Locations    Locations    `json:"locations"`
	Activities   Activities   `json:"activities"`
	Relationship Relationship `json:"relationship"`
	Threads      []string     `json:"threads"`
	Facts        Facts        `json:"facts"`
	RecentPlaces []Location   `json:"recent_places"`

	// CharacterState is Rebecca's serialized internal state, opaque at this
	// layer. pkg/character owns its contents.
	CharacterState string `json:"character_state,omitempty"`

	Version int64 `json:"-"`
}

// simulation epoch: Monday 08:00, the first morning after Rebecca moved in.
var simulationStart = time.Date(2025, 7, 7, 8, 0, 0, 0, time.UTC)

// NewDocument returns the fixed initial snapshot a world starts from.
func NewDocument() *Document {
	return &Document{
		Time: WorldTime{
			CurrentDatetime: simulationStart,
			DaysIntoOffgrid: 0,
			TimeOfDay:       BucketFor(simulationStart),
		},
		Locations: Locations{
			George:  LocKitchen,
			Rebecca: LocKitchen,
		},
		Activities: Activities{
			Rebecca: &Activity{Description: "making coffee"},
		},
		Relationship: Relationship{
			OverallTone: "warm, intimate, newly cohabiting, with underlying vulnerability and excitement",
			RecentKeyMoments: []string{
				"Rebecca just moved in with George",
				"Both agreed to 10 days off-grid to settle together",
			},
		},
		Threads: []string{
			"Rebecca settling into the house and routines",
			"Both enjoying their first morning together in their shared home",
			"Beginning of 10 days off-grid together",
		},
		Facts: Facts{
			Shared: []string{
				"This is their house in Cookridge, Leeds",
				"They both have taken 10 days off work",
				"They agreed to be mostly off-grid to focus on each other",
				"Rebecca has just moved in",
			},
			RebeccaAboutGeorge: []string{
				"George tends to overthink philosophy and consciousness",
				"George plays guitar and composes music",
				"George was single for 15 years before Rebecca",
				"George has a daughter named Lucy",
			},
		},
		RecentPlaces: []Location{LocKitchen},
	}
}

// Migrate fills in fields absent from an older document shape with fixed
// defaults, so documents persisted by earlier versions keep loading. The
// result is always safe to use without further checks.
func (d *Document) Migrate() {
	fresh := NewDocument()

	if d.Time.CurrentDatetime.IsZero() {
		d.Time = fresh.Time
	}
	d.Time.TimeOfDay = BucketFor(d.Time.CurrentDatetime)

	if d.Locations.George == "" {
		d.Locations.George = fresh.Locations.George
	}
	if d.Locations.Rebecca == "" {
		d.Locations.Rebecca = fresh.Locations.Rebecca
	}
	if d.Relationship.OverallTone == "" {
		d.Relationship = fresh.Relationship
	}
	if d.Threads == nil {
		d.Threads = fresh.Threads
	}
	if d.Facts.Shared == nil && d.Facts.RebeccaAboutGeorge == nil {
		d.Facts = fresh.Facts
	}
	if d.RecentPlaces == nil {
		d.RecentPlaces = []Location{d.Locations.Rebecca}
	}
	if len(d.RecentPlaces) > RecentPlacesLimit {
		d.RecentPlaces = d.RecentPlaces[:RecentPlacesLimit]
	}

	// Shared and individual activities are mutually exclusive; shared wins.
	if d.Activities.Shared != nil {
		d.Activities.George = nil
		d.Activities.Rebecca = nil
	}
}

// MoveGeorge relocates George and records the visit.
func (d *Document) MoveGeorge(to Location) {
	d.Locations.George = to
	d.recordVisit(to)
}

// MoveRebecca relocates Rebecca and records the visit.
func (d *Document) MoveRebecca(to Location) {
	d.Locations.Rebecca = to
	d.recordVisit(to)
}

// MoveTogether relocates both characters to the same place.
func (d *Document) MoveTogether(to Location) {
	d.Locations.George = to
	d.Locations.Rebecca = to
	d.recordVisit(to)
}

// recordVisit prepends a newly visited location to the continuity list.
// Locations already present are not re-added, and the list stays bounded.
func (d *Document) recordVisit(loc Location) {
	for _, p := range d.RecentPlaces {
		if p == loc {
			return
		}
	}
	places := append([]Location{loc}, d.RecentPlaces...)
	if len(places) > RecentPlacesLimit {
		places = places[:RecentPlacesLimit]
	}
	d.RecentPlaces = places
}

// SetSharedActivity starts a joint activity, clearing individual ones.
func (d *Document) SetSharedActivity(description string) {
	d.Activities = Activities{
		Shared: &Activity{Description: description, StartedAt: d.Time.CurrentDatetime},
	}
}

// SetRebeccaActivity sets or clears Rebecca's individual activity.
func (d *Document) SetRebeccaActivity(description string) {
	if description == "" {
		d.Activities.Rebecca = nil
		return
	}
	d.Activities.Shared = nil
	d.Activities.Rebecca = &Activity{Description: description, StartedAt: d.Time.CurrentDatetime}
}

// SetGeorgeActivity sets or clears George's individual activity.
func (d *Document) SetGeorgeActivity(description string) {
	if description == "" {
		d.Activities.George = nil
		return
	}
	d.Activities.Shared = nil
	d.Activities.George = &Activity{Description: description, StartedAt: d.Time.CurrentDatetime}
}

// ClearActivities stops everything both characters are doing.
func (d *Document) ClearActivities() {
	d.Activities = Activities{}
}

// AddKeyMoment appends to the relationship's key-moment log.
func (d *Document) AddKeyMoment(moment string) {
	d.Relationship.RecentKeyMoments = append(d.Relationship.RecentKeyMoments, moment)
}

// Together reports whether both characters share a location.
func (d *Document) Together() bool {
	return d.Locations.George == d.Locations.Rebecca
}
