package aggregator

import (
	"reflect"
	"testing"

	"github.com/pitchlens/pitchlens/internal/model"
	"github.com/pitchlens/pitchlens/internal/parser"
)

const sampleRecord = `{
	"home_team": {"name": "Rovers", "players": [
		{"id": "h1", "name": "Keeper"}, {"id": "h2", "name": "Back"},
		{"id": "h3", "name": "Mid"}, {"id": "h4", "name": "Wing"}
	]},
	"away_team": {"name": "United", "players": [
		{"id": "a1", "name": "Stopper"}, {"id": "a2", "name": "Striker"}
	]},
	"score": {"home": 2, "away": 1},
	"statistics": {
		"possession_home": 58.0,
		"xg_home": 1.7, "xg_away": 0.9
	},
	"summary": {"ratings": {"h3": 8.1, "a2": 7.9}},
	"events": [
		{"type": "pass", "player_id": "h2", "to_player_id": "h3",
			"start_position": {"x": 30, "y": 30}, "end_position": {"x": 50, "y": 34}},
		{"type": "pass", "player_id": "h3", "to_player_id": "h4", "outcome": "failed"},
		{"type": "pass", "player_id": "a1", "to_player_id": "a2"},
		{"type": "shot", "player_id": "h4", "position": {"x": 95, "y": 30}, "outcome": "on_target"},
		{"type": "goal", "player_id": "a2", "position": {"x": 98, "y": 40}},
		{"type": "corner", "player_id": "h4"},
		{"type": "foul", "player_id": "a1"},
		{"type": "position", "player_id": "h3", "position": {"x": 52, "y": 34}}
	]
}`

func aggregate(t *testing.T, raw string) *model.AnalyticsBundle {
	t.Helper()
	rec, err := parser.Parse([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	bundle, err := Aggregate(rec)
	if err != nil {
		t.Fatal(err)
	}
	return bundle
}

func TestAggregate_NilRecord(t *testing.T) {
	if _, err := Aggregate(nil); err == nil {
		t.Fatal("expected error for nil record")
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	a := aggregate(t, sampleRecord)
	b := aggregate(t, sampleRecord)
	if !reflect.DeepEqual(a, b) {
		t.Error("aggregating the same record twice produced different bundles")
	}
}

func TestAggregate_TeamNamesAndScore(t *testing.T) {
	bundle := aggregate(t, sampleRecord)
	if bundle.TeamNames[model.SideHome] != "Rovers" || bundle.TeamNames[model.SideAway] != "United" {
		t.Errorf("team names = %v", bundle.TeamNames)
	}
	if bundle.Score[model.SideHome] != 2 || bundle.Score[model.SideAway] != 1 {
		t.Errorf("score = %v", bundle.Score)
	}
}

func TestAggregate_StatedStatsWin(t *testing.T) {
	bundle := aggregate(t, sampleRecord)
	home := bundle.TeamStats[model.SideHome]
	if home.Possession != 58 {
		t.Errorf("home possession = %v, want stated 58", home.Possession)
	}
	if home.ExpectedGoals != 1.7 {
		t.Errorf("home xg = %v", home.ExpectedGoals)
	}
}

func TestAggregate_PossessionReconciled(t *testing.T) {
	bundle := aggregate(t, sampleRecord)
	away := bundle.TeamStats[model.SideAway]
	if away.Possession != 42 {
		t.Errorf("away possession = %v, want 100-58", away.Possession)
	}
}

func TestAggregate_PossessionDefaultsEven(t *testing.T) {
	bundle := aggregate(t, `{"events": []}`)
	if bundle.TeamStats[model.SideHome].Possession != 50 ||
		bundle.TeamStats[model.SideAway].Possession != 50 {
		t.Errorf("possession = %v, want 50/50", bundle.TeamStats)
	}
}

func TestAggregate_CountingStatsBackfilled(t *testing.T) {
	bundle := aggregate(t, sampleRecord)
	home := bundle.TeamStats[model.SideHome]
	if home.Shots != 1 {
		t.Errorf("home shots = %d, want 1 from events", home.Shots)
	}
	if home.ShotsOnTarget != 1 {
		t.Errorf("home on target = %d, want 1", home.ShotsOnTarget)
	}
	if home.Passes != 2 {
		t.Errorf("home passes = %d, want 2 from network", home.Passes)
	}
	if home.PassAccuracy != 50 {
		t.Errorf("home pass accuracy = %v, want 50 from network", home.PassAccuracy)
	}
	if home.Corners != 1 || bundle.TeamStats[model.SideAway].Fouls != 1 {
		t.Errorf("corners/fouls = %+v", bundle.TeamStats)
	}

	away := bundle.TeamStats[model.SideAway]
	if away.Shots != 1 || away.ShotsOnTarget != 1 {
		t.Errorf("away shot line = %+v, want goal counted on target", away)
	}
}

func TestAggregate_ScoreBackfilledFromGoals(t *testing.T) {
	raw := `{
		"rosters": {"home": [{"id": "h1"}], "away": [{"id": "a1"}]},
		"events": [
			{"type": "goal", "player_id": "h1", "position": {"x": 95, "y": 30}},
			{"type": "goal", "player_id": "h1", "position": {"x": 95, "y": 30}},
			{"type": "goal", "player_id": "a1", "position": {"x": 10, "y": 30}}
		]
	}`
	bundle := aggregate(t, raw)
	if bundle.Score[model.SideHome] != 2 || bundle.Score[model.SideAway] != 1 {
		t.Errorf("score = %v, want backfilled 2-1", bundle.Score)
	}
}

func TestAggregate_StatedGoallessScoreKept(t *testing.T) {
	// An explicit 0-0 next to goal events is a stated score and must not be
	// overwritten by the event count.
	raw := `{
		"rosters": {"home": [{"id": "h1"}], "away": [{"id": "a1"}]},
		"score": {"home": 0, "away": 0},
		"events": [
			{"type": "goal", "player_id": "h1", "position": {"x": 95, "y": 30}}
		]
	}`
	bundle := aggregate(t, raw)
	if bundle.Score[model.SideHome] != 0 || bundle.Score[model.SideAway] != 0 {
		t.Errorf("score = %v, want stated 0-0 kept", bundle.Score)
	}
}

func TestAggregate_MVP(t *testing.T) {
	bundle := aggregate(t, sampleRecord)
	if bundle.MVP != "h3" {
		t.Errorf("MVP = %q, want player id h3 (highest rating)", bundle.MVP)
	}
	// The MVP id is a bundle key: it must index the heat maps directly.
	if _, ok := bundle.HeatMaps[bundle.MVP]; !ok {
		t.Errorf("no heat map under MVP id %q", bundle.MVP)
	}
}

func TestAggregate_MVPTieKeepsRosterOrder(t *testing.T) {
	raw := `{
		"rosters": {"home": [{"id": "h1", "name": "First"}], "away": [{"id": "a1", "name": "Second"}]},
		"ratings": {"h1": 7.0, "a1": 7.0},
		"events": []
	}`
	bundle := aggregate(t, raw)
	if bundle.MVP != "h1" {
		t.Errorf("MVP = %q, want h1 on tie", bundle.MVP)
	}
}

func TestAggregate_MVPRatedByName(t *testing.T) {
	raw := `{
		"rosters": {"home": [{"id": "h1", "name": "First"}], "away": [{"id": "a1", "name": "Second"}]},
		"ratings": {"Second": 8.0},
		"events": []
	}`
	bundle := aggregate(t, raw)
	if bundle.MVP != "a1" {
		t.Errorf("MVP = %q, want id a1 for name-keyed rating", bundle.MVP)
	}
}

func TestAggregate_MVPAbsentWithoutRatings(t *testing.T) {
	bundle := aggregate(t, `{"events": []}`)
	if bundle.MVP != "" {
		t.Errorf("MVP = %q, want empty", bundle.MVP)
	}
}

func TestAggregate_EmptyRecordStillValid(t *testing.T) {
	bundle := aggregate(t, `{}`)
	if bundle.TeamNames[model.SideHome] != "Home" || bundle.TeamNames[model.SideAway] != "Away" {
		t.Errorf("team names = %v", bundle.TeamNames)
	}
	if len(bundle.Rosters[model.SideHome]) != 0 || len(bundle.Shots) != 0 {
		t.Error("empty record should yield empty collections")
	}
	for _, side := range model.Sides() {
		if _, ok := bundle.PassNetworks[side]; !ok {
			t.Errorf("missing %s pass network", side)
		}
	}
}

func TestAggregate_HeatMapsCoverSquads(t *testing.T) {
	bundle := aggregate(t, sampleRecord)
	for _, side := range model.Sides() {
		for _, entry := range bundle.Rosters[side] {
			if _, ok := bundle.HeatMaps[entry.ID]; !ok {
				t.Errorf("missing heat map for %s", entry.ID)
			}
		}
	}
}
