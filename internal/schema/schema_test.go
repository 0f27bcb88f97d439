package schema

import (
	"testing"

	"github.com/pitchlens/pitchlens/internal/model"
)

func TestStat_FlatRecordWinsOverNested(t *testing.T) {
	raw := []byte(`{
		"possession_home": 61.5,
		"statistics": {"possession_home": 40.0}
	}`)
	r := NewResolver(raw)
	got, ok := r.Stat(model.SideHome, "possession")
	if !ok {
		t.Fatal("expected possession to resolve")
	}
	if got != 61.5 {
		t.Errorf("possession = %v, want 61.5 (flat record wins)", got)
	}
}

func TestStat_ContainerFallback(t *testing.T) {
	raw := []byte(`{"team_stats": {"shots_home": 12}}`)
	r := NewResolver(raw)
	got, ok := r.Stat(model.SideHome, "shots")
	if !ok || got != 12 {
		t.Errorf("shots = %v (ok=%v), want 12", got, ok)
	}
}

func TestStat_SpellingVariants(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"suffix", `{"fouls_away": 7}`},
		{"prefix", `{"away_fouls": 7}`},
		{"dotted", `{"fouls": {"away": 7}}`},
		{"nested side", `{"away": {"fouls": 7}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver([]byte(tc.raw))
			got, ok := r.Stat(model.SideAway, "fouls")
			if !ok || got != 7 {
				t.Errorf("fouls = %v (ok=%v), want 7", got, ok)
			}
		})
	}
}

func TestStatOr_DefaultOnMiss(t *testing.T) {
	r := NewResolver([]byte(`{}`))
	if got := r.StatOr(50, model.SideHome, "possession"); got != 50 {
		t.Errorf("StatOr = %v, want default 50", got)
	}
}

func TestTeamName_Variants(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"nested object", `{"home_team": {"name": "Rovers"}}`, "Rovers"},
		{"bare string", `{"home_team": "Rovers"}`, "Rovers"},
		{"team_names map", `{"team_names": {"home": "Rovers"}}`, "Rovers"},
		{"default", `{}`, "Home"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver([]byte(tc.raw))
			if got := r.TeamName(model.SideHome); got != tc.want {
				t.Errorf("TeamName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTeamName_AwayDefault(t *testing.T) {
	r := NewResolver([]byte(`{}`))
	if got := r.TeamName(model.SideAway); got != "Away" {
		t.Errorf("TeamName = %q, want Away", got)
	}
}

func TestScore(t *testing.T) {
	r := NewResolver([]byte(`{"score": {"home": 2, "away": 1}}`))
	if got, ok := r.Score(model.SideHome); !ok || got != 2 {
		t.Errorf("home score = %d (ok=%v), want 2", got, ok)
	}
	if got, ok := r.Score(model.SideAway); !ok || got != 1 {
		t.Errorf("away score = %d (ok=%v), want 1", got, ok)
	}
	empty := NewResolver([]byte(`{}`))
	if got, ok := empty.Score(model.SideHome); ok || got != 0 {
		t.Errorf("missing score = %d (ok=%v), want absent 0", got, ok)
	}
}

func TestScore_StatedZeroIsPresent(t *testing.T) {
	r := NewResolver([]byte(`{"score": {"home": 0, "away": 0}}`))
	if _, ok := r.Score(model.SideHome); !ok {
		t.Error("stated 0 should report present")
	}
}

func TestRatings(t *testing.T) {
	r := NewResolver([]byte(`{"summary": {"ratings": {"p1": 7.8, "p2": 8.4}}}`))
	ratings := r.Ratings()
	if len(ratings) != 2 || ratings["p2"] != 8.4 {
		t.Errorf("ratings = %v, want p1/p2 map", ratings)
	}

	if got := NewResolver([]byte(`{}`)).Ratings(); got != nil {
		t.Errorf("ratings on empty record = %v, want nil", got)
	}
}

func TestResolver_InvalidJSONMissesEverything(t *testing.T) {
	r := NewResolver([]byte(`not json`))
	if _, ok := r.Stat(model.SideHome, "possession"); ok {
		t.Error("expected miss on invalid input")
	}
	if got := r.TeamName(model.SideHome); got != "Home" {
		t.Errorf("TeamName = %q, want default Home", got)
	}
}
