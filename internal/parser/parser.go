// Package parser is the boundary between the untrusted match record and the
// typed model. It hashes the input for the store key, locates the event
// sequence wherever the producer put it, and maps each event onto the
// closed kind set. Malformed individual events are skipped; only unreadable
// input is an error.
package parser

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/pitchlens/pitchlens/internal/model"
)

// eventContainers are the candidate locations of the event sequence, tried
// in order; the first non-empty array wins.
var eventContainers = []string{
	"events",
	"timeline.events",
	"timeline",
	"match_events",
	"replay_events",
}

// kindAliases maps producer kind spellings onto the closed kind set.
var kindAliases = map[string]model.EventKind{
	"pass":            model.KindPass,
	"cross":           model.KindPass,
	"shot":            model.KindShot,
	"shot_on_target":  model.KindShot,
	"shot_off_target": model.KindShot,
	"shot_blocked":    model.KindShot,
	"goal":            model.KindGoal,
	"own_goal":        model.KindGoal,
	"substitution":    model.KindSubstitution,
	"sub":             model.KindSubstitution,
	"position":        model.KindPosition,
	"position_sample": model.KindPosition,
	"movement":        model.KindPosition,
	"move":            model.KindPosition,
	"carry":           model.KindCarry,
	"run":             model.KindCarry,
	"dribble":         model.KindDribble,
	"corner":          model.KindCorner,
	"foul":            model.KindFoul,
	"handball":        model.KindFoul,
	"card":            model.KindCard,
	"yellow_card":     model.KindCard,
	"red_card":        model.KindCard,
}

// derivedOutcomes supplies an outcome for shot-family kinds whose event
// carries none, so the shot chart keeps the on/off-target signal.
var derivedOutcomes = map[string]string{
	"goal":            "goal",
	"own_goal":        "own_goal",
	"shot_on_target":  "on_target",
	"shot_off_target": "off_target",
	"shot_blocked":    "blocked",
}

// Load reads and parses the match record at path.
func Load(path string) (*model.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	return Parse(data)
}

// Parse turns raw record bytes into a RawRecord. The hash of the exact
// input bytes is the idempotency key for the store.
func Parse(data []byte) (*model.RawRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("record is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	rec := &model.RawRecord{
		Hash: fmt.Sprintf("%x", sha256.Sum256(data)),
		Raw:  data,
	}

	events := findEvents(doc)
	dropped := 0
	events.ForEach(func(_, ev gjson.Result) bool {
		if !ev.IsObject() {
			dropped++
			return true
		}
		rec.Events = append(rec.Events, parseEvent(ev))
		return true
	})
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("skipped non-object event entries")
	}
	return rec, nil
}

func findEvents(doc gjson.Result) gjson.Result {
	for _, path := range eventContainers {
		v := doc.Get(path)
		if v.IsArray() && len(v.Array()) > 0 {
			return v
		}
	}
	return gjson.Result{}
}

func parseEvent(ev gjson.Result) model.MatchEvent {
	rawKind := normalizeKind(firstString(ev, "kind", "type", "event_type"))
	e := model.MatchEvent{
		Kind:     kindAliases[rawKind],
		RawKind:  rawKind,
		Minute:   int(ev.Get("minute").Int()),
		PlayerID: playerRef(ev, "player_id", "player", "actor_id", "actor"),
		TargetID: playerRef(ev, "to_player_id", "target_id", "target", "receiver_id", "recipient"),
		TrackID:  -1,
		Outcome:  firstString(ev, "outcome", "result"),
	}

	if v := first(ev, "player_track_id", "track_id", "track"); v.Exists() {
		e.TrackID = int(v.Int())
	}

	e.Side, e.TeamTag = parseTeam(ev)

	e.Position = parseCoordinate(first(ev, "position", "pos", "location", "details.ball_position", "ball_position"))
	e.Start = parseCoordinate(first(ev, "start_position", "start", "from_position", "details.intended_passer_pos"))
	e.End = parseCoordinate(first(ev, "end_position", "end", "to_position", "details.intended_target_pos"))

	if e.Kind == model.KindSubstitution {
		e.InPlayerID = playerRef(ev, "player_in_id", "in_player_id", "player_in")
		e.InPlayerName = firstString(ev, "player_in_name", "details.substitution.player_in_name")
	}

	if e.Outcome == "" {
		if derived, ok := derivedOutcomes[rawKind]; ok {
			e.Outcome = derived
		}
	}
	return e
}

// parseTeam handles the team field's three wire shapes: string, 0/1 index,
// or object; plus the producer's is_home_team boolean.
func parseTeam(ev gjson.Result) (model.TeamSide, string) {
	if v := ev.Get("is_home_team"); v.Exists() && v.IsBool() {
		if v.Bool() {
			return model.SideHome, ""
		}
		return model.SideAway, ""
	}
	v := first(ev, "team", "team_side", "side")
	if !v.Exists() {
		return model.SideUnknown, ""
	}
	switch {
	case v.Type == gjson.Number:
		return sideFromIndex(int(v.Int())), ""
	case v.IsObject():
		if s := v.Get("side"); s.Exists() {
			return sideFromLabel(s.String())
		}
		if n := v.Get("name"); n.Exists() {
			return sideFromLabel(n.String())
		}
		return model.SideUnknown, ""
	default:
		return sideFromLabel(v.String())
	}
}

func sideFromIndex(i int) model.TeamSide {
	switch i {
	case 0:
		return model.SideHome
	case 1:
		return model.SideAway
	default:
		return model.SideUnknown
	}
}

// sideFromLabel resolves the literal labels here; any other string is kept
// as a tag for late resolution against the record's team names.
func sideFromLabel(s string) (model.TeamSide, string) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home", "h":
		return model.SideHome, ""
	case "away", "a":
		return model.SideAway, ""
	case "":
		return model.SideUnknown, ""
	default:
		return model.SideUnknown, s
	}
}

// parseCoordinate accepts {x,y} objects and [x,y] or [x,y,z] arrays.
func parseCoordinate(v gjson.Result) *model.Coordinate {
	switch {
	case v.IsObject():
		x, y := v.Get("x"), v.Get("y")
		if !x.Exists() || !y.Exists() {
			return nil
		}
		return &model.Coordinate{X: x.Float(), Y: y.Float()}
	case v.IsArray():
		arr := v.Array()
		if len(arr) < 2 {
			return nil
		}
		return &model.Coordinate{X: arr[0].Float(), Y: arr[1].Float()}
	default:
		return nil
	}
}

// playerRef extracts a player reference that may be a string id, a number,
// or an object with an id/name.
func playerRef(ev gjson.Result, keys ...string) string {
	v := first(ev, keys...)
	if !v.Exists() {
		return ""
	}
	if v.IsObject() {
		if id := v.Get("id"); id.Exists() {
			return id.String()
		}
		if name := v.Get("name"); name.Exists() {
			return name.String()
		}
		return ""
	}
	return v.String()
}

func first(ev gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := ev.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func firstString(ev gjson.Result, keys ...string) string {
	return first(ev, keys...).String()
}

func normalizeKind(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
