// Package roster resolves each team's starting squad and substitutes, from
// explicit roster data when the record carries it, otherwise derived from
// the players observed in the event stream. Resolution never fails: an
// unresolvable entry is logged and skipped, and an empty squad is a valid
// result.
package roster

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/pitchlens/pitchlens/internal/model"
)

// StartersPerSide is the size of a starting squad.
const StartersPerSide = 11

// sideRosterPaths locate one side's explicit roster list; %s is "home" or
// "away". Tried in order, first non-empty array wins.
var sideRosterPaths = []string{
	"%s_team.players",
	"teams.%s.players",
	"rosters.%s",
	"lineups.%s",
	"squads.%s",
	"%s_players",
}

// flatRosterPaths hold a single list with per-entry team tags.
var flatRosterPaths = []string{
	"rosters",
	"lineups",
	"players",
}

// Rosters is the resolved output: per-side squads (starters first, then the
// substitutes that actually came on) plus the side-membership index derived
// along the way. The full player directory (including unused bench players)
// backs substitution lookups but is not part of the squads.
type Rosters struct {
	squads    map[model.TeamSide][]model.RosterEntry
	directory map[model.TeamSide][]model.RosterEntry
	sideOf    map[string]model.TeamSide
	nameOf    map[string]string
}

// Squad returns the resolved squad for a side; starters in input/first-seen
// order followed by substitutes in the order they came on.
func (r *Rosters) Squad(side model.TeamSide) []model.RosterEntry {
	return r.squads[side]
}

// SideOf reports which team a player id belongs to, including bench players
// known from the roster source. SideUnknown for strangers.
func (r *Rosters) SideOf(id string) model.TeamSide {
	if id == "" {
		return model.SideUnknown
	}
	return r.sideOf[id]
}

// NameOf returns a player's display name, falling back to the id itself.
func (r *Rosters) NameOf(id string) string {
	if n, ok := r.nameOf[id]; ok && n != "" {
		return n
	}
	return id
}

// Members returns all squad members of both sides, home first. Every
// returned entry is a player the heat-map layer must produce a grid for.
func (r *Rosters) Members() []model.RosterEntry {
	out := make([]model.RosterEntry, 0, len(r.squads[model.SideHome])+len(r.squads[model.SideAway]))
	out = append(out, r.squads[model.SideHome]...)
	out = append(out, r.squads[model.SideAway]...)
	return out
}

// Resolve produces both squads from the record. homeName/awayName are the
// already-resolved team names, used to match club-name team tags on events.
func Resolve(rec *model.RawRecord, homeName, awayName string) *Rosters {
	r := &Rosters{
		squads:    make(map[model.TeamSide][]model.RosterEntry),
		directory: make(map[model.TeamSide][]model.RosterEntry),
		sideOf:    make(map[string]model.TeamSide),
		nameOf:    make(map[string]string),
	}

	doc := gjson.ParseBytes(rec.Raw)
	r.loadExplicit(doc)
	if len(r.directory[model.SideHome]) == 0 && len(r.directory[model.SideAway]) == 0 {
		r.deriveFromEvents(rec.Events, homeName, awayName)
	}

	// First 11 directory entries per side are the starters; the rest stay
	// on the bench until a substitution brings them on.
	for _, side := range model.Sides() {
		dir := r.directory[side]
		n := len(dir)
		if n > StartersPerSide {
			n = StartersPerSide
		}
		for i := 0; i < n; i++ {
			entry := dir[i]
			entry.IsSubstitute = false
			r.squads[side] = append(r.squads[side], entry)
		}
	}

	r.applySubstitutions(rec.Events, homeName, awayName)
	return r
}

// loadExplicit fills the per-side directories from explicit roster data.
func (r *Rosters) loadExplicit(doc gjson.Result) {
	for _, side := range model.Sides() {
		for _, tmpl := range sideRosterPaths {
			v := doc.Get(sprintfSide(tmpl, side))
			if !v.IsArray() || len(v.Array()) == 0 {
				continue
			}
			for _, raw := range v.Array() {
				r.addDirectoryEntry(side, parseEntry(raw))
			}
			break
		}
	}
	if len(r.directory[model.SideHome]) > 0 || len(r.directory[model.SideAway]) > 0 {
		return
	}

	// Flat list variant: a single array with per-entry team tags.
	for _, path := range flatRosterPaths {
		v := doc.Get(path)
		if !v.IsArray() || len(v.Array()) == 0 {
			continue
		}
		for _, raw := range v.Array() {
			side := entrySide(raw)
			if side == model.SideUnknown {
				continue
			}
			r.addDirectoryEntry(side, parseEntry(raw))
		}
		if len(r.directory[model.SideHome]) > 0 || len(r.directory[model.SideAway]) > 0 {
			return
		}
	}
}

// deriveFromEvents infers squads from observed participants when the record
// has no roster block. Side inference per player: explicit event tag first,
// then membership in an already-known side. Players with no resolvable side
// are dropped.
func (r *Rosters) deriveFromEvents(events []model.MatchEvent, homeName, awayName string) {
	for i := range events {
		ev := &events[i]
		side := ev.TaggedSide(homeName, awayName)
		for _, id := range []string{ev.PlayerID, ev.TargetID} {
			if id == "" {
				continue
			}
			if _, known := r.sideOf[id]; known {
				continue
			}
			s := side
			if s == model.SideUnknown {
				// Same-event teammate already resolved?
				s = r.sideOf[ev.PlayerID]
			}
			if s == model.SideUnknown {
				continue
			}
			r.addDirectoryEntry(s, model.RosterEntry{ID: id, Name: id})
		}
	}
}

// applySubstitutions scans substitution events and appends each resolvable
// incoming player to their squad, marked as a substitute. Duplicates and
// unresolvable entries are skipped.
func (r *Rosters) applySubstitutions(events []model.MatchEvent, homeName, awayName string) {
	for i := range events {
		ev := &events[i]
		if ev.Kind != model.KindSubstitution {
			continue
		}
		side, entry := r.resolveIncoming(ev, homeName, awayName)
		if side == model.SideUnknown || entry.ID == "" {
			log.Debug().Str("raw_kind", ev.RawKind).Int("track", ev.TrackID).
				Msg("skipping unresolvable substitution")
			continue
		}
		if r.inSquad(side, entry.ID) {
			log.Debug().Str("player", entry.ID).Msg("substitute already in squad")
			continue
		}
		entry.IsSubstitute = true
		r.squads[side] = append(r.squads[side], entry)
		r.register(side, entry)
	}
}

// resolveIncoming identifies the player coming on: explicit id, then name,
// then the track-id convention resolved through the side's directory.
func (r *Rosters) resolveIncoming(ev *model.MatchEvent, homeName, awayName string) (model.TeamSide, model.RosterEntry) {
	side := ev.TaggedSide(homeName, awayName)

	if ev.InPlayerID != "" {
		if s := r.sideOf[ev.InPlayerID]; s != model.SideUnknown {
			side = s
		}
		return side, r.entryFor(ev.InPlayerID)
	}

	if ev.InPlayerName != "" {
		if s, entry, ok := r.findByName(ev.InPlayerName); ok {
			return s, entry
		}
		return side, model.RosterEntry{ID: ev.InPlayerName, Name: ev.InPlayerName}
	}

	if ev.TrackID >= 0 {
		// The incoming track id is a per-team roster index into the side's
		// full directory: 0..10 are the starting slots, 11 and up the bench.
		// Without the event's side tag the index is ambiguous.
		if side == model.SideUnknown {
			return model.SideUnknown, model.RosterEntry{}
		}
		dir := r.directory[side]
		if ev.TrackID >= len(dir) {
			return model.SideUnknown, model.RosterEntry{}
		}
		return side, dir[ev.TrackID]
	}

	return model.SideUnknown, model.RosterEntry{}
}

func (r *Rosters) entryFor(id string) model.RosterEntry {
	for _, s := range model.Sides() {
		for _, e := range r.directory[s] {
			if e.ID == id {
				return e
			}
		}
	}
	return model.RosterEntry{ID: id, Name: r.NameOf(id)}
}

func (r *Rosters) findByName(name string) (model.TeamSide, model.RosterEntry, bool) {
	for _, side := range model.Sides() {
		for _, e := range r.directory[side] {
			if e.Name == name {
				return side, e, true
			}
		}
	}
	return model.SideUnknown, model.RosterEntry{}, false
}

func (r *Rosters) inSquad(side model.TeamSide, id string) bool {
	for _, e := range r.squads[side] {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (r *Rosters) addDirectoryEntry(side model.TeamSide, entry model.RosterEntry) {
	if entry.ID == "" {
		return
	}
	if _, known := r.sideOf[entry.ID]; known {
		return
	}
	r.directory[side] = append(r.directory[side], entry)
	r.register(side, entry)
}

func (r *Rosters) register(side model.TeamSide, entry model.RosterEntry) {
	r.sideOf[entry.ID] = side
	if entry.Name != "" {
		r.nameOf[entry.ID] = entry.Name
	}
}

func parseEntry(raw gjson.Result) model.RosterEntry {
	if !raw.IsObject() {
		// A bare string is a player name doubling as id.
		s := raw.String()
		return model.RosterEntry{ID: s, Name: s}
	}
	entry := model.RosterEntry{
		ID:       firstString(raw, "id", "player_id"),
		Name:     firstString(raw, "name", "player_name"),
		Position: firstString(raw, "position", "role", "pos"),
	}
	if entry.ID == "" {
		entry.ID = entry.Name
	}
	if entry.Name == "" {
		entry.Name = entry.ID
	}
	return entry
}

func entrySide(raw gjson.Result) model.TeamSide {
	v := raw.Get("team")
	if !v.Exists() {
		v = raw.Get("side")
	}
	switch {
	case !v.Exists():
		return model.SideUnknown
	case v.Type == gjson.Number:
		if v.Int() == 0 {
			return model.SideHome
		}
		if v.Int() == 1 {
			return model.SideAway
		}
		return model.SideUnknown
	default:
		switch v.String() {
		case "home", "Home":
			return model.SideHome
		case "away", "Away":
			return model.SideAway
		}
		return model.SideUnknown
	}
}

func firstString(raw gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := raw.Get(k); v.Exists() {
			return v.String()
		}
	}
	return ""
}

func sprintfSide(tmpl string, side model.TeamSide) string {
	return fmt.Sprintf(tmpl, side.String())
}
