package passnet

import (
	"testing"

	"github.com/pitchlens/pitchlens/internal/model"
	"github.com/pitchlens/pitchlens/internal/roster"
)

func squads(t *testing.T, home, away []string) *roster.Rosters {
	t.Helper()
	rec := &model.RawRecord{Raw: []byte(`{}`)}
	for _, id := range home {
		rec.Events = append(rec.Events, model.MatchEvent{Kind: model.KindPass, PlayerID: id, Side: model.SideHome})
	}
	for _, id := range away {
		rec.Events = append(rec.Events, model.MatchEvent{Kind: model.KindPass, PlayerID: id, Side: model.SideAway})
	}
	return roster.Resolve(rec, "", "")
}

func pass(from, to, outcome string) model.MatchEvent {
	return model.MatchEvent{Kind: model.KindPass, PlayerID: from, TargetID: to, Outcome: outcome}
}

func TestBuild_DirectedEdges(t *testing.T) {
	rosters := squads(t, []string{"a", "b"}, nil)
	events := []model.MatchEvent{
		pass("a", "b", ""),
		pass("a", "b", ""),
		pass("b", "a", ""),
	}
	net := Build(events, rosters, "", "")[model.SideHome]

	if len(net.Edges) != 2 {
		t.Fatalf("got %d edges, want 2 directed edges", len(net.Edges))
	}
	ab, ba := net.Edges[0], net.Edges[1]
	if ab.From != "a" || ab.To != "b" || ab.Count != 2 {
		t.Errorf("a→b edge = %+v", ab)
	}
	if ba.From != "b" || ba.To != "a" || ba.Count != 1 {
		t.Errorf("b→a edge = %+v", ba)
	}
}

func TestBuild_EdgeCountConservation(t *testing.T) {
	rosters := squads(t, []string{"a", "b", "c"}, nil)
	events := []model.MatchEvent{
		pass("a", "b", ""),
		pass("a", "b", "failed"),
		pass("b", "c", "incomplete"),
		pass("c", "a", ""),
	}
	net := Build(events, rosters, "", "")[model.SideHome]

	for _, e := range net.Edges {
		if e.Success+e.Failure != e.Count {
			t.Errorf("edge %s→%s: success %d + failure %d != count %d",
				e.From, e.To, e.Success, e.Failure, e.Count)
		}
	}
	if net.Totals.Passes != 4 || net.Totals.Success != 2 || net.Totals.Failure != 2 {
		t.Errorf("totals = %+v", net.Totals)
	}
	if net.Totals.SuccessRate != 0.5 {
		t.Errorf("success rate = %v, want 0.5", net.Totals.SuccessRate)
	}
}

func TestBuild_FailureTags(t *testing.T) {
	rosters := squads(t, []string{"a", "b"}, nil)
	failures := []string{"fail", "failed", "unsuccessful", "incomplete", "error", "blocked", " Failed "}
	successes := []string{"", "complete", "assist", "key_pass"}

	var events []model.MatchEvent
	for _, o := range failures {
		events = append(events, pass("a", "b", o))
	}
	for _, o := range successes {
		events = append(events, pass("a", "b", o))
	}
	net := Build(events, rosters, "", "")[model.SideHome]

	edge := net.Edges[0]
	if edge.Failure != len(failures) {
		t.Errorf("failure = %d, want %d", edge.Failure, len(failures))
	}
	if edge.Success != len(successes) {
		t.Errorf("success = %d, want %d", edge.Success, len(successes))
	}
}

func TestBuild_MissingEndpointSelfLoop(t *testing.T) {
	rosters := squads(t, []string{"a"}, nil)
	events := []model.MatchEvent{
		pass("a", "", ""),
	}
	net := Build(events, rosters, "", "")[model.SideHome]

	if len(net.Edges) != 1 {
		t.Fatalf("got %d edges, want 1 self-loop", len(net.Edges))
	}
	edge := net.Edges[0]
	if edge.From != "a" || edge.To != "a" || edge.Count != 1 {
		t.Errorf("edge = %+v", edge)
	}
	// The one player is touched for both endpoints.
	if node := net.Nodes["a"]; node.Touches != 2 {
		t.Errorf("touches = %d, want 2", node.Touches)
	}
}

func TestBuild_BothEndpointsMissingSkipped(t *testing.T) {
	rosters := squads(t, []string{"a"}, nil)
	events := []model.MatchEvent{
		{Kind: model.KindPass},
	}
	net := Build(events, rosters, "", "")[model.SideHome]
	if len(net.Edges) != 0 || net.Totals.Passes != 0 {
		t.Errorf("network = %+v, want empty", net)
	}
}

func TestBuild_TeamByMembershipThenTag(t *testing.T) {
	rosters := squads(t, []string{"h1"}, []string{"a1"})
	events := []model.MatchEvent{
		pass("h1", "h2", ""), // membership of h1 wins
		func() model.MatchEvent {
			e := pass("x1", "x2", "")
			e.TeamTag = "United"
			return e
		}(),
		pass("n1", "n2", ""), // no membership, no tag: skipped
	}
	nets := Build(events, rosters, "Rovers", "United")

	if got := nets[model.SideHome].Totals.Passes; got != 1 {
		t.Errorf("home passes = %d, want 1", got)
	}
	if got := nets[model.SideAway].Totals.Passes; got != 1 {
		t.Errorf("away passes = %d, want 1 (tag resolved)", got)
	}
}

func TestBuild_AveragePositionsAndDistance(t *testing.T) {
	rosters := squads(t, []string{"a", "b"}, nil)
	events := []model.MatchEvent{
		{Kind: model.KindPass, PlayerID: "a", TargetID: "b",
			Start: &model.Coordinate{X: 70, Y: 34}, End: &model.Coordinate{X: 100, Y: 34}},
	}
	net := Build(events, rosters, "", "")[model.SideHome]

	edge := net.Edges[0]
	if edge.PathSamples != 1 {
		t.Fatalf("path samples = %d, want 1", edge.PathSamples)
	}
	if edge.AverageStart.X != 70 || edge.AverageEnd.X != 100 {
		t.Errorf("path = %+v → %+v", edge.AverageStart, edge.AverageEnd)
	}
	if net.Totals.LongestSuccessfulDistance != 30 {
		t.Errorf("longest distance = %v, want 30", net.Totals.LongestSuccessfulDistance)
	}
	if got := net.Nodes["a"].AveragePosition.X; got != 70 {
		t.Errorf("node a average x = %v, want 70", got)
	}
	if got := net.Nodes["b"].AveragePosition.X; got != 100 {
		t.Errorf("node b average x = %v, want 100", got)
	}
}

func TestBuild_FailedPassesExcludedFromLongest(t *testing.T) {
	rosters := squads(t, []string{"a", "b"}, nil)
	events := []model.MatchEvent{
		{Kind: model.KindPass, PlayerID: "a", TargetID: "b", Outcome: "failed",
			Start: &model.Coordinate{X: 65, Y: 0}, End: &model.Coordinate{X: 105, Y: 68}},
	}
	net := Build(events, rosters, "", "")[model.SideHome]
	if net.Totals.LongestSuccessfulDistance != 0 {
		t.Errorf("longest = %v, want 0 for an all-failure edge", net.Totals.LongestSuccessfulDistance)
	}
}

func TestBuild_BothSidesAlwaysPresent(t *testing.T) {
	rosters := squads(t, nil, nil)
	nets := Build(nil, rosters, "", "")
	for _, side := range model.Sides() {
		net, ok := nets[side]
		if !ok {
			t.Fatalf("missing network for %s", side)
		}
		if net.Side != side || net.Nodes == nil {
			t.Errorf("network %s = %+v", side, net)
		}
	}
}
