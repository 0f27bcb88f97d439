package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pitchlens/pitchlens/internal/model"
	"github.com/pitchlens/pitchlens/internal/pitch"
	"github.com/pitchlens/pitchlens/internal/tactics"
)

// intensityRamp maps relative cell intensity to ASCII shades, dark to bright.
const intensityRamp = " .:-=+*#%@"

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	hash := s.Hash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	fmt.Fprintf(w, "\n%s %d – %d %s  |  Imported: %s  |  Hash: %s\n\n",
		s.HomeName, s.HomeScore, s.AwayScore, s.AwayName, s.ImportedAt, hash)
	if s.MVP != "" {
		fmt.Fprintf(w, "MVP: %s\n\n", s.MVP)
	}
}

// PrintTeamStatsTable prints the reconciled stat line for both sides.
func PrintTeamStatsTable(w io.Writer, bundle *model.AnalyticsBundle) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("TEAM", "POSS%", "SHOTS", "ON_TGT", "xG", "PASSES", "PASS%", "CORNERS", "FOULS")

	for _, side := range model.Sides() {
		st := bundle.TeamStats[side]
		table.Append(
			bundle.TeamNames[side],
			fmt.Sprintf("%.1f", st.Possession),
			strconv.Itoa(st.Shots),
			strconv.Itoa(st.ShotsOnTarget),
			fmt.Sprintf("%.2f", st.ExpectedGoals),
			strconv.Itoa(st.Passes),
			fmt.Sprintf("%.1f", st.PassAccuracy),
			strconv.Itoa(st.Corners),
			strconv.Itoa(st.Fouls),
		)
	}
	table.Render()
}

// PrintRosterTable prints both squads, starters before substitutes.
func PrintRosterTable(w io.Writer, bundle *model.AnalyticsBundle) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("TEAM", "PLAYER", "ROLE", "SUB")

	for _, side := range model.Sides() {
		name := bundle.TeamNames[side]
		for _, entry := range bundle.Rosters[side] {
			sub := " "
			if entry.IsSubstitute {
				sub = "*"
			}
			role := entry.Position
			if role == "" {
				role = "—"
			}
			table.Append(name, entry.Name, role, sub)
		}
	}
	table.Render()
}

// PrintPassNetworkTable prints one team's pass edges plus a totals line.
func PrintPassNetworkTable(w io.Writer, net model.TeamPassNetwork, teamName string) {
	fmt.Fprintf(w, "\nPass network: %s\n", teamName)
	if len(net.Edges) == 0 {
		fmt.Fprintln(w, "  no passes recorded")
		return
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("FROM", "TO", "COUNT", "OK", "FAIL", "AVG_DIST")

	for _, edge := range net.Edges {
		dist := "—"
		if edge.PathSamples > 0 {
			dist = fmt.Sprintf("%.1fm", pitch.Distance(edge.AverageStart, edge.AverageEnd))
		}
		table.Append(
			nodeName(net, edge.From),
			nodeName(net, edge.To),
			strconv.Itoa(edge.Count),
			strconv.Itoa(edge.Success),
			strconv.Itoa(edge.Failure),
			dist,
		)
	}
	table.Render()

	fmt.Fprintf(w, "Totals: %d passes, %.0f%% completed", net.Totals.Passes, net.Totals.SuccessRate*100)
	if net.Totals.LongestSuccessfulDistance > 0 {
		fmt.Fprintf(w, ", longest %.1fm", net.Totals.LongestSuccessfulDistance)
	}
	fmt.Fprintln(w)
}

// PrintShotTable prints the shot chart as a table in event order.
func PrintShotTable(w io.Writer, bundle *model.AnalyticsBundle) {
	if len(bundle.Shots) == 0 {
		fmt.Fprintln(w, "no shots recorded")
		return
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("#", "TEAM", "X", "Y", "OUTCOME")

	for i, shot := range bundle.Shots {
		outcome := shot.Outcome
		if outcome == "" {
			outcome = "—"
		}
		table.Append(
			strconv.Itoa(i+1),
			bundle.TeamNames[shot.Side],
			fmt.Sprintf("%.1f", shot.Coordinate.X),
			fmt.Sprintf("%.1f", shot.Coordinate.Y),
			outcome,
		)
	}
	table.Render()
}

// PrintHeatMap renders one player's grid as ASCII art, one character per
// cell, rows top to bottom. Intensity is relative to the grid's own maximum.
func PrintHeatMap(w io.Writer, grid model.HeatMapGrid, playerName string) {
	fmt.Fprintf(w, "\nHeat map: %s (%d samples)\n", playerName, int(grid.Total()))
	if grid.Width <= 0 || grid.Height <= 0 {
		return
	}
	for cy := grid.Height - 1; cy >= 0; cy-- {
		fmt.Fprint(w, "  ")
		for cx := 0; cx < grid.Width; cx++ {
			fmt.Fprintf(w, "%c", rampChar(grid.Cells[cy*grid.Width+cx], grid.MaxIntensity))
		}
		fmt.Fprintln(w)
	}
}

// PrintSuggestions prints the tactical suggestion list grouped by side.
func PrintSuggestions(w io.Writer, suggestions []tactics.Suggestion, teamNames map[model.TeamSide]string) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "no tactical suggestions")
		return
	}
	fmt.Fprintln(w, "\nTactical suggestions:")
	for _, s := range suggestions {
		fmt.Fprintf(w, "  [%s] %s: %s\n", teamNames[s.Side], s.Title, s.Message)
	}
	fmt.Fprintln(w)
}

func nodeName(net model.TeamPassNetwork, id string) string {
	if node, ok := net.Nodes[id]; ok && node.Name != "" {
		return node.Name
	}
	return id
}

func rampChar(v, max float64) byte {
	if max <= 0 || v <= 0 {
		return intensityRamp[0]
	}
	idx := int(v / max * float64(len(intensityRamp)-1))
	if idx >= len(intensityRamp) {
		idx = len(intensityRamp) - 1
	}
	return intensityRamp[idx]
}
