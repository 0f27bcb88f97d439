package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitchlens/pitchlens/internal/aggregator"
	"github.com/pitchlens/pitchlens/internal/model"
	"github.com/pitchlens/pitchlens/internal/parser"
	"github.com/pitchlens/pitchlens/internal/report"
	"github.com/pitchlens/pitchlens/internal/storage"
	"github.com/pitchlens/pitchlens/internal/tactics"
)

var (
	parsePlayer  string
	parseSuggest bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <match.json>",
	Short: "Parse a match telemetry record, store the analytics and print the report",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parsePlayer, "player", "", "print this player's heat map (id or name)")
	parseCmd.Flags().BoolVar(&parseSuggest, "suggest", false, "print tactical suggestions")
}

func runParse(cmd *cobra.Command, args []string) error {
	recordPath := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rec, err := parser.Load(recordPath)
	if err != nil {
		return fmt.Errorf("parse record: %w", err)
	}

	exists, err := db.MatchExists(rec.Hash)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Match %s already stored — showing cached results.\n", rec.Hash[:12])
		return showByHash(db, rec.Hash, parsePlayer, parseSuggest)
	}

	bundle, err := aggregator.Aggregate(rec)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	importedAt := time.Now().UTC().Format(time.RFC3339)
	if err := db.InsertBundle(bundle, importedAt); err != nil {
		return fmt.Errorf("insert bundle: %w", err)
	}

	printBundle(bundle, summaryOf(bundle, importedAt), parsePlayer, parseSuggest)
	return nil
}

func showByHash(db *storage.DB, hash, player string, suggest bool) error {
	summary, err := db.GetMatchByPrefix(hash)
	if err != nil || summary == nil {
		return fmt.Errorf("match not found: %s", hash)
	}
	bundle, err := db.GetBundle(summary.Hash)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}
	printBundle(bundle, *summary, player, suggest)
	return nil
}

func summaryOf(bundle *model.AnalyticsBundle, importedAt string) model.MatchSummary {
	return model.MatchSummary{
		Hash:       bundle.RecordHash,
		HomeName:   bundle.TeamNames[model.SideHome],
		AwayName:   bundle.TeamNames[model.SideAway],
		HomeScore:  bundle.Score[model.SideHome],
		AwayScore:  bundle.Score[model.SideAway],
		MVP:        bundle.MVP,
		ImportedAt: importedAt,
	}
}

func printBundle(bundle *model.AnalyticsBundle, summary model.MatchSummary, player string, suggest bool) {
	// The stored MVP is a player id; render the display name.
	if summary.MVP != "" {
		summary.MVP = displayName(bundle, summary.MVP)
	}
	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintTeamStatsTable(os.Stdout, bundle)
	report.PrintRosterTable(os.Stdout, bundle)
	for _, side := range model.Sides() {
		report.PrintPassNetworkTable(os.Stdout, bundle.PassNetworks[side], bundle.TeamNames[side])
	}
	report.PrintShotTable(os.Stdout, bundle)

	if player != "" {
		if grid, name, ok := findHeatMap(bundle, player); ok {
			report.PrintHeatMap(os.Stdout, grid, name)
		} else {
			fmt.Fprintf(os.Stderr, "No heat map for player %q\n", player)
		}
	}

	if suggest {
		report.PrintSuggestions(os.Stdout, tactics.Suggest(bundle.TeamStats), bundle.TeamNames)
	}
}

// findHeatMap matches by player id first, then by roster display name.
func findHeatMap(bundle *model.AnalyticsBundle, player string) (model.HeatMapGrid, string, bool) {
	if grid, ok := bundle.HeatMaps[player]; ok {
		return grid, displayName(bundle, player), true
	}
	for _, side := range model.Sides() {
		for _, entry := range bundle.Rosters[side] {
			if entry.Name == player {
				if grid, ok := bundle.HeatMaps[entry.ID]; ok {
					return grid, entry.Name, true
				}
			}
		}
	}
	return model.HeatMapGrid{}, "", false
}

func displayName(bundle *model.AnalyticsBundle, id string) string {
	for _, side := range model.Sides() {
		for _, entry := range bundle.Rosters[side] {
			if entry.ID == id {
				return entry.Name
			}
		}
	}
	return id
}
