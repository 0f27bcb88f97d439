package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pitchlens/pitchlens/internal/aggregator"
	"github.com/pitchlens/pitchlens/internal/parser"
)

var (
	analyzePlayer  string
	analyzeSuggest bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <match.json>",
	Short: "Analyze a match telemetry record without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePlayer, "player", "", "print this player's heat map (id or name)")
	analyzeCmd.Flags().BoolVar(&analyzeSuggest, "suggest", false, "print tactical suggestions")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rec, err := parser.Load(args[0])
	if err != nil {
		return fmt.Errorf("parse record: %w", err)
	}
	bundle, err := aggregator.Aggregate(rec)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	printBundle(bundle, summaryOf(bundle, ""), analyzePlayer, analyzeSuggest)
	return nil
}
