package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchlens/pitchlens/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <hash-prefix>",
	Short: "Export a stored analytics bundle as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("match not found: %s", args[0])
	}

	bundle, err := db.GetBundle(summary.Hash)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", exportOut)
	return nil
}
