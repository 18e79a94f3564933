package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/modelgraph/internal/datasource"
)

var (
	rebuildDir string
	rebuildDB  string
)

func init() {
	rebuildCmd.Flags().StringVar(&rebuildDir, "dir", "", "JSONL directory (default: configured jsonl source path)")
	rebuildCmd.Flags().StringVar(&rebuildDB, "db", "", "SQLite database file (required)")
	rebuildCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from JSONL",
	Long: `Rebuild the SQLite query database from entities.jsonl and relationships.jsonl.

Use this after editing the JSONL files. Point source.kind: sqlite at the
database to serve from it.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status        string `json:"status"`
	DB            string `json:"db"`
	Entities      int    `json:"entities"`
	Relationships int    `json:"relationships"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	dir := rebuildDir
	if dir == "" {
		cfg := mustLoadConfig()
		if cfg.Source.Kind != datasource.KindJSONL {
			exitWithError(ExitError, "--dir is required unless source.kind is jsonl")
		}
		dir = cfg.Source.Path
	}

	result, code, err := rebuildDatabase(dir, rebuildDB)
	if err != nil {
		exitWithError(code, "%v", err)
	}

	emit(result, func() {
		fmt.Printf("Rebuilt %s with %d entities and %d relationships\n", result.DB, result.Entities, result.Relationships)
	})
	return nil
}

// rebuildDatabase loads the JSONL directory into the SQLite file at dbPath and
// reports the rows it now holds. On failure it also returns the exit code.
func rebuildDatabase(dir, dbPath string) (RebuildResult, int, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return RebuildResult{}, ExitError, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := datasource.OpenDB(dbPath)
	if err != nil {
		return RebuildResult{}, ExitError, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, _, err := db.RebuildFromJSONL(dir); err != nil {
		return RebuildResult{}, ExitDataError, fmt.Errorf("rebuilding database: %w", err)
	}

	// Report what the database now holds, not what was read.
	nEnt, nRel, err := db.Counts()
	if err != nil {
		return RebuildResult{}, ExitError, fmt.Errorf("counting rows: %w", err)
	}

	return RebuildResult{
		Status:        "rebuilt",
		DB:            dbPath,
		Entities:      nEnt,
		Relationships: nRel,
	}, ExitSuccess, nil
}
