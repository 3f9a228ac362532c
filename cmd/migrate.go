package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/br00kd0wnt0n/poddit-api/internal/database"
	"github.com/br00kd0wnt0n/poddit-api/internal/models"
	"github.com/br00kd0wnt0n/poddit-api/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long: `Manage database migrations for the Poddit API.

The schema is migrated automatically by serve on startup; this command
exists for running migrations ahead of a deploy or inspecting the
current schema state.`,
}

// migrateUpCmd runs the schema migration
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the schema migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		if err := db.AutoMigrate(
			&models.User{},
			&models.Signal{},
			&models.Episode{},
			&models.EpisodeSegment{},
		); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Migration complete")
		return nil
	},
}

// migrateStatusCmd reports which tables exist
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		migrator := db.DB.Migrator()
		out := cmd.OutOrStdout()
		for _, model := range []any{
			&models.User{},
			&models.Signal{},
			&models.Episode{},
			&models.EpisodeSegment{},
		} {
			state := "missing"
			if migrator.HasTable(model) {
				state = "present"
			}
			fmt.Fprintf(out, "%-20T %s\n", model, state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func openDatabase() (*database.DB, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *database.DB) {
	if err := db.Close(); err != nil {
		log.Printf("[WARN] Closing database: %v", err)
	}
}

// repeatString repeats a string n times
func repeatString(s string, n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += s
	}
	return result
}
