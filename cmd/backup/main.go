package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"assignmenttracker/internal/config"
	"assignmenttracker/internal/database"
	"assignmenttracker/internal/service"
)

func main() {
	root := &cobra.Command{
		Use:   "backup",
		Short: "Assignment tracker database backup tool",
		Long: `Export or import the assignment database as JSON.

The database is selected with the same environment variables as the server:
  DATABASE_TYPE    sqlite, postgres or mysql (default: sqlite)
  DB_PATH          SQLite database path (default: ./assignments.db)
  DATABASE_URL     PostgreSQL or MySQL connection URL`,
		SilenceUsage: true,
	}
	root.AddCommand(exportCommand(), importCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openBackupService connects to the configured database and makes sure the schema is current
func openBackupService() (*service.BackupService, func(), error) {
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return service.NewBackupService(db), func() { db.Close() }, nil
}

func exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database to a JSON file",
		Example: `  backup export
  backup export --output backups/mybackup.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			backups, closeDB, err := openBackupService()
			if err != nil {
				return err
			}
			defer closeDB()

			log.Printf("Exporting database to: %s", output)
			if err := backups.Export(cmd.Context(), output); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if info, err := os.Stat(output); err == nil {
				log.Printf("Export complete! File size: %.2f KB", float64(info.Size())/1024)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func importCommand() *cobra.Command {
	var (
		input string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Replace all data with the contents of a JSON backup",
		Example: `  backup import --input backup.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file %s: %w", input, err)
			}

			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will replace all existing data. Type 'yes' to confirm: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					log.Println("Import cancelled")
					return nil
				}
			}

			backups, closeDB, err := openBackupService()
			if err != nil {
				return err
			}
			defer closeDB()

			log.Printf("Importing database from: %s", input)
			if err := backups.Import(cmd.Context(), input); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			log.Println("Import complete!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file path (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagRequired("input")
	return cmd
}
