package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"flowdex/backend/internal/catalog"
	"flowdex/backend/internal/config"
	"flowdex/backend/internal/repository"
	"flowdex/backend/pkg/models"
)

// runImport loads every definition blob from the data directory into the
// Postgres detail store, creating the table if needed. Existing rows are
// replaced so the command is re-runnable.
func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	defsDir := filepath.Join(dataDir, catalog.DefinitionsDir)
	entries, err := os.ReadDir(defsDir)
	if err != nil {
		return fmt.Errorf("read definitions dir: %w", err)
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")

		blob, err := os.ReadFile(filepath.Join(defsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read definition %s: %w", id, err)
		}
		var def models.WorkflowDefinition
		if err := json.Unmarshal(blob, &def); err != nil {
			fmt.Printf("SKIP %s: %v\n", id, err)
			continue
		}

		if err := store.PutDefinition(ctx, id, &def); err != nil {
			return err
		}
		imported++
	}

	fmt.Printf("Imported %d definition blob(s)\n", imported)
	return nil
}
