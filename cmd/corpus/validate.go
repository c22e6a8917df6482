package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"flowdex/backend/internal/catalog"
	"flowdex/backend/internal/validation"
)

func runValidate(cmd *cobra.Command, args []string) error {
	v, err := validation.NewValidator()
	if err != nil {
		return fmt.Errorf("build validator: %w", err)
	}

	summaryPath := filepath.Join(dataDir, catalog.SummaryFile)
	data, err := os.ReadFile(summaryPath)
	if err != nil {
		return fmt.Errorf("read summary: %w", err)
	}

	problems := 0
	if err := v.ValidateSummary(data); err != nil {
		problems++
		fmt.Printf("INVALID %s: %v\n", summaryPath, err)
	}

	// Loading the summary exercises the same normalization the server does,
	// including the duplicate-id invariant.
	if _, err := catalog.Parse(data); err != nil {
		problems++
		fmt.Printf("INVALID %s: %v\n", summaryPath, err)
	}

	defsDir := filepath.Join(dataDir, catalog.DefinitionsDir)
	entries, err := os.ReadDir(defsDir)
	if err != nil {
		if os.IsNotExist(err) {
			entries = nil
		} else {
			return fmt.Errorf("read definitions dir: %w", err)
		}
	}

	checked := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(defsDir, entry.Name())
		blob, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read definition %s: %w", path, err)
		}
		checked++
		if err := v.ValidateDefinition(blob); err != nil {
			problems++
			fmt.Printf("INVALID %s: %v\n", path, err)
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d invalid artifact(s)", problems)
	}
	fmt.Printf("OK: summary and %d definition blob(s) valid\n", checked)
	return nil
}
