// corpus - offline tooling for the flowdex workflow corpus
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
)

var (
	dataDir    string
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "corpus",
		Short:   "Manage the flowdex workflow corpus",
		Version: Version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "./data", "Corpus data directory")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a sample corpus for local development",
		RunE:  runGenerate,
	}
	generateCmd.Flags().IntP("count", "n", 0, "Additional synthetic records to generate")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the summary artifact and every definition blob",
		RunE:  runValidate,
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import definition blobs into the Postgres detail store",
		RunE:  runImport,
	}
	importCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to config file with db settings")

	rootCmd.AddCommand(generateCmd, validateCmd, importCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
