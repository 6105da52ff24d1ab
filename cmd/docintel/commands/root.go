// Package commands implements the docintel CLI subcommands.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	verbose    bool
	noColor    bool
	jsonOutput bool
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:   "docintel",
	Short: "Extract structured data from documents with Azure Document Intelligence",
	Long: `docintel submits PDFs and images to the Azure Document Intelligence service,
waits for the analysis to complete, and prints the structured result: text,
tables, key-value pairs, checkboxes, barcodes, handwriting, and custom-model
fields. Credentials are read from a local .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the raw result payload as JSON")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write the result payload to a JSON file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
