package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redshirtrob/blb-extractor/internal/classify"
	"github.com/redshirtrob/blb-extractor/internal/ingestion"
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILE",
	Short: "Print the report kind of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	report, _, err := ingestion.ReadReport(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), classify.Classify(report.Content))
	return err
}
