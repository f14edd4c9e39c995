package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redshirtrob/blb-extractor/internal/schemas"
)

var validateASTCmd = &cobra.Command{
	Use:   "validate-ast FILE",
	Short: "Validate a stashed flat tree against the boxscore schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateAST,
}

var validateSchemaPath string

func init() {
	validateASTCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Validate against this JSON Schema file instead of the bundled one")
	rootCmd.AddCommand(validateASTCmd)
}

func runValidateAST(cmd *cobra.Command, args []string) error {
	var err error
	if validateSchemaPath != "" {
		err = schemas.ValidateJSON(validateSchemaPath, args[0])
	} else {
		err = schemas.ValidateFlatTreeFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("validation failed for %s: %w", args[0], err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", args[0])
	return err
}
