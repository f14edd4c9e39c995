package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var registriesCmd = &cobra.Command{
	Use:   "registries",
	Short: "List the league name registries",
	Args:  cobra.NoArgs,
	RunE:  runRegistries,
}

var registriesFile string

func init() {
	registriesCmd.Flags().StringVar(&registriesFile, "registry", "", "YAML file with additional league registries")
	rootCmd.AddCommand(registriesCmd)
}

func runRegistries(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalog(registriesFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, league := range catalog.Leagues() {
		reg, err := catalog.Lookup(league)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s\t%d cities\t%d nicknames\t%s\n",
			league, len(reg.Cities), len(reg.Nicknames), strings.Join(reg.Nicknames, ", ")); err != nil {
			return err
		}
	}
	return nil
}
