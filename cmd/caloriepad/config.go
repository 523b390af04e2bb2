package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after applying the config file, CALORIEPAD_*
environment variables and flags.

With --yaml the output can be saved as .caloriepad/config.yaml. The Postgres
password is never printed.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNoStore: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		asYAML, _ := cmd.Flags().GetBool("yaml")
		if !asYAML {
			fmt.Println(cfg.String())
			return
		}

		out := *cfg
		if out.Storage.Postgres != nil {
			pg := *out.Storage.Postgres
			pg.Password = ""
			out.Storage.Postgres = &pg
		}
		data, err := yaml.Marshal(&out)
		if err != nil {
			fail("%v", err)
		}
		fmt.Print(string(data))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("yaml", false, "Print as YAML")
}
