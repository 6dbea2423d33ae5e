package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vvakame/foodexpress/internal/fixtures"
)

func newFixturesCommand() *cobra.Command {
	fixturesCmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Work with seed data",
	}

	var opts fixtures.GenerateOptions
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random catalog as fixtures YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := fixtures.Encode(fixtures.Generate(opts))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	generateCmd.Flags().IntVar(&opts.Restaurants, "restaurants", 10, "number of restaurants")
	generateCmd.Flags().IntVar(&opts.ItemsPerRestaurant, "items", 4, "menu items per restaurant")
	generateCmd.Flags().IntVar(&opts.Users, "users", 5, "number of users")
	generateCmd.Flags().Int64Var(&opts.Seed, "seed", 42, "random seed")

	fixturesCmd.AddCommand(generateCmd)

	return fixturesCmd
}
