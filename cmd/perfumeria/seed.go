package main

import (
	"fmt"

	"github.com/spf13/cobra"

	applog "perfumeria/internal/log"
	"perfumeria/internal/repos"
)

// perfumeria seed: load the demo catalog into an empty database.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo perfumes when the catalog is empty",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := boot()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := repos.SeedDemo(db); err != nil {
			return err
		}
		applog.Info(nil, "seed.demo", nil)
		fmt.Println("✅  Demo catalog ready")
		return nil
	},
}
