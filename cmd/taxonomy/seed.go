package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taxonomy/internal/config"
	"taxonomy/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the development category sets",
	Long:  "Apply migrations, then insert the development category sets unless sets already exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(cfg *config.Config) error {
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Seed(db); err != nil {
				return fmt.Errorf("seed database: %w", err)
			}
			return nil
		})
	},
}
