package main

import (
	"fmt"
	"os"

	"github.com/rpupo63/foodgram-backend/config"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(config.New())
		if err != nil {
			return err
		}
		if err := database.New(db).Migrate(cmd.Context()); err != nil {
			return err
		}
		log.Info().Msg("Migration completed")
		return nil
	},
}

var ingredientsFile string

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients",
	Short: "Import ingredients from a name,measurement_unit CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(ingredientsFile)
		if err != nil {
			return fmt.Errorf("open %s: %w", ingredientsFile, err)
		}
		defer f.Close()

		db, err := database.Open(config.New())
		if err != nil {
			return err
		}

		n, err := services.NewCatalogService(database.New(db)).ImportIngredients(cmd.Context(), f)
		if err != nil {
			return err
		}
		log.Info().Int("count", n).Str("file", ingredientsFile).Msg("Ingredients loaded")
		return nil
	},
}

var (
	generatedOutPath string
	reportOnly       bool
)

var generateModelsCmd = &cobra.Command{
	Use:   "generate-models",
	Short: "Generate typed query helpers and report unmapped columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(config.New())
		if err != nil {
			return err
		}

		if reportOnly {
			if n := models.GenerateColumnMismatchReport(db); n > 0 {
				return fmt.Errorf("%d columns are not mapped by any model", n)
			}
			return nil
		}
		return models.GenerateModels(db, generatedOutPath)
	},
}

func init() {
	loadIngredientsCmd.Flags().StringVarP(&ingredientsFile, "file", "f", "data/ingredients.csv", "CSV file to import")

	generateModelsCmd.Flags().StringVar(&generatedOutPath, "out", "./generated", "output directory for generated code")
	generateModelsCmd.Flags().BoolVar(&reportOnly, "report-only", false, "only print the column mismatch report")
}
