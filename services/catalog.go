package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CatalogService serves the reference data recipes are built from
type CatalogService struct {
	db     database.Database
	logger zerolog.Logger
}

func NewCatalogService(db database.Database) *CatalogService {
	return &CatalogService{
		db:     db,
		logger: log.With().Str("service", "catalogService").Logger(),
	}
}

func (s *CatalogService) Tags(ctx context.Context) ([]TagView, error) {
	tags, err := s.db.TagRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tags", err)
	}
	views := make([]TagView, 0, len(tags))
	for _, tag := range tags {
		views = append(views, newTagView(tag))
	}
	return views, nil
}

func (s *CatalogService) Tag(ctx context.Context, id uuid.UUID) (*TagView, error) {
	tag, err := s.db.TagRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	if tag == nil {
		return nil, errs.NewNotFound("tag")
	}
	view := newTagView(tag)
	return &view, nil
}

// Ingredients lists ingredients whose name starts with prefix, ignoring case
func (s *CatalogService) Ingredients(ctx context.Context, prefix string) ([]*models.Ingredient, error) {
	ingredients, err := s.db.IngredientRepo().Search(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, errs.NewDatabaseError("list", "ingredients", err)
	}
	return ingredients, nil
}

func (s *CatalogService) Ingredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	ingredient, err := s.db.IngredientRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "ingredient", err)
	}
	if ingredient == nil {
		return nil, errs.NewNotFound("ingredient")
	}
	return ingredient, nil
}

// ImportIngredients reads name,measurement_unit records from r and stores them
// in one transaction. A leading header row is skipped. Pairs already in the
// catalog are left alone; the result counts only new rows.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (int, error) {
	ingredients, err := ParseIngredientsCSV(r)
	if err != nil {
		return 0, err
	}
	if len(ingredients) == 0 {
		return 0, nil
	}

	var added int64
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		added, err = tx.IngredientRepo().AddMany(ctx, ingredients)
		return err
	})
	if err != nil {
		return 0, errs.NewDatabaseError("import", "ingredients", err)
	}

	s.logger.Info().Int64("added", added).Int("read", len(ingredients)).Msg("Ingredients imported")
	return int(added), nil
}

// ParseIngredientsCSV decodes name,measurement_unit records
func ParseIngredientsCSV(r io.Reader) ([]*models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var ingredients []*models.Ingredient
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.NewMalformedPayloadError("ingredients csv", err)
		}

		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(name, "name") {
			continue
		}
		if name == "" || unit == "" {
			return nil, errs.NewValidationError("ingredients", fmt.Sprintf("line %d: name and measurement unit are required", line))
		}
		ingredients = append(ingredients, &models.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return ingredients, nil
}
