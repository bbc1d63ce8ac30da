package api

import (
	"net/http"

	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type catalogHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *services.CatalogService
}

func newCatalogHandler(catalog *services.CatalogService) catalogHandler {
	logger := log.With().Str("handlerName", "catalogHandler").Logger()

	return catalogHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   catalog,
	}
}

// listTags returns every tag
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {array} services.TagView
// @Router /api/tags [get]
func (h catalogHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.catalog.Tags(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

// @Summary Get tag
// @Tags Tags
// @Produce json
// @Param tagID path string true "Tag ID" format(uuid)
// @Success 200 {object} services.TagView
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /api/tags/{tagID} [get]
func (h catalogHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := uuidParam(r, "tagID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag, err := h.catalog.Tag(r.Context(), tagID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tag)
	}
}

// listIngredients searches ingredients by name prefix
// @Summary List ingredients
// @Tags Ingredients
// @Produce json
// @Param name query string false "Name prefix, case-insensitive"
// @Success 200 {array} models.Ingredient
// @Router /api/ingredients [get]
func (h catalogHandler) listIngredients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredients, err := h.catalog.Ingredients(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ingredients)
	}
}

// @Summary Get ingredient
// @Tags Ingredients
// @Produce json
// @Param ingredientID path string true "Ingredient ID" format(uuid)
// @Success 200 {object} models.Ingredient
// @Failure 404 {object} ErrorResponse "Not Found - Ingredient not found"
// @Router /api/ingredients/{ingredientID} [get]
func (h catalogHandler) getIngredient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, err := uuidParam(r, "ingredientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ingredient, err := h.catalog.Ingredient(r.Context(), ingredientID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ingredient)
	}
}
