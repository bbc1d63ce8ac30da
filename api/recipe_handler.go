package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type recipeHandler struct {
	responder     Responder
	logger        zerolog.Logger
	recipes       *services.RecipeService
	ledger        *services.LedgerService
	shoppingLists *services.ShoppingListService
	pageSize      int
}

func newRecipeHandler(recipes *services.RecipeService, ledger *services.LedgerService, shoppingLists *services.ShoppingListService, pageSize int) recipeHandler {
	logger := log.With().Str("handlerName", "recipeHandler").Logger()

	return recipeHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		recipes:       recipes,
		ledger:        ledger,
		shoppingLists: shoppingLists,
		pageSize:      pageSize,
	}
}

// listRecipes retrieves one page of recipes, newest first
// @Summary List recipes
// @Description Filters combine; tags match any of the given slugs. is_favorited and is_in_shopping_cart only apply to authenticated users.
// @Tags Recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query string false "Author ID" format(uuid)
// @Param tags query []string false "Tag slugs" collectionFormat(multi)
// @Param is_favorited query int false "1 to list favorites only"
// @Param is_in_shopping_cart query int false "1 to list the shopping cart only"
// @Success 200 {object} PageResponse[services.RecipeView]
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid author"
// @Router /api/recipes [get]
func (h recipeHandler) listRecipes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := services.RecipeQuery{
			TagSlugs:  r.URL.Query()["tags"],
			Favorited: queryFlag(r, "is_favorited"),
			InCart:    queryFlag(r, "is_in_shopping_cart"),
			Page:      pageFromRequest(r, h.pageSize),
		}
		if author := r.URL.Query().Get("author"); author != "" {
			authorID, err := uuid.Parse(author)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid author"))
				return
			}
			query.AuthorID = authorID
		}

		recipes, total, err := h.recipes.List(r.Context(), ctxGetUserID(r.Context()), query)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newPageResponse(r, query.Page, total, recipes))
	}
}

// getRecipe retrieves a recipe by ID
// @Summary Get recipe
// @Tags Recipes
// @Produce json
// @Param recipeID path string true "Recipe ID" format(uuid)
// @Success 200 {object} services.RecipeView
// @Failure 404 {object} ErrorResponse "Not Found - Recipe not found"
// @Router /api/recipes/{recipeID} [get]
func (h recipeHandler) getRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuidParam(r, "recipeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipe, err := h.recipes.Get(r.Context(), ctxGetUserID(r.Context()), recipeID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, recipe)
	}
}

// createRecipe creates a recipe authored by the current user
// @Summary Create recipe
// @Description The image is a base64 data URI; tags and ingredients must be non-empty, unique and exist.
// @Tags Recipes
// @Accept json
// @Produce json
// @Param recipe body services.RecipeInput true "Recipe data"
// @Success 201 {object} services.RecipeView
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid recipe data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/recipes [post]
func (h recipeHandler) createRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.RecipeInput
		if err := decodeBody(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipe, err := h.recipes.Create(r.Context(), ctxGetUserID(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, recipe)
	}
}

// updateRecipe applies a partial update to a recipe of the current user
// @Summary Update recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Param recipeID path string true "Recipe ID" format(uuid)
// @Param recipe body services.RecipePatch true "Fields to change"
// @Success 200 {object} services.RecipeView
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid recipe data"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Recipe not found"
// @Router /api/recipes/{recipeID} [patch]
func (h recipeHandler) updateRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuidParam(r, "recipeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.RecipePatch
		if err := decodeBody(w, r, &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipe, err := h.recipes.Update(r.Context(), ctxGetUserID(r.Context()), recipeID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, recipe)
	}
}

// deleteRecipe deletes a recipe of the current user
// @Summary Delete recipe
// @Tags Recipes
// @Param recipeID path string true "Recipe ID" format(uuid)
// @Success 204
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Recipe not found"
// @Router /api/recipes/{recipeID} [delete]
func (h recipeHandler) deleteRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuidParam(r, "recipeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.recipes.Delete(r.Context(), ctxGetUserID(r.Context()), recipeID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// addToList puts a recipe into the current user's favorites or shopping cart
// @Summary Add to favorites / shopping cart
// @Tags Recipes
// @Produce json
// @Param recipeID path string true "Recipe ID" format(uuid)
// @Success 201 {object} services.RecipeShort
// @Failure 404 {object} ErrorResponse "Not Found - Recipe not found"
// @Failure 409 {object} ErrorResponse "Conflict - Already added"
// @Router /api/recipes/{recipeID}/favorite [post]
// @Router /api/recipes/{recipeID}/shopping_cart [post]
func (h recipeHandler) addToList(list services.RecipeList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuidParam(r, "recipeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipe, err := h.ledger.Add(r.Context(), list, ctxGetUserID(r.Context()), recipeID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, recipe)
	}
}

// removeFromList takes a recipe out of the current user's favorites or shopping cart
// @Summary Remove from favorites / shopping cart
// @Tags Recipes
// @Param recipeID path string true "Recipe ID" format(uuid)
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found - Recipe not in the list"
// @Router /api/recipes/{recipeID}/favorite [delete]
// @Router /api/recipes/{recipeID}/shopping_cart [delete]
func (h recipeHandler) removeFromList(list services.RecipeList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuidParam(r, "recipeID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.ledger.Remove(r.Context(), list, ctxGetUserID(r.Context()), recipeID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// downloadShoppingCart returns the aggregated shopping list as a text attachment
// @Summary Download shopping list
// @Tags Recipes
// @Produce plain
// @Success 200 {file} file "Shopping list"
// @Failure 400 {object} ErrorResponse "Bad Request - Shopping cart is empty"
// @Router /api/recipes/download_shopping_cart [get]
func (h recipeHandler) downloadShoppingCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.shoppingLists.Build(r.Context(), ctxGetUserID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", list.Filename))
		if _, err := w.Write(list.Content); err != nil {
			h.logger.Error().Err(err).Msg("Failed to write shopping list")
		}
	}
}
