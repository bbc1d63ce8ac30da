package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/config"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rpupo63/foodgram-backend/storage"
)

const maxBodyBytes = 20 << 20

// appServices is the set of domain services the handlers and middleware share
type appServices struct {
	users         *services.UserService
	subscriptions *services.SubscriptionService
	catalog       *services.CatalogService
	recipes       *services.RecipeService
	ledger        *services.LedgerService
	shoppingLists *services.ShoppingListService
}

func newAppServices(database database.Database, store storage.Store, c map[string]string) appServices {
	tokenTTL := time.Duration(config.GetInt(c, "TOKEN_TTL_HOURS", 24*7)) * time.Hour
	tokens := services.NewTokenIssuer(config.GetString(c, "JWT_SECRET", ""), tokenTTL)

	return appServices{
		users:         services.NewUserService(database, tokens),
		subscriptions: services.NewSubscriptionService(database),
		catalog:       services.NewCatalogService(database),
		recipes:       services.NewRecipeService(database, config.LoadLimits(c), storage.NewImageDecoder(store)),
		ledger:        services.NewLedgerService(database),
		shoppingLists: services.NewShoppingListService(database),
	}
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc appServices, pageSize int) *routeHandlers {
	return &routeHandlers{
		authHandler:    newAuthHandler(svc.users),
		userHandler:    newUserHandler(svc.users, svc.subscriptions, pageSize),
		catalogHandler: newCatalogHandler(svc.catalog),
		recipeHandler:  newRecipeHandler(svc.recipes, svc.ledger, svc.shoppingLists, pageSize),
	}
}

// decodeBody reads a JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// uuidParam parses a UUID path parameter
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}
