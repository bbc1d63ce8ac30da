package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/foodgram-backend/services"
)

// setupRoutes mounts the API under /api. Every route sees the caller's
// identity when a token is sent; writes and per-user reads require one.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.identify)

		// Public endpoints
		r.Post("/auth/token/login", handlers.authHandler.login())
		r.Get("/users", handlers.userHandler.listUsers())
		r.Post("/users", handlers.userHandler.createUser())
		r.Get("/users/{userID}", handlers.userHandler.getUser())
		r.Get("/tags", handlers.catalogHandler.listTags())
		r.Get("/tags/{tagID}", handlers.catalogHandler.getTag())
		r.Get("/ingredients", handlers.catalogHandler.listIngredients())
		r.Get("/ingredients/{ingredientID}", handlers.catalogHandler.getIngredient())
		r.Get("/recipes", handlers.recipeHandler.listRecipes())
		r.Get("/recipes/{recipeID}", handlers.recipeHandler.getRecipe())

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Post("/auth/token/logout", handlers.authHandler.logout())

			r.Get("/users/me", handlers.userHandler.getMe())
			r.Post("/users/set_password", handlers.userHandler.setPassword())
			r.Get("/users/subscriptions", handlers.userHandler.listSubscriptions())
			r.Post("/users/{userID}/subscribe", handlers.userHandler.subscribe())
			r.Delete("/users/{userID}/subscribe", handlers.userHandler.unsubscribe())

			r.Post("/recipes", handlers.recipeHandler.createRecipe())
			r.Patch("/recipes/{recipeID}", handlers.recipeHandler.updateRecipe())
			r.Delete("/recipes/{recipeID}", handlers.recipeHandler.deleteRecipe())
			r.Post("/recipes/{recipeID}/favorite", handlers.recipeHandler.addToList(services.Favorites))
			r.Delete("/recipes/{recipeID}/favorite", handlers.recipeHandler.removeFromList(services.Favorites))
			r.Post("/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.addToList(services.ShoppingCart))
			r.Delete("/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.removeFromList(services.ShoppingCart))
			r.Get("/recipes/download_shopping_cart", handlers.recipeHandler.downloadShoppingCart())
		})
	})
}
