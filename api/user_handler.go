package api

import (
	"net/http"

	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder     Responder
	logger        zerolog.Logger
	users         *services.UserService
	subscriptions *services.SubscriptionService
	pageSize      int
}

func newUserHandler(users *services.UserService, subscriptions *services.SubscriptionService, pageSize int) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		users:         users,
		subscriptions: subscriptions,
		pageSize:      pageSize,
	}
}

// listUsers retrieves one page of users
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Username prefix"
// @Success 200 {object} PageResponse[services.UserView]
// @Router /api/users [get]
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromRequest(r, h.pageSize)
		users, total, err := h.users.List(r.Context(), ctxGetUserID(r.Context()), r.URL.Query().Get("search"), page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newPageResponse(r, page, total, users))
	}
}

// createUser registers a new account
// @Summary Register
// @Tags Users
// @Accept json
// @Produce json
// @Param user body services.RegisterInput true "Account data"
// @Success 201 {object} services.UserView
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid account data"
// @Failure 409 {object} ErrorResponse "Conflict - Username or email taken"
// @Router /api/users [post]
func (h userHandler) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.RegisterInput
		if err := decodeBody(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.Register(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, user)
	}
}

// getMe returns the authenticated user
// @Summary Current user
// @Tags Users
// @Produce json
// @Success 200 {object} services.UserView
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/users/me [get]
func (h userHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := ctxGetUserID(r.Context())
		user, err := h.users.Get(r.Context(), userID, userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// getUser retrieves a user profile
// @Summary Get user
// @Tags Users
// @Produce json
// @Param userID path string true "User ID" format(uuid)
// @Success 200 {object} services.UserView
// @Failure 404 {object} ErrorResponse "Not Found - User not found"
// @Router /api/users/{userID} [get]
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuidParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.Get(r.Context(), ctxGetUserID(r.Context()), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

// setPassword changes the authenticated user's password
// @Summary Set password
// @Tags Users
// @Accept json
// @Param passwords body setPasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} ErrorResponse "Bad Request - Wrong current password"
// @Router /api/users/set_password [post]
func (h userHandler) setPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setPasswordRequest
		if err := decodeBody(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.users.SetPassword(r.Context(), ctxGetUserID(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// listSubscriptions returns the authors the user follows with a preview of their recipes
// @Summary List subscriptions
// @Tags Subscriptions
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes shown per author"
// @Success 200 {object} PageResponse[services.AuthorView]
// @Router /api/users/subscriptions [get]
func (h userHandler) listSubscriptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromRequest(r, h.pageSize)
		authors, total, err := h.subscriptions.List(r.Context(), ctxGetUserID(r.Context()), page, queryInt(r, "recipes_limit", 0))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newPageResponse(r, page, total, authors))
	}
}

// subscribe follows an author
// @Summary Subscribe
// @Tags Subscriptions
// @Produce json
// @Param userID path string true "Author ID" format(uuid)
// @Param recipes_limit query int false "Recipes shown"
// @Success 201 {object} services.AuthorView
// @Failure 400 {object} ErrorResponse "Bad Request - Cannot subscribe to yourself"
// @Failure 404 {object} ErrorResponse "Not Found - Author not found"
// @Failure 409 {object} ErrorResponse "Conflict - Already subscribed"
// @Router /api/users/{userID}/subscribe [post]
func (h userHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := uuidParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		author, err := h.subscriptions.Subscribe(r.Context(), ctxGetUserID(r.Context()), authorID, queryInt(r, "recipes_limit", 0))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, author)
	}
}

// unsubscribe stops following an author
// @Summary Unsubscribe
// @Tags Subscriptions
// @Param userID path string true "Author ID" format(uuid)
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found - Not subscribed"
// @Router /api/users/{userID}/subscribe [delete]
func (h userHandler) unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := uuidParam(r, "userID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.subscriptions.Unsubscribe(r.Context(), ctxGetUserID(r.Context()), authorID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}
