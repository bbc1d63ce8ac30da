package api

import (
	"net/http"

	"github.com/rpupo63/foodgram-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *services.UserService
}

func newAuthHandler(users *services.UserService) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
	}
}

// login exchanges credentials for an access token
// @Summary Log in
// @Description Checks email and password and returns a signed access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Email and password"
// @Success 200 {object} TokenResponse "Access token"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid credentials"
// @Router /api/auth/token/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, err := h.users.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TokenResponse{AuthToken: token})
	}
}

// logout ends the session. Tokens are stateless, so this only confirms the caller was authenticated.
// @Summary Log out
// @Tags Auth
// @Success 204
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/auth/token/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug().Str("userID", ctxGetUserID(r.Context()).String()).Msg("User logged out")
		h.responder.WriteNoContent(w)
	}
}
