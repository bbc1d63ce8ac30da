package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	userHandler    userHandler
	catalogHandler catalogHandler
	recipeHandler  recipeHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string              `json:"error" example:"at least one tag is required"`
	Status  string              `json:"status" example:"error"`
	Field   string              `json:"field,omitempty" example:"tags"`
	Details string              `json:"details,omitempty" example:"Additional error details"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
