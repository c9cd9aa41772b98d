package middleware

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	api "citysync-v0/internal/api/application"
)

// APIKeyAuth middleware validates the X-API-Key header against the
// CITYSYNC_API_KEY environment variable
func APIKeyAuth(next http.Handler) http.Handler {
	return APIKeyAuthWithKey(os.Getenv("CITYSYNC_API_KEY"))(next)
}

// APIKeyAuthWithKey middleware validates the X-API-Key header against
// the given key
func APIKeyAuthWithKey(expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedKey == "" {
			// If no API key is set, reject all requests
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respondJSONError(w, http.StatusInternalServerError, "API key not configured")
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip authentication for Swagger UI and all its assets
			path := r.URL.Path
			if path == "/swagger" || strings.HasPrefix(path, "/swagger/") {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" || apiKey != expectedKey {
				respondJSONError(w, http.StatusUnauthorized, "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := api.ErrorResponse{Error: message}
	json.NewEncoder(w).Encode(response)
}
