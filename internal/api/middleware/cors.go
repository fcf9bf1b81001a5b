package middleware

import (
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns the CORS configuration for the given origins
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        600,
	}
}

// CORS wraps h with gorilla/handlers CORS
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	opts := []gorillaHandlers.CORSOption{
		gorillaHandlers.AllowedOrigins(config.AllowOrigins),
		gorillaHandlers.AllowedMethods(config.AllowMethods),
		gorillaHandlers.AllowedHeaders(config.AllowHeaders),
		gorillaHandlers.ExposedHeaders(config.ExposeHeaders),
		gorillaHandlers.MaxAge(config.MaxAge),
	}
	if config.AllowCredentials {
		opts = append(opts, gorillaHandlers.AllowCredentials())
	}
	return gorillaHandlers.CORS(opts...)
}
