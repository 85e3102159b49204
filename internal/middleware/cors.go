package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// Cors allows credentialed requests from origins, or from anywhere when
// origins is empty.
func Cors(origins ...string) Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return len(origins) == 0 || slices.Contains(origins, origin)
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
