package middleware

import "net/http"

// Chain wraps h so the first middleware listed becomes the outermost layer.
func Chain(h http.Handler, outer ...func(http.Handler) http.Handler) http.Handler {
	for i := len(outer) - 1; i >= 0; i-- {
		h = outer[i](h)
	}
	return h
}
