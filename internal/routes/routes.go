package routes

import (
	"net/http"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/app"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/handler"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	auth := handler.NewAuthHandler(app.AuthService, app.SaunaService)
	sauna := handler.NewSaunaHandler(app.SaunaService)

	mux := http.NewServeMux()

	// The whole auth surface shares one tight limiter (5 req / 15 min per IP)
	authLimiter := middleware.RateLimitAuth()
	requireAuth := middleware.RequireAuth(app.AuthService)

	mux.HandleFunc("POST /api/auth/login", authLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/verify", authLimiter(auth.Verify))
	mux.HandleFunc("POST /api/auth/refresh", authLimiter(auth.Refresh))
	mux.HandleFunc("POST /api/auth/logout", authLimiter(auth.Logout))
	mux.HandleFunc("GET /api/auth/me", authLimiter(requireAuth(auth.Me)))
	mux.HandleFunc("GET /api/auth/user/{userId}/saunas", authLimiter(requireAuth(auth.UserSaunas)))

	// Public directory
	mux.HandleFunc("GET /api/saunas", sauna.List)
	mux.HandleFunc("GET /api/saunas/{id}", sauna.Get)

	// Owner back office
	mux.HandleFunc("PUT /api/saunas/{id}", requireAuth(sauna.Update))
	mux.HandleFunc("POST /api/saunas/{id}/images", requireAuth(sauna.AddImage))
	mux.HandleFunc("DELETE /api/saunas/{id}/images/{filename}", requireAuth(sauna.RemoveImage))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.RateLimitAPI(),
	)
}
