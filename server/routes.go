package server

import "net/http"

const (
	RouteAuthRegister = "/api/auth/register"
	RouteAuthLogin    = "/api/auth/login"
	RouteAuthMe       = "/api/auth/me"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))

	// Protected routes (require a valid bearer token)
	s.RegisterRouteFunc("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), append(s.APIMiddleware(), s.RequireAuth())...))

	// CORS preflight; CorsMiddleware answers before the no-op handler
	// runs.
	for _, route := range []string{RouteAuthRegister, RouteAuthLogin, RouteAuthMe} {
		s.RegisterRouteFunc("OPTIONS "+route, ChainMiddleware(noopHandler, s.APIMiddleware()...))
	}
}

func noopHandler(http.ResponseWriter, *http.Request) {}
