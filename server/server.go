// Package server exposes the auth service over HTTP with JSON request
// and response bodies.
package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/coursedeck/auth"
	"github.com/jrsteele09/coursedeck/token"
)

// Server wires the auth service and the token codec to the HTTP
// surface. It is stateless per request; the mux is built once in New.
type Server struct {
	mux   *http.ServeMux
	auth  *auth.Service
	codec *token.Codec
	log   zerolog.Logger
}

func New(authService *auth.Service, codec *token.Codec, log zerolog.Logger) *Server {
	s := &Server{
		mux:   http.NewServeMux(),
		auth:  authService,
		codec: codec,
		log:   log,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.mux.HandleFunc(pattern, handler)
}
