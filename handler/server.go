package handler

import (
	"net/http"

	"tokenfolio/core"
	"tokenfolio/handler/auth"
	"tokenfolio/handler/render"
	"tokenfolio/handler/rest"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	cfg        *core.Config
	session    core.Session
	portfolioz core.PortfolioService
	tokens     core.TokenStore
}

// New new server
func New(
	cfg *core.Config,
	session core.Session,
	portfolioz core.PortfolioService,
	tokens core.TokenStore,
) Server {
	return Server{
		cfg:        cfg,
		session:    session,
		portfolioz: portfolioz,
		tokens:     tokens,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(auth.HandleAuthentication(s.session))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, http.StatusNotFound, core.ErrUnknown, "not found")
	})

	r.Mount("/", rest.Handle(s.portfolioz, s.tokens))

	return r
}
