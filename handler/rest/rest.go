package rest

import (
	"net/http"

	"tokenfolio/core"
	"tokenfolio/handler/render"
	"tokenfolio/handler/request"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(portfolioz core.PortfolioService, tokenStore core.TokenStore) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, http.StatusNotFound, core.ErrUnknown, "not found")
	})

	router.Get("/tokens", allTokensHandler(tokenStore))

	router.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Post("/portfolio", createPortfolioHandler(portfolioz))
		r.Get("/portfolio", getPortfolioHandler(portfolioz))
		r.Post("/portfolio/tokens/{portfolioID}", addTokenHandler(portfolioz))
		r.Put("/portfolio/tokens/{portfolioID}/{tokenID}", updateAmountHandler(portfolioz))
		r.Delete("/portfolio/tokens/{portfolioID}/{tokenID}", removeTokenHandler(portfolioz))
	})

	return router
}

// requireUser the identity provider must have yielded a trusted user before
// any portfolio operation runs
func requireUser(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := request.NewContext(ctx).GetUser(); !ok {
			render.Failure(w, core.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
