package rest

import (
	"net/http"

	"tokenfolio/core"
	"tokenfolio/handler/param"
	"tokenfolio/handler/render"
	"tokenfolio/handler/views"
)

func allTokensHandler(tokenStore core.TokenStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Limit int `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, "invalid query")
			return
		}

		tokens, err := tokenStore.All(ctx)
		if err != nil {
			render.Failure(w, err)
			return
		}

		if params.Limit > 0 && params.Limit < len(tokens) {
			tokens = tokens[:params.Limit]
		}

		render.JSON(w, views.Tokens{Tokens: tokens})
	}
}
