package rest

import (
	"net/http"

	"tokenfolio/core"
	"tokenfolio/handler/param"
	"tokenfolio/handler/render"
	"tokenfolio/handler/request"
	"tokenfolio/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

func createPortfolioHandler(portfolioz core.PortfolioService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, _ := request.NewContext(ctx).GetUser()

		var params struct {
			Name string `json:"portfolio_name"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, "invalid request body")
			return
		}

		portfolio, err := portfolioz.CreatePortfolio(ctx, user.UserID, params.Name)
		if err != nil {
			render.Failure(w, err)
			return
		}

		render.Created(w, portfolio)
	}
}

func getPortfolioHandler(portfolioz core.PortfolioService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, _ := request.NewContext(ctx).GetUser()

		detail, err := portfolioz.GetPortfolio(ctx, user.UserID)
		if err != nil {
			render.Failure(w, err)
			return
		}

		render.JSON(w, detail)
	}
}

func addTokenHandler(portfolioz core.PortfolioService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, _ := request.NewContext(ctx).GetUser()

		portfolioID := cast.ToUint64(chi.URLParam(r, "portfolioID"))
		if portfolioID == 0 {
			render.BadRequest(w, "invalid portfolio id")
			return
		}

		var params struct {
			Contract string          `json:"contract"`
			Chain    string          `json:"chain"`
			Amount   decimal.Decimal `json:"amount"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, "invalid request body")
			return
		}

		token, detail, err := portfolioz.AddToken(ctx, user.UserID, portfolioID, core.ParseChain(params.Chain), params.Contract, params.Amount)
		if err != nil {
			render.Failure(w, err)
			return
		}

		render.JSON(w, views.AddToken{
			Token:     token,
			Portfolio: detail,
		})
	}
}

func updateAmountHandler(portfolioz core.PortfolioService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, _ := request.NewContext(ctx).GetUser()

		portfolioID := cast.ToUint64(chi.URLParam(r, "portfolioID"))
		tokenID := cast.ToUint64(chi.URLParam(r, "tokenID"))
		if portfolioID == 0 || tokenID == 0 {
			render.BadRequest(w, "invalid portfolio or token id")
			return
		}

		var params struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, "invalid request body")
			return
		}

		holding, err := portfolioz.UpdateAmount(ctx, user.UserID, portfolioID, tokenID, params.Amount)
		if err != nil {
			render.Failure(w, err)
			return
		}

		render.JSON(w, views.Holding{Holding: *holding})
	}
}

func removeTokenHandler(portfolioz core.PortfolioService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, _ := request.NewContext(ctx).GetUser()

		portfolioID := cast.ToUint64(chi.URLParam(r, "portfolioID"))
		tokenID := cast.ToUint64(chi.URLParam(r, "tokenID"))
		if portfolioID == 0 || tokenID == 0 {
			render.BadRequest(w, "invalid portfolio or token id")
			return
		}

		if err := portfolioz.RemoveToken(ctx, user.UserID, portfolioID, tokenID); err != nil {
			render.Failure(w, err)
			return
		}

		render.JSON(w, render.H{"msg": "token removed"})
	}
}
