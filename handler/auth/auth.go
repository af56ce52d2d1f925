package auth

import (
	"net/http"
	"strings"

	"tokenfolio/core"
	"tokenfolio/handler/render"
	"tokenfolio/handler/request"

	"github.com/fox-one/pkg/logger"
)

// HandleAuthentication resolve the bearer token into a user and stash it on
// the request context. Requests without a valid user continue anonymously;
// protected routes reject them downstream.
func HandleAuthentication(session core.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			accessToken := getBearerToken(r)
			if accessToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := session.Login(ctx, accessToken)
			if err != nil {
				// a verified token whose user row is gone is a hard miss,
				// anything else stays anonymous and is rejected downstream
				if err == core.ErrUserNotFound {
					render.Failure(w, err)
					return
				}

				log.WithError(err).Debugln("parse access token failed")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithUser(user)))
		}

		return http.HandlerFunc(fn)
	}
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	return strings.TrimPrefix(s, "Bearer ")
}
