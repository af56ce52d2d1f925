package session

import (
	"context"
	"time"

	"tokenfolio/core"

	"github.com/asaskevich/govalidator"
	"github.com/bluele/gcache"
	"github.com/golang-jwt/jwt"
	"github.com/spf13/cast"
	"golang.org/x/sync/singleflight"
)

// New new session. A positive capacity enables the token cache.
func New(users core.UserStore, cfg core.SessionConfig) core.Session {
	var s core.Session = &session{
		users:  users,
		secret: []byte(cfg.JwtSecret),
		sf:     &singleflight.Group{},
	}

	if cfg.Capacity > 0 {
		s = &cacheSession{
			Session: s,
			tokens:  gcache.New(cfg.Capacity).LRU().Build(),
		}
	}

	return s
}

type session struct {
	users  core.UserStore
	secret []byte
	sf     *singleflight.Group
}

func (s *session) Login(ctx context.Context, accessToken string) (*core.User, error) {
	user, err, _ := s.sf.Do(accessToken, func() (interface{}, error) {
		token, err := jwt.Parse(accessToken, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, core.ErrUnauthorized
			}

			return s.secret, nil
		})
		if err != nil || !token.Valid {
			return nil, core.ErrUnauthorized
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, core.ErrUnauthorized
		}

		uid := cast.ToString(claims["sub"])
		if !govalidator.IsUUID(uid) {
			return nil, core.ErrUnauthorized
		}

		user, err := s.users.Find(ctx, uid)
		if err != nil {
			return nil, err
		}
		if user.ID == 0 {
			return nil, core.ErrUserNotFound
		}

		return user, nil
	})
	if err != nil {
		return nil, err
	}

	return user.(*core.User), nil
}

type cacheSession struct {
	core.Session
	tokens gcache.Cache
}

func (s *cacheSession) Login(ctx context.Context, accessToken string) (*core.User, error) {
	if v, err := s.tokens.Get(accessToken); err == nil {
		if user, ok := v.(*core.User); ok {
			return user, nil
		}
	}

	user, err := s.Session.Login(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	_ = s.tokens.SetWithExpire(accessToken, user, time.Minute)
	return user, nil
}
