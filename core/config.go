package core

import (
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Config tokenfolio config
type Config struct {
	DB      db.Config     `json:"db"`
	Session SessionConfig `json:"session"`
	Oracle  Oracle        `json:"oracle"`
}

// SessionConfig session config
type SessionConfig struct {
	// JwtSecret hs256 secret shared with the auth server
	JwtSecret string `json:"jwt_secret"`
	// Capacity token cache capacity, 0 disables the cache
	Capacity int `json:"capacity"`
}

// Oracle market data provider config
type Oracle struct {
	EndPoint string        `json:"end_point"`
	Timeout  time.Duration `json:"timeout"`
}
