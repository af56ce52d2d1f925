package resthttp

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

var runOnce sync.Once
var restyClient *resty.Client

// Client shared resty client. Requests that outlive the timeout are aborted
// rather than left hanging on a slow upstream.
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(defaultTimeout)
	})

	return restyClient
}

// SetTimeout adjust the shared client timeout, zero keeps the default
func SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		Client().SetTimeout(timeout)
	}
}

// Request new resty request bound to ctx
func Request(ctx context.Context) *resty.Request {
	return Client().R().SetContext(ctx)
}
