package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown internal fault
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized missing or invalid access token
	ErrUnauthorized ErrorCode = 100001
	// ErrInvalidParams malformed or missing request parameters
	ErrInvalidParams ErrorCode = 100002

	// ErrInvalidName empty portfolio name
	ErrInvalidName ErrorCode = 100100
	// ErrInvalidAmount amount is not a positive finite number
	ErrInvalidAmount ErrorCode = 100101
	// ErrPortfolioNotFound no portfolio for the user
	ErrPortfolioNotFound ErrorCode = 100102
	// ErrPortfolioExists the user already owns a portfolio
	ErrPortfolioExists ErrorCode = 100103
	// ErrHoldingNotFound no holding for the token in the portfolio
	ErrHoldingNotFound ErrorCode = 100104
	// ErrTokenNotFound no catalog entry
	ErrTokenNotFound ErrorCode = 100105
	// ErrUserNotFound no user record
	ErrUserNotFound ErrorCode = 100106

	// ErrQuoteUnavailable upstream quote fetch failed
	ErrQuoteUnavailable ErrorCode = 100200
	// ErrQuoteMalformed upstream quote is missing required fields
	ErrQuoteMalformed ErrorCode = 100201
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
