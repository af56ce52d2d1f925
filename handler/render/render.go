package render

import (
	"encoding/json"
	"net/http"

	"tokenfolio/core"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	write(w, http.StatusOK, v)
}

// Created render with json and 201
func Created(w http.ResponseWriter, v interface{}) {
	write(w, http.StatusCreated, v)
}

// Error write error
func Error(w http.ResponseWriter, statusCode int, errCode core.ErrorCode, msg string) {
	write(w, statusCode, H{"code": int(errCode), "msg": msg})
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, core.ErrInvalidParams, msg)
}

// Failure map a service error onto the rest surface. Unexpected faults are
// logged with detail and answered with an opaque internal error.
func Failure(w http.ResponseWriter, err error) {
	code, ok := err.(core.ErrorCode)
	if !ok {
		logrus.WithError(err).Errorln("internal error")
		Error(w, http.StatusInternalServerError, core.ErrUnknown, "internal server error")
		return
	}

	status, msg := describe(code)
	Error(w, status, code, msg)
}

func describe(code core.ErrorCode) (int, string) {
	switch code {
	case core.ErrUnauthorized:
		return http.StatusUnauthorized, "invalid access token"
	case core.ErrInvalidParams:
		return http.StatusBadRequest, "missing or malformed parameters"
	case core.ErrInvalidName:
		return http.StatusBadRequest, "portfolio name is missing"
	case core.ErrInvalidAmount:
		return http.StatusBadRequest, "amount must be a positive number"
	case core.ErrPortfolioNotFound:
		return http.StatusNotFound, "portfolio not found"
	case core.ErrPortfolioExists:
		return http.StatusConflict, "the user already owns a portfolio"
	case core.ErrHoldingNotFound:
		return http.StatusNotFound, "token not found in portfolio"
	case core.ErrTokenNotFound:
		return http.StatusNotFound, "token not found"
	case core.ErrUserNotFound:
		return http.StatusNotFound, "user not found"
	case core.ErrQuoteUnavailable:
		return http.StatusBadGateway, "token lookup failed"
	case core.ErrQuoteMalformed:
		return http.StatusBadGateway, "token lookup failed: incomplete data"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func write(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}
