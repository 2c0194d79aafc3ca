package server

import (
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// marketRequest is the query shape for market data endpoints
type marketRequest struct {
	Period   string `query:"period" default:"1mo" validate:"oneof=1d 2d 5d 1mo 3mo 6mo 1y 2y"`
	Interval string `query:"interval" default:"1d" validate:"oneof=1m 5m 15m 30m 1h 1d 1wk"`
}

// decisionsRequest is the query shape for the decision log endpoint
type decisionsRequest struct {
	Symbol string `query:"symbol"`
	Role   string `query:"role"`
	Limit  int    `query:"limit" default:"20" validate:"gte=1,lte=500"`
}

// auditRequest is the query shape for the audit trail endpoint
type auditRequest struct {
	Symbol string `query:"symbol"`
	Limit  int    `query:"limit" default:"20" validate:"gte=1,lte=500"`
}

// bindAndValidate binds the request into req, applies defaults, and
// validates. The returned details are safe to embed in an error envelope.
func bindAndValidate(c echo.Context, req any) (any, error) {
	if err := c.Bind(req); err != nil {
		return nil, fmt.Errorf("malformed request")
	}
	if err := defaults.Set(req); err != nil {
		return nil, err
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return details, fmt.Errorf("invalid request")
		}
		return nil, err
	}
	return nil, nil
}
