package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	qrcodes "qrMenu/internal/modules/qrcodes/domain"
	"qrMenu/internal/modules/realtime/application/usecase"
	domain "qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/platform/apiclient"
	"qrMenu/internal/shared/auth"
	"qrMenu/internal/shared/httputil"
)

var errorMapper = httputil.NewErrorMapper().
	WithMapping(usecase.ErrMissingSlug, http.StatusBadRequest, "missing slug").
	WithMapping(domain.ErrInvalidFilter, http.StatusBadRequest, "").
	WithMapping(qrcodes.ErrInvalidSize, http.StatusBadRequest, "").
	WithMapping(qrcodes.ErrInvalidLevel, http.StatusBadRequest, "").
	WithMapping(qrcodes.ErrEmptyContent, http.StatusBadRequest, "").
	WithMapping(auth.ErrMissingToken, http.StatusUnauthorized, "missing token").
	WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "invalid token").
	WithMapping(usecase.ErrMissingRestaurant, http.StatusBadGateway, "menu has no restaurant").
	WithMapping(apiclient.ErrTimeout, http.StatusGatewayTimeout, "").
	WithMapping(apiclient.ErrTransport, http.StatusBadGateway, "").
	WithMapping(apiclient.ErrDecode, http.StatusBadGateway, "")

func httpError(err error) *echo.HTTPError {
	info := errorMapper.Map(err)
	return echo.NewHTTPError(info.Status, info.Message)
}
