package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	qrcodes "qrMenu/internal/modules/qrcodes/domain"
	"qrMenu/internal/modules/realtime/application/usecase"
)

const trackTimeout = 5 * time.Second

// NewMenuHTTPHandler exposes GET /menu/:slug. The view is recorded in the background once the
// menu has been served.
func NewMenuHTTPHandler(feed *usecase.MenuFeedUseCase, logger *zap.Logger) echo.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("http-menu")

	return func(c echo.Context) error {
		slug := normalizeSlug(c.Param("slug"))
		if slug == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "missing slug")
		}
		filter, err := filterFromQuery(c.QueryParams())
		if err != nil {
			return httpError(err)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), snapshotTimeout)
		defer cancel()

		view, err := feed.View(ctx, slug, filter)
		if err != nil {
			logger.Warn("public menu request failed", zap.String("slug", slug), zap.Error(err))
			return httpError(err)
		}

		viewer := usecase.Viewer{
			UserAgent: c.Request().UserAgent(),
			Table:     c.QueryParam("table"),
			Referrer:  c.Request().Referer(),
		}
		go func() {
			trackCtx, cancel := context.WithTimeout(context.Background(), trackTimeout)
			defer cancel()
			feed.TrackView(trackCtx, view, viewer)
		}()

		return c.JSON(http.StatusOK, view)
	}
}

// QRRenderer draws the QR code of a public menu link.
type QRRenderer interface {
	RenderMenu(slug, table string, opts qrcodes.Options) ([]byte, error)
}

// NewQRCodeHandler exposes GET /menu/:slug/qr.png?table=&size=&level=.
func NewQRCodeHandler(renderer QRRenderer, logger *zap.Logger) echo.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("http-qr")

	return func(c echo.Context) error {
		slug := normalizeSlug(c.Param("slug"))
		if slug == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "missing slug")
		}
		opts := qrcodes.Options{Level: qrcodes.Level(c.QueryParam("level"))}
		if raw := strings.TrimSpace(c.QueryParam("size")); raw != "" {
			size, err := strconv.Atoi(raw)
			if err != nil {
				return httpError(qrcodes.ErrInvalidSize)
			}
			opts.Size = size
		}

		png, err := renderer.RenderMenu(slug, strings.TrimSpace(c.QueryParam("table")), opts)
		if err != nil {
			logger.Warn("qr render failed", zap.String("slug", slug), zap.Error(err))
			return httpError(err)
		}
		c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300")
		return c.Blob(http.StatusOK, "image/png", png)
	}
}
