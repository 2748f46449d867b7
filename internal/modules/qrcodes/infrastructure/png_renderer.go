package infrastructure

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"qrMenu/internal/modules/qrcodes/domain"
	"qrMenu/internal/shared/format"
)

var levels = map[domain.Level]qrcode.RecoveryLevel{
	domain.LevelLow:      qrcode.Low,
	domain.LevelMedium:   qrcode.Medium,
	domain.LevelQuartile: qrcode.High,
	domain.LevelHigh:     qrcode.Highest,
}

// PNGRenderer draws QR codes locally. The server-side QR endpoints stay authoritative for
// codes printed on tables; this is used for previews.
type PNGRenderer struct {
	publicBaseURL string
	logger        *zap.Logger
}

func NewPNGRenderer(publicBaseURL string, logger *zap.Logger) *PNGRenderer {
	if logger == nil {
		logger = zap.L()
	}
	return &PNGRenderer{publicBaseURL: strings.TrimRight(publicBaseURL, "/"), logger: logger.Named("qrcodes")}
}

// Render encodes content as a PNG.
func (r *PNGRenderer) Render(content string, opts domain.Options) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(content, levels[opts.Level], opts.Size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	r.logger.Debug("qr rendered", zap.Int("size", opts.Size), zap.String("level", string(opts.Level)), zap.Int("bytes", len(png)))
	return png, nil
}

// MenuURL is the public menu link encoded for a restaurant, optionally for one table.
func (r *PNGRenderer) MenuURL(slug, table string) string {
	return format.MenuURL(r.publicBaseURL, slug, table)
}

// RenderMenu encodes the public menu link of slug.
func (r *PNGRenderer) RenderMenu(slug, table string, opts domain.Options) ([]byte, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, domain.ErrEmptyContent
	}
	return r.Render(r.MenuURL(slug, table), opts)
}
