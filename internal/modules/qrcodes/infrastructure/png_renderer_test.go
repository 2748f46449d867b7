package infrastructure

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qrMenu/internal/modules/qrcodes/domain"
)

func TestRenderMenuProducesPNGOfRequestedSize(t *testing.T) {
	t.Parallel()

	r := NewPNGRenderer("https://menu.example.com/", zap.NewNop())

	data, err := r.RenderMenu("bistro", "5", domain.Options{Size: 300, Level: domain.LevelHigh})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestRenderRejectsBadInput(t *testing.T) {
	t.Parallel()

	r := NewPNGRenderer("https://menu.example.com", zap.NewNop())

	_, err := r.Render("  ", domain.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
	_, err = r.Render("https://menu.example.com/menu/bistro", domain.Options{Size: 1000})
	assert.ErrorIs(t, err, domain.ErrInvalidSize)
	_, err = r.RenderMenu("", "", domain.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}
