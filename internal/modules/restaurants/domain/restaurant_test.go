package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatePayloadDefaults(t *testing.T) {
	t.Parallel()

	payload := NewCreatePayload(CreateInput{Name: "Bob's Café #1", Settings: Settings{Currency: "EUR"}}, "bobs-caf-1")

	assert.Equal(t, "bobs-caf-1", payload.Slug)
	assert.True(t, payload.IsActive)
	assert.Equal(t, Branding{PrimaryColor: "#2563eb", SecondaryColor: "#64748b", Font: "Inter", Theme: ThemeModern}, payload.Branding)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"qrCodes":{"menuUrl":"","qrCodeUrl":""}`)
}

func TestCreateInputValidate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, CreateInput{Name: "  "}.Validate(), ErrMissingName)
	assert.ErrorIs(t, CreateInput{Name: strings.Repeat("a", 101)}.Validate(), ErrNameTooLong)
	assert.NoError(t, CreateInput{Name: "Bistro"}.Validate())
	assert.ErrorIs(t, CreateInput{Name: "Bistro", ContactInfo: ContactInfo{Phone: "call me"}}.Validate(), ErrInvalidPhone)
	assert.ErrorIs(t, CreateInput{Name: "Bistro", ContactInfo: ContactInfo{Website: "bistro.example"}}.Validate(), ErrInvalidWebsite)
	assert.NoError(t, CreateInput{Name: "Bistro", ContactInfo: ContactInfo{Phone: "+1 (555) 010-9999", Website: "https://bistro.example"}}.Validate())
}

func TestUpdateInputValidate(t *testing.T) {
	t.Parallel()

	blank := " "
	assert.NoError(t, UpdateInput{}.Validate())
	assert.ErrorIs(t, UpdateInput{Name: &blank}.Validate(), ErrMissingName)
	assert.ErrorIs(t, UpdateInput{ContactInfo: &ContactInfo{WhatsApp: "12ab"}}.Validate(), ErrInvalidPhone)
	assert.ErrorIs(t, UpdateInput{Branding: &Branding{PrimaryColor: "blue"}}.Validate(), ErrInvalidColor)
}

func TestUpdateInputOmitsUnsetFields(t *testing.T) {
	t.Parallel()

	name := "New name"
	raw, err := json.Marshal(UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"New name"}`, string(raw))
}

func TestThemes(t *testing.T) {
	t.Parallel()

	theme, ok := ParseTheme(" Classic ")
	require.True(t, ok)
	branding, ok := BrandingFromPreset(theme)
	require.True(t, ok)
	assert.Equal(t, "Merriweather", branding.Font)

	_, ok = ParseTheme("neon")
	assert.False(t, ok)
}

func TestBrandingValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultBranding().Validate())
	assert.NoError(t, Branding{}.Validate())
	assert.ErrorIs(t, Branding{PrimaryColor: "blue"}.Validate(), ErrInvalidColor)
	assert.ErrorIs(t, Branding{Theme: "neon"}.Validate(), ErrUnknownTheme)
}

func TestRestaurantCloneCopiesTableCodes(t *testing.T) {
	t.Parallel()

	r := Restaurant{ID: "r1", QRCodes: QRCodes{TableSpecific: []TableQRCode{{TableNumber: "4"}}}}
	clone := r.Clone()
	clone.QRCodes.TableSpecific[0].TableNumber = "5"
	assert.Equal(t, "4", r.QRCodes.TableSpecific[0].TableNumber)

	assert.Nil(t, Restaurant{ID: "r2"}.Clone().QRCodes.TableSpecific)
}
