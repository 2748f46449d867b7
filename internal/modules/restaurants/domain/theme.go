package domain

import (
	"errors"
	"strings"

	"qrMenu/internal/shared/format"
)

var (
	ErrInvalidColor = errors.New("branding colors must be hex values like #2563eb")
	ErrUnknownTheme = errors.New("unknown theme")
)

type Theme string

const (
	ThemeModern   Theme = "modern"
	ThemeClassic  Theme = "classic"
	ThemeMinimal  Theme = "minimal"
	ThemeColorful Theme = "colorful"
)

// ThemePreset is the full colour set behind a theme variant.
type ThemePreset struct {
	Name            string `json:"name"`
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	AccentColor     string `json:"accentColor"`
	BorderRadius    string `json:"borderRadius"`
	FontFamily      string `json:"fontFamily"`
}

var ThemePresets = map[Theme]ThemePreset{
	ThemeModern: {
		Name: "Modern", PrimaryColor: "#2563eb", SecondaryColor: "#64748b", BackgroundColor: "#ffffff",
		TextColor: "#1f2937", AccentColor: "#3b82f6", BorderRadius: "0.5rem", FontFamily: "Inter",
	},
	ThemeClassic: {
		Name: "Classic", PrimaryColor: "#1f2937", SecondaryColor: "#6b7280", BackgroundColor: "#f9fafb",
		TextColor: "#111827", AccentColor: "#059669", BorderRadius: "0.25rem", FontFamily: "Merriweather",
	},
	ThemeMinimal: {
		Name: "Minimal", PrimaryColor: "#000000", SecondaryColor: "#6b7280", BackgroundColor: "#ffffff",
		TextColor: "#1f2937", AccentColor: "#374151", BorderRadius: "0.125rem", FontFamily: "Lato",
	},
	ThemeColorful: {
		Name: "Colorful", PrimaryColor: "#7c3aed", SecondaryColor: "#ec4899", BackgroundColor: "#fef3c7",
		TextColor: "#1f2937", AccentColor: "#f59e0b", BorderRadius: "1rem", FontFamily: "Poppins",
	},
}

// ParseTheme accepts any casing; ok is false for unknown variants.
func ParseTheme(raw string) (Theme, bool) {
	theme := Theme(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := ThemePresets[theme]
	return theme, ok
}

// DefaultBranding is applied to every newly created restaurant.
func DefaultBranding() Branding {
	return Branding{
		PrimaryColor:   "#2563eb",
		SecondaryColor: "#64748b",
		Font:           "Inter",
		Theme:          ThemeModern,
	}
}

// BrandingFromPreset copies a preset's colours and font.
func BrandingFromPreset(theme Theme) (Branding, bool) {
	preset, ok := ThemePresets[theme]
	if !ok {
		return Branding{}, false
	}
	return Branding{
		PrimaryColor:   preset.PrimaryColor,
		SecondaryColor: preset.SecondaryColor,
		Font:           preset.FontFamily,
		Theme:          theme,
	}, true
}

// Fonts offered for branding.
var Fonts = []string{
	"Inter", "Poppins", "Roboto", "Open Sans", "Lato", "Montserrat",
	"Playfair Display", "Merriweather", "Lora", "Source Sans Pro",
}

// Languages maps the supported language codes to their native names.
var Languages = map[string]string{
	"en": "English", "es": "Español", "fr": "Français", "de": "Deutsch",
	"it": "Italiano", "pt": "Português", "ru": "Русский", "ja": "日本語",
	"ko": "한국어", "zh": "中文", "ar": "العربية", "hi": "हिन्दी",
}

var Timezones = []string{
	"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles",
	"America/Toronto", "America/Vancouver", "America/Mexico_City", "America/Sao_Paulo",
	"Europe/London", "Europe/Paris", "Europe/Berlin", "Europe/Rome", "Europe/Madrid",
	"Europe/Amsterdam", "Asia/Tokyo", "Asia/Shanghai", "Asia/Seoul", "Asia/Mumbai",
	"Asia/Dubai", "Australia/Sydney", "Australia/Melbourne", "Pacific/Auckland",
}

// Validate checks the colours and theme when they are set. Empty fields are left to the server.
func (b Branding) Validate() error {
	for _, color := range []string{b.PrimaryColor, b.SecondaryColor} {
		if color == "" {
			continue
		}
		if _, ok := format.HexToRGB(color); !ok {
			return ErrInvalidColor
		}
	}
	if b.Theme != "" {
		if _, ok := ThemePresets[b.Theme]; !ok {
			return ErrUnknownTheme
		}
	}
	return nil
}
