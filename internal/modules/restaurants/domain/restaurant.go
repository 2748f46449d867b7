package domain

import (
	"errors"
	"strings"

	"qrMenu/internal/shared/format"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMissingName        = errors.New("restaurant name is required")
	ErrNameTooLong        = errors.New("restaurant name must be at most 100 characters")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidWebsite     = errors.New("website must be an absolute URL")
)

const MaxNameLength = 100

// Restaurant mirrors the backend document. Timestamps stay in the ISO form the server sends.
type Restaurant struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Logo        string      `json:"logo,omitempty"`
	Branding    Branding    `json:"branding"`
	ContactInfo ContactInfo `json:"contactInfo"`
	Settings    Settings    `json:"settings"`
	QRCodes     QRCodes     `json:"qrCodes"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   string      `json:"createdAt,omitempty"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
}

// Clone returns a copy that shares no slices with r.
func (r Restaurant) Clone() Restaurant {
	out := r
	if r.QRCodes.TableSpecific != nil {
		out.QRCodes.TableSpecific = append(make([]TableQRCode, 0, len(r.QRCodes.TableSpecific)), r.QRCodes.TableSpecific...)
	}
	return out
}

type Branding struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	Font           string `json:"font"`
	Theme          Theme  `json:"theme"`
}

type ContactInfo struct {
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Website  string `json:"website,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// Validate checks the fields that are set. Blank fields are fine.
func (c ContactInfo) Validate() error {
	for _, phone := range []string{c.Phone, c.WhatsApp} {
		if strings.TrimSpace(phone) != "" && !format.IsValidPhone(phone) {
			return ErrInvalidPhone
		}
	}
	if site := strings.TrimSpace(c.Website); site != "" && !format.IsValidURL(site) {
		return ErrInvalidWebsite
	}
	return nil
}

type Settings struct {
	Currency        string `json:"currency"`
	Language        string `json:"language"`
	Timezone        string `json:"timezone"`
	OrderingEnabled bool   `json:"orderingEnabled"`
}

type QRCodes struct {
	MenuURL       string        `json:"menuUrl"`
	QRCodeURL     string        `json:"qrCodeUrl"`
	TableSpecific []TableQRCode `json:"tableSpecific,omitempty"`
}

type TableQRCode struct {
	TableNumber string `json:"tableNumber"`
	QRCodeURL   string `json:"qrCodeUrl"`
}

// QRCodeResult is returned when a QR code is generated on the server.
type QRCodeResult struct {
	QRCodeURL string `json:"qrCodeUrl"`
}

// CreateInput is what an owner fills in to register a restaurant.
type CreateInput struct {
	Name        string      `json:"name"`
	ContactInfo ContactInfo `json:"contactInfo"`
	Settings    Settings    `json:"settings"`
}

func (in CreateInput) Validate() error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	return in.ContactInfo.Validate()
}

func validateName(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ErrMissingName
	}
	if len([]rune(name)) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// UpdateInput is a partial update; nil fields are left untouched by the server.
type UpdateInput struct {
	Name        *string      `json:"name,omitempty"`
	Logo        *string      `json:"logo,omitempty"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
	Settings    *Settings    `json:"settings,omitempty"`
	Branding    *Branding    `json:"branding,omitempty"`
	IsActive    *bool        `json:"isActive,omitempty"`
}

func (in UpdateInput) Validate() error {
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return err
		}
	}
	if in.ContactInfo != nil {
		if err := in.ContactInfo.Validate(); err != nil {
			return err
		}
	}
	if in.Branding != nil {
		return in.Branding.Validate()
	}
	return nil
}

// CreatePayload is the body sent to POST /restaurants.
type CreatePayload struct {
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	ContactInfo ContactInfo `json:"contactInfo"`
	Settings    Settings    `json:"settings"`
	Branding    Branding    `json:"branding"`
	QRCodes     QRCodes     `json:"qrCodes"`
	IsActive    bool        `json:"isActive"`
}

// NewCreatePayload fills in the slug candidate and the defaults every new restaurant starts with.
// Slug uniqueness is enforced by the server.
func NewCreatePayload(in CreateInput, slug string) CreatePayload {
	return CreatePayload{
		Name:        in.Name,
		Slug:        slug,
		ContactInfo: in.ContactInfo,
		Settings:    in.Settings,
		Branding:    DefaultBranding(),
		QRCodes:     QRCodes{},
		IsActive:    true,
	}
}
