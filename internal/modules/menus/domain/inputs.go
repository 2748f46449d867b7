package domain

import (
	"fmt"
	"strings"

	"qrMenu/internal/shared/ids"
)

const (
	MaxCategoriesPerMenu = 20
	MaxItemsPerCategory  = 50
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxFileUploads       = 10
)

// CreateMenuInput is the owner's input for a new menu.
type CreateMenuInput struct {
	RestaurantID string    `json:"restaurantId"`
	Name         string    `json:"name"`
	Schedule     *Schedule `json:"schedule,omitempty"`
}

func (in CreateMenuInput) Validate() error {
	if strings.TrimSpace(in.RestaurantID) == "" {
		return fmt.Errorf("restaurant id is required")
	}
	return validateName("menu", in.Name)
}

// CreateMenuPayload is the body of POST /menu.
type CreateMenuPayload struct {
	RestaurantID string     `json:"restaurantId"`
	Name         string     `json:"name"`
	Schedule     *Schedule  `json:"schedule,omitempty"`
	IsActive     bool       `json:"isActive"`
	Categories   []Category `json:"categories"`
	LastUpdated  string     `json:"lastUpdated"`
}

func NewCreateMenuPayload(in CreateMenuInput, lastUpdated string) CreateMenuPayload {
	return CreateMenuPayload{
		RestaurantID: in.RestaurantID,
		Name:         in.Name,
		Schedule:     in.Schedule,
		IsActive:     true,
		Categories:   []Category{},
		LastUpdated:  lastUpdated,
	}
}

// UpdateMenuInput is a partial menu update. LastUpdated is stamped by the service.
type UpdateMenuInput struct {
	Name        *string     `json:"name,omitempty"`
	IsActive    *bool       `json:"isActive,omitempty"`
	Schedule    *Schedule   `json:"schedule,omitempty"`
	Categories  *[]Category `json:"categories,omitempty"`
	LastUpdated string      `json:"lastUpdated,omitempty"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (in CategoryInput) Validate() error {
	if err := validateName("category", in.Name); err != nil {
		return err
	}
	return validateDescription(in.Description)
}

// NewCategoryPayload is the body of POST /menu/:id/categories. The id is temporary.
type NewCategoryPayload struct {
	ID          ids.TempID `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order"`
	IsActive    bool       `json:"isActive"`
	Items       []MenuItem `json:"items"`
}

func NewCategory(in CategoryInput, tempID ids.TempID, order int) NewCategoryPayload {
	return NewCategoryPayload{
		ID:          tempID,
		Name:        in.Name,
		Description: in.Description,
		Order:       order,
		IsActive:    true,
		Items:       []MenuItem{},
	}
}

type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// ItemInput is the owner's input for a new menu item.
type ItemInput struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           float64        `json:"price"`
	OriginalPrice   *float64       `json:"originalPrice,omitempty"`
	Image           string         `json:"image,omitempty"`
	DietaryTags     []DietaryTag   `json:"dietaryTags"`
	Allergens       []string       `json:"allergens"`
	NutritionInfo   *NutritionInfo `json:"nutritionInfo,omitempty"`
	IsAvailable     bool           `json:"isAvailable"`
	IsPopular       bool           `json:"isPopular"`
	PreparationTime *int           `json:"preparationTime,omitempty"`
	SpicyLevel      *SpicyLevel    `json:"spicyLevel,omitempty"`
	Customizations  []string       `json:"customizations,omitempty"`
}

func (in ItemInput) Validate() error {
	if err := validateName("item", in.Name); err != nil {
		return err
	}
	if err := validateDescription(in.Description); err != nil {
		return err
	}
	if in.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	for _, tag := range in.DietaryTags {
		if !tag.Valid() {
			return fmt.Errorf("unknown dietary tag %q", tag)
		}
	}
	if in.SpicyLevel != nil && !in.SpicyLevel.Valid() {
		return fmt.Errorf("spicy level must be between 1 and 3")
	}
	return nil
}

// NewItemPayload is the body of POST /menu/:id/items.
type NewItemPayload struct {
	ItemInput
	ID         ids.TempID `json:"_id"`
	Order      int        `json:"order"`
	CategoryID string     `json:"categoryId"`
}

func NewItem(in ItemInput, categoryID string, tempID ids.TempID, order int) NewItemPayload {
	if in.DietaryTags == nil {
		in.DietaryTags = []DietaryTag{}
	}
	if in.Allergens == nil {
		in.Allergens = []string{}
	}
	return NewItemPayload{ItemInput: in, ID: tempID, Order: order, CategoryID: categoryID}
}

type ItemPatch struct {
	Name            *string        `json:"name,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Price           *float64       `json:"price,omitempty"`
	OriginalPrice   *float64       `json:"originalPrice,omitempty"`
	Image           *string        `json:"image,omitempty"`
	DietaryTags     *[]DietaryTag  `json:"dietaryTags,omitempty"`
	Allergens       *[]string      `json:"allergens,omitempty"`
	NutritionInfo   *NutritionInfo `json:"nutritionInfo,omitempty"`
	IsAvailable     *bool          `json:"isAvailable,omitempty"`
	IsPopular       *bool          `json:"isPopular,omitempty"`
	PreparationTime *int           `json:"preparationTime,omitempty"`
	SpicyLevel      *SpicyLevel    `json:"spicyLevel,omitempty"`
}

func validateName(kind, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%s name is required", kind)
	}
	if len([]rune(trimmed)) > MaxNameLength {
		return fmt.Errorf("%s name must be at most %d characters", kind, MaxNameLength)
	}
	return nil
}

func validateDescription(description string) error {
	if len([]rune(description)) > MaxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)
	}
	return nil
}
