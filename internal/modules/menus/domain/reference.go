package domain

import "strings"

type DietaryTag string

const (
	DietaryVegan      DietaryTag = "vegan"
	DietaryVegetarian DietaryTag = "vegetarian"
	DietaryGlutenFree DietaryTag = "gluten-free"
	DietaryDairyFree  DietaryTag = "dairy-free"
	DietaryNutFree    DietaryTag = "nut-free"
	DietarySpicy      DietaryTag = "spicy"
)

var dietaryLabels = map[DietaryTag]string{
	DietaryVegan:      "Vegan",
	DietaryVegetarian: "Vegetarian",
	DietaryGlutenFree: "Gluten Free",
	DietaryDairyFree:  "Dairy Free",
	DietaryNutFree:    "Nut Free",
	DietarySpicy:      "Spicy",
}

// DietaryTags lists the supported tags in display order.
var DietaryTags = []DietaryTag{
	DietaryVegan, DietaryVegetarian, DietaryGlutenFree, DietaryDairyFree, DietaryNutFree, DietarySpicy,
}

func (t DietaryTag) Valid() bool {
	_, ok := dietaryLabels[t]
	return ok
}

func (t DietaryTag) Label() string {
	return dietaryLabels[t]
}

// ParseDietaryTag accepts labels or values in any casing ("Gluten Free", "gluten_free").
func ParseDietaryTag(raw string) (DietaryTag, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "-", "_", "-").Replace(normalized)
	tag := DietaryTag(normalized)
	return tag, tag.Valid()
}

// SpicyLevel runs from 1 (mild) to 3 (hot).
type SpicyLevel int

const (
	SpicyMild   SpicyLevel = 1
	SpicyMedium SpicyLevel = 2
	SpicyHot    SpicyLevel = 3
)

func (l SpicyLevel) Valid() bool { return l >= SpicyMild && l <= SpicyHot }

func (l SpicyLevel) Label() string {
	switch l {
	case SpicyMild:
		return "Mild"
	case SpicyMedium:
		return "Medium"
	case SpicyHot:
		return "Hot"
	default:
		return ""
	}
}

var CommonAllergens = []string{
	"Milk", "Eggs", "Fish", "Shellfish", "Tree nuts", "Peanuts", "Wheat", "Soybeans",
	"Sesame", "Mustard", "Celery", "Lupin", "Molluscs", "Sulphites",
}

// CSVTemplateHeaders is the column layout of the bulk import template.
var CSVTemplateHeaders = []string{
	"categoryName", "itemName", "description", "price", "dietaryTags",
	"allergens", "isAvailable", "isPopular", "preparationTime",
}

// CSVTemplateSample holds example rows shipped with the template.
var CSVTemplateSample = [][]string{
	{"Appetizers", "Caesar Salad", "Fresh romaine lettuce with parmesan cheese and croutons", "12.99", "vegetarian", "milk,wheat", "true", "false", "10"},
	{"Main Course", "Grilled Salmon", "Atlantic salmon with seasonal vegetables", "24.99", "gluten-free", "fish", "true", "true", "25"},
}
