package domain

// BulkImportRow is one row of a bulk item import, as sent to the server.
type BulkImportRow struct {
	CategoryName    string  `json:"categoryName"`
	ItemName        string  `json:"itemName"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DietaryTags     string  `json:"dietaryTags,omitempty"`
	Allergens       string  `json:"allergens,omitempty"`
	IsAvailable     *bool   `json:"isAvailable,omitempty"`
	IsPopular       *bool   `json:"isPopular,omitempty"`
	PreparationTime *int    `json:"preparationTime,omitempty"`
}

// ImportResult is the server's verdict on a bulk import.
type ImportResult struct {
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Errors     []ImportError `json:"errors"`
}

type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
