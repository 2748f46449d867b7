package infrastructure

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrMenu/internal/modules/menus/domain"
)

func TestParseImportCSVTemplateRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, TemplateCSV(&buf))

	rows, rowErrors, err := ParseImportCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 2)

	salad := rows[0]
	assert.Equal(t, "Appetizers", salad.CategoryName)
	assert.Equal(t, "Caesar Salad", salad.ItemName)
	assert.InDelta(t, 12.99, salad.Price, 0.0001)
	assert.Equal(t, "vegetarian", salad.DietaryTags)
	assert.Equal(t, "milk,wheat", salad.Allergens)
	require.NotNil(t, salad.IsAvailable)
	assert.True(t, *salad.IsAvailable)
	require.NotNil(t, salad.IsPopular)
	assert.False(t, *salad.IsPopular)
	require.NotNil(t, salad.PreparationTime)
	assert.Equal(t, 10, *salad.PreparationTime)
}

func TestParseImportCSVReportsRowNumbers(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"ItemName,CategoryName,Price,DietaryTags",
		"Soup,Starters,$4.50,Gluten Free",
		"",
		",Starters,3,",
		"Bread,Starters,free,",
		"Stew,Mains,11,carnivore",
		"Pie,Desserts,6,vegan;nut_free",
	}, "\n")

	rows, rowErrors, err := ParseImportCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, domain.BulkImportRow{CategoryName: "Starters", ItemName: "Soup", Price: 4.5, DietaryTags: "gluten-free"}, rows[0])
	assert.Equal(t, "vegan,nut-free", rows[1].DietaryTags)

	require.Len(t, rowErrors, 3)
	assert.Equal(t, 4, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Message, "itemName")
	assert.Equal(t, 5, rowErrors[1].Row)
	assert.Contains(t, rowErrors[1].Message, "price")
	assert.Equal(t, 6, rowErrors[2].Row)
	assert.Contains(t, rowErrors[2].Message, "carnivore")
}

func TestParseImportCSVRequiresColumns(t *testing.T) {
	t.Parallel()

	_, _, err := ParseImportCSV(strings.NewReader("itemName,description\nSoup,Hot\n"))
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "categoryName")
	assert.Contains(t, err.Error(), "price")

	_, _, err = ParseImportCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumns)
}
