package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEntity(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Menu_Item":   "items",
		"restaurant":  "restaurants",
		" MENUS ":     "menus",
		"category":    "categories",
		"default":     "",
		"table-slots": "table-slots",
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeEntity(raw), raw)
	}
	assert.True(t, IsValidEntity("dish"))
	assert.False(t, IsValidEntity("invoice"))
}

func TestAsBool(t *testing.T) {
	t.Parallel()

	assert.True(t, AsBool("TRUE", false))
	assert.True(t, AsBool("yes", false))
	assert.False(t, AsBool("0", true))
	assert.True(t, AsBool("", true))
	assert.False(t, AsBool("maybe", false))
	assert.True(t, AsBool(true, false))
}

func TestAsString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3", AsString(3.0))
	assert.Equal(t, "12.5", AsString(12.5))
	assert.Equal(t, "m1", AsString(" m1 "))
	assert.Equal(t, "true", AsString(true))
	assert.Empty(t, AsString(map[string]any{"a": 1}))
	assert.Empty(t, AsString(nil))
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"milk", "wheat"}, SplitList(" milk, ,wheat ", ","))
	assert.Equal(t, []string{"vegan", "gluten-free"}, SplitList("vegan;gluten-free", ",;"))
	assert.Empty(t, SplitList("", ""))
}

func TestMapFromPayload(t *testing.T) {
	t.Parallel()

	inner := map[string]any{"restaurantId": "r1"}
	assert.Equal(t, inner, MapFromPayload(map[string]any{"data": inner}))
	assert.Equal(t, "r1", FirstString(MapFromPayload(inner), "restaurant", "restaurantId"))
	assert.Nil(t, MapFromPayload("nope"))
}
