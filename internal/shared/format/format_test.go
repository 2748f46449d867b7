package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount float64
		code   string
		want   string
	}{
		{12.5, "JPY", "¥13"},
		{12.5, "USD", "$12.50"},
		{1234567.4, "CNY", "¥1,234,567"},
		{3, "EUR", "€3.00"},
		{9.999, "GBP", "£10.00"},
		{5, "XYZ", "$5.00"},
		{7.1, "", "$7.10"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCurrency(tc.amount, tc.code), "%v %s", tc.amount, tc.code)
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12.99, ParsePrice("$12.99"))
	assert.Equal(t, 1.5, ParsePrice("1.5.3"))
	assert.Equal(t, 1000.0, ParsePrice("1,000"))
	assert.Equal(t, 0.0, ParsePrice("free"))
	assert.Equal(t, 0.0, ParsePrice("."))
}

func TestGenerateSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bobs-caf-1", GenerateSlug("Bob's Café #1"))
	assert.Equal(t, "the-green-fork", GenerateSlug("  The  Green__Fork -- "))
	assert.Equal(t, "", GenerateSlug("!!!"))
}

func TestCreateCSV(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		{"name": "Soup, hot", "price": "4.50"},
		{"name": `Say "cheese"`},
	}
	got := CreateCSV(rows, []string{"name", "price"})

	assert.Equal(t, "name,price\n\"Soup, hot\",4.50\nSay \"\"cheese\"\",", got)
}

func TestMoveItem(t *testing.T) {
	t.Parallel()

	in := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"b", "c", "a", "d"}, MoveItem(in, 0, 2))
	assert.Equal(t, []string{"d", "a", "b", "c"}, MoveItem(in, 3, 0))
	assert.Equal(t, []string{"a", "b", "c", "d"}, in)
}

func TestGroupBy(t *testing.T) {
	t.Parallel()

	groups := GroupBy([]int{1, 2, 3, 4, 5}, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, groups[true])
	assert.Equal(t, []int{1, 3, 5}, groups[false])
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2:05 PM", FormatTime("14:05"))
	assert.Equal(t, "12:00 AM", FormatTime("00:00"))
	assert.Equal(t, "12:30 PM", FormatTime("12:30"))
	assert.Equal(t, "noon", FormatTime("noon"))
}

func TestFormatRelativeTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", FormatRelativeTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "5 minutes ago", FormatRelativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3 hours ago", FormatRelativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2 days ago", FormatRelativeTime(now.Add(-48*time.Hour), now))
	assert.Equal(t, "February 1, 2024", FormatRelativeTime(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), now))
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 Bytes", FormatFileSize(0))
	assert.Equal(t, "512 Bytes", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "5 MB", FormatFileSize(5*1024*1024))
}

func TestPercentages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, CalculatePercentageChange(5, 0))
	assert.Equal(t, 0.0, CalculatePercentageChange(0, 0))
	assert.Equal(t, -50.0, CalculatePercentageChange(5, 10))
	assert.Equal(t, "12.3%", FormatPercentage(12.345, 1))
}

func TestColors(t *testing.T) {
	t.Parallel()

	rgb, ok := HexToRGB("#2563eb")
	assert.True(t, ok)
	assert.Equal(t, RGB{R: 0x25, G: 0x63, B: 0xeb}, rgb)
	assert.Equal(t, "#2563eb", RGBToHex(rgb))

	_, ok = HexToRGB("blue")
	assert.False(t, ok)

	assert.Equal(t, "#ffffff", ContrastColor("#1f2937"))
	assert.Equal(t, "#000000", ContrastColor("#fef3c7"))
	assert.Equal(t, "#000000", ContrastColor("nope"))
}

func TestValidators(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidEmail("owner@example.com"))
	assert.False(t, IsValidEmail("owner@example"))
	assert.True(t, IsValidPhone("+1 (555) 010-9999"))
	assert.False(t, IsValidPhone("0123"))
	assert.True(t, IsValidURL("https://example.com/menu"))
	assert.False(t, IsValidURL("example.com"))

	assert.NoError(t, ValidateImage("image/png", 1024))
	assert.ErrorIs(t, ValidateImage("image/gif", 1024), ErrImageType)
	assert.ErrorIs(t, ValidateImage("image/webp", MaxImageSize+1), ErrImageSize)
}

func TestMenuURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://localhost:8080/menu/bobs-caf-1", MenuURL("http://localhost:8080/", "bobs-caf-1", ""))
	assert.Equal(t, "https://qr.example/menu/demo?table=12", MenuURL("https://qr.example", "demo", "12"))
}
