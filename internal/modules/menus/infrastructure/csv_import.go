package infrastructure

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"qrMenu/internal/modules/menus/domain"
	"qrMenu/internal/shared/format"
	"qrMenu/internal/shared/normalization"
)

var ErrMissingColumns = errors.New("csv is missing required columns")

var requiredColumns = []string{"categoryName", "itemName", "price"}

// ParseImportCSV reads a bulk import sheet laid out like domain.CSVTemplateHeaders. Columns
// are matched by header name in any casing and order. Rows that cannot be parsed are reported
// with their line number (the header is line 1) and left out of the result.
func ParseImportCSV(r io.Reader) ([]domain.BulkImportRow, []domain.ImportError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := indexColumns(header)
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []domain.BulkImportRow
	var rowErrors []domain.ImportError
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return rows, rowErrors, fmt.Errorf("read csv: %w", err)
			}
			rowErrors = append(rowErrors, domain.ImportError{Row: parseErr.StartLine, Message: parseErr.Err.Error()})
			continue
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		row, err := parseRow(columns, record)
		if err != nil {
			rowErrors = append(rowErrors, domain.ImportError{Row: line, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func parseRow(columns map[string]int, record []string) (domain.BulkImportRow, error) {
	cell := func(name string) string {
		idx, ok := columns[strings.ToLower(name)]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := domain.BulkImportRow{
		CategoryName: cell("categoryName"),
		ItemName:     cell("itemName"),
		Description:  cell("description"),
		Allergens:    strings.Join(normalization.SplitList(cell("allergens"), ",;"), ","),
	}
	if row.CategoryName == "" {
		return row, errors.New("categoryName is required")
	}
	if row.ItemName == "" {
		return row, errors.New("itemName is required")
	}
	if len([]rune(row.ItemName)) > domain.MaxNameLength {
		return row, fmt.Errorf("itemName must be at most %d characters", domain.MaxNameLength)
	}

	rawPrice := cell("price")
	if rawPrice == "" {
		return row, errors.New("price is required")
	}
	row.Price = format.ParsePrice(rawPrice)
	if row.Price == 0 && strings.Trim(rawPrice, "0.$ ") != "" {
		return row, fmt.Errorf("invalid price %q", rawPrice)
	}

	var tags []string
	for _, raw := range normalization.SplitList(cell("dietaryTags"), ",;") {
		tag, ok := domain.ParseDietaryTag(raw)
		if !ok {
			return row, fmt.Errorf("unknown dietary tag %q", raw)
		}
		tags = append(tags, string(tag))
	}
	row.DietaryTags = strings.Join(tags, ",")

	if raw := cell("isAvailable"); raw != "" {
		v := normalization.AsBool(raw, true)
		row.IsAvailable = &v
	}
	if raw := cell("isPopular"); raw != "" {
		v := normalization.AsBool(raw, false)
		row.IsPopular = &v
	}
	if raw := cell("preparationTime"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			return row, fmt.Errorf("invalid preparationTime %q", raw)
		}
		row.PreparationTime = &minutes
	}
	return row, nil
}

func indexColumns(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := out[key]; !seen && key != "" {
			out[key] = i
		}
	}
	return out
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// TemplateCSV renders the import template with its sample rows.
func TemplateCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(domain.CSVTemplateHeaders); err != nil {
		return err
	}
	if err := writer.WriteAll(domain.CSVTemplateSample); err != nil {
		return err
	}
	return writer.Error()
}
