package domain

import (
	"maps"
	"slices"
	"time"
)

// ColumnType is the data type of a spreadsheet column.
type ColumnType string

const (
	ColumnText       ColumnType = "text"
	ColumnNumber     ColumnType = "number"
	ColumnDate       ColumnType = "date"
	ColumnTime       ColumnType = "time"
	ColumnCurrency   ColumnType = "currency"
	ColumnCheckbox   ColumnType = "checkbox"
	ColumnWeight     ColumnType = "weight"
	ColumnPercentage ColumnType = "percentage"
)

// DefaultColumnWidth is the pixel width given to columns created without one.
const DefaultColumnWidth = 150

// SheetColumn describes one spreadsheet column.
type SheetColumn struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     ColumnType `json:"type" validate:"oneof=text number date time currency checkbox weight percentage"`
	Required bool       `json:"required"`
	Width    int        `json:"width" validate:"gte=0"`
}

// SheetRow holds cell values keyed by column ID.
type SheetRow struct {
	ID    string         `json:"id"`
	Cells map[string]any `json:"cells"`
}

// Spreadsheet is a small typed table stored inline in a block.
type Spreadsheet struct {
	ItemBase
	Title        string        `json:"title"`
	Columns      []SheetColumn `json:"columns" validate:"dive"`
	Rows         []SheetRow    `json:"rows"`
	LastEditedAt time.Time     `json:"lastEditedAt"`
}

// Clone deep-copies the spreadsheet. Cell values are copied one level deep.
func (s *Spreadsheet) Clone() Item {
	out := *s
	out.Columns = slices.Clone(s.Columns)
	if s.Rows != nil {
		out.Rows = make([]SheetRow, len(s.Rows))
		for i, r := range s.Rows {
			out.Rows[i] = SheetRow{ID: r.ID, Cells: maps.Clone(r.Cells)}
		}
	}
	return &out
}
