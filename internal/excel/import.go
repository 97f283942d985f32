package excel

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/campusops/stocktrack/internal/domain/stock"
	"github.com/campusops/stocktrack/internal/domain/users"
)

// Store is the slice of the stock repo the importer needs.
type Store interface {
	Create(ctx context.Context, s *stock.Stock) error
	AssetTagExists(ctx context.Context, tag string) (bool, error)
}

// UserDirectory resolves assigned-to usernames. A nil user is not an error;
// the row imports unassigned with a warning.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*users.User, error)
}

type Importer struct {
	Stocks Store
	Users  UserDirectory
}

// Result reports an import run. Rows that resolved stay imported even when
// later rows fail; only file-level read errors abort the whole import.
type Result struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

const maxSampleErrors = 5

// SampleErrors returns at most the first five per-row errors for display.
func (r *Result) SampleErrors() []string {
	if len(r.Errors) > maxSampleErrors {
		return r.Errors[:maxSampleErrors]
	}
	return r.Errors
}

// Import reads a stock spreadsheet into the given campus. Column names are
// normalized (trimmed, lower-cased, spaces to underscores) before mapping;
// unparseable numeric cells default to zero.
func (im *Importer) Import(ctx context.Context, r io.Reader, campusID int64, actor string) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[normalizeHeader(h)] = i
	}
	if _, ok := cols["item_name"]; !ok {
		return nil, fmt.Errorf("sheet %q has no item_name column", sheet)
	}

	res := &Result{}
	seenTags := map[string]bool{}

	for i := 1; i < len(rows); i++ {
		rowNum := i + 1 // 1-indexed, header on row 1
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(rows[i]) {
				return ""
			}
			return strings.TrimSpace(rows[i][idx])
		}

		itemName := cell("item_name")
		if itemName == "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: missing item_name, skipped.", rowNum))
			continue
		}

		s := &stock.Stock{
			ItemName:     itemName,
			Category:     cell("category"),
			Quantity:     parseInt(cell("quantity")),
			Unit:         cell("unit"),
			UnitPrice:    parseFloat(cell("unit_price")),
			Condition:    stock.Condition(cell("condition")),
			Status:       stock.Status(cell("status")),
			AssetTag:     cell("asset_tag"),
			SerialNumber: cell("serial_number"),
			Manufacturer: cell("manufacturer"),
			Model:        cell("model"),
			Department:   cell("department"),
			PurchaseDate: parseDate(cell("purchase_date")),
			Remarks:      cell("remarks"),
			AddedBy:      actor,
			CampusID:     campusID,
		}
		if s.Unit == "" {
			s.Unit = "pcs"
		}
		if s.Condition == "" {
			s.Condition = stock.CondGood
		}

		if s.AssetTag != "" {
			if seenTags[s.AssetTag] {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("Row %d: duplicate asset_tag %q, skipped.", rowNum, s.AssetTag))
				continue
			}
			exists, err := im.Stocks.AssetTagExists(ctx, s.AssetTag)
			if err != nil {
				return nil, err
			}
			if exists {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("Row %d: asset_tag %q already exists, skipped.", rowNum, s.AssetTag))
				continue
			}
		}

		if username := cell("assigned_to"); username != "" {
			u, err := im.Users.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if u == nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("Row %d: user %q not found, imported unassigned.", rowNum, username))
			} else {
				s.AssignedTo = &u.ID
			}
		}

		if err := im.Stocks.Create(ctx, s); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		if s.AssetTag != "" {
			seenTags[s.AssetTag] = true
		}
		res.Imported++
	}

	return res, nil
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func parseInt(v string) int {
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if fv, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64); err == nil {
		return int(fv)
	}
	return 0
}

func parseFloat(v string) float64 {
	if v == "" {
		return 0
	}
	fv, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return 0
	}
	return fv
}

func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, "01-02-06", "2006/01/02", "02.01.2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
