package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/campusops/stocktrack/internal/domain/stock"
	"github.com/campusops/stocktrack/internal/domain/users"
)

// Sheet is one campus worth of stock to export.
type Sheet struct {
	CampusName string
	CampusCode string
	Items      []stock.Stock
}

var stockHeaders = []any{
	"S.No", "Item Name", "Category", "Quantity", "Unit",
	"Unit Price", "Total Value", "Condition", "Status", "Asset Tag", "Remarks",
}

const (
	titleRow  = 1
	headerRow = 3
	moneyFmt  = "#,##0.00"
)

// BuildWorkbook renders one sheet per campus: merged title row, styled header
// row, data rows ordered as supplied, and a grand-total row. Sheet names come
// from the campus code, cut to the format's 31-character limit.
func BuildWorkbook(sheets []Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	styles, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, sh := range sheets {
		name := sheetName(sh.CampusCode)
		if i == 0 {
			// Reuse the default sheet instead of leaving it empty.
			if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), name); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := writeStockSheet(f, name, sh, styles); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}

type styleSet struct {
	title  int
	header int
	money  int
	total  int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "1F4E79"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}

	numFmt := moneyFmt
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return s, err
	}

	if s.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 12},
		CustomNumFmt: &numFmt,
	}); err != nil {
		return s, err
	}

	return s, nil
}

func writeStockSheet(f *excelize.File, name string, sh Sheet, styles styleSet) error {
	lastCol, _ := excelize.ColumnNumberToName(len(stockHeaders))

	title := fmt.Sprintf("Stock Report - %s (%s)", sh.CampusName, sh.CampusCode)
	if err := f.MergeCell(name, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellValue(name, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", lastCol+"1", styles.title); err != nil {
		return err
	}

	headerCell, _ := excelize.CoordinatesToCellName(1, headerRow)
	if err := f.SetSheetRow(name, headerCell, &stockHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, headerCell, fmt.Sprintf("%s%d", lastCol, headerRow), styles.header); err != nil {
		return err
	}

	var grandTotal float64
	row := headerRow + 1
	for i, it := range sh.Items {
		total := float64(it.Quantity) * it.UnitPrice
		grandTotal += total

		data := []any{
			i + 1, it.ItemName, it.Category, it.Quantity, it.Unit,
			it.UnitPrice, total, string(it.Condition), string(it.Status), it.AssetTag, it.Remarks,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &data); err != nil {
			return err
		}
		if err := f.SetCellStyle(name, fmt.Sprintf("F%d", row), fmt.Sprintf("G%d", row), styles.money); err != nil {
			return err
		}
		row++
	}

	if err := f.SetCellValue(name, fmt.Sprintf("F%d", row), "Grand Total:"); err != nil {
		return err
	}
	if err := f.SetCellValue(name, fmt.Sprintf("G%d", row), grandTotal); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, fmt.Sprintf("F%d", row), fmt.Sprintf("G%d", row), styles.total); err != nil {
		return err
	}

	return f.SetColWidth(name, "B", lastCol, 18)
}

// BuildUsersWorkbook renders the admin users export.
func BuildUsersWorkbook(us []users.User) (*excelize.File, error) {
	f := excelize.NewFile()
	const name = "Users"

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), name); err != nil {
		_ = f.Close()
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	header := []any{"Username", "Role", "Department", "Email", "Created"}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(name, "A1", "E1", styles.header); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, u := range us {
		data := []any{u.Username, string(u.Role), u.Department, u.Email, u.CreatedAt.Format(time.DateOnly)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(name, cell, &data); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if err := f.SetColWidth(name, "A", "E", 22); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// sheetName cuts a campus code to the xlsx 31-character sheet name limit.
func sheetName(code string) string {
	if len(code) > 31 {
		return code[:31]
	}
	return code
}
