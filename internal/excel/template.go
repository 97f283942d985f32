package excel

import "github.com/xuri/excelize/v2"

// TemplateColumns is the header row of the upload template; import matches
// these names after normalization.
var TemplateColumns = []any{
	"item_name", "category", "quantity", "unit", "unit_price", "condition",
	"asset_tag", "serial_number", "manufacturer", "model", "department",
	"assigned_to", "remarks",
}

// BuildTemplate renders a blank upload template with one sample row.
func BuildTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	const name = "Stock Template"

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), name); err != nil {
		_ = f.Close()
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(name, "A1", &TemplateColumns); err != nil {
		_ = f.Close()
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(TemplateColumns))
	if err := f.SetCellStyle(name, "A1", lastCol+"1", styles.header); err != nil {
		_ = f.Close()
		return nil, err
	}

	sample := []any{
		"Laptop", "Electronics", 10, "pcs", 45000, "Good",
		"IT-2024-0001", "SN-4411", "Dell", "Latitude 5440", "ICT", "", "Dell Latitude",
	}
	if err := f.SetSheetRow(name, "A2", &sample); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetColWidth(name, "A", lastCol, 16); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}
