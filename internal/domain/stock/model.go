package stock

import (
	"strconv"
	"time"
)

type Condition string

const (
	CondGood        Condition = "Good"
	CondDamaged     Condition = "Damaged"
	CondNeedsRepair Condition = "Needs Repair"
)

type Status string

const (
	StatusActive      Status = "Active"
	StatusInStorage   Status = "In Storage"
	StatusUnderRepair Status = "Under Repair"
	StatusRetired     Status = "Retired"
	StatusLostStolen  Status = "Lost/Stolen"
	StatusDisposed    Status = "Disposed"
)

const DefaultLowStockThreshold = 10

type Stock struct {
	ID                int64      `json:"id"`
	ItemName          string     `json:"item_name"`
	Category          string     `json:"category,omitempty"`
	Quantity          int        `json:"quantity"`
	Unit              string     `json:"unit"`
	UnitPrice         float64    `json:"unit_price"`
	TotalValue        float64    `json:"total_value"`
	Condition         Condition  `json:"condition"`
	Status            Status     `json:"status"`
	LowStockThreshold int        `json:"low_stock_threshold"`
	AssetTag          string     `json:"asset_tag,omitempty"`
	SerialNumber      string     `json:"serial_number,omitempty"`
	Manufacturer      string     `json:"manufacturer,omitempty"`
	Model             string     `json:"model,omitempty"`
	Department        string     `json:"department,omitempty"`
	PurchaseDate      *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiry    *time.Time `json:"warranty_expiry,omitempty"`
	AssignedTo        *int64     `json:"assigned_to,omitempty"`
	Remarks           string     `json:"remarks,omitempty"`
	AddedBy           string     `json:"added_by,omitempty"`
	CampusID          int64      `json:"campus_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// CampusName is filled by joins for display; not a stored column.
	CampusName string `json:"campus_name,omitempty"`
}

// Recompute refreshes the derived total_value. The stored column is never
// trusted on its own; every mutation path calls this before writing.
func (s *Stock) Recompute() {
	s.TotalValue = float64(s.Quantity) * s.UnitPrice
}

// IsLowStock reports whether quantity is at or below the threshold
// (boundary inclusive).
func (s *Stock) IsLowStock() bool {
	return s.Quantity <= s.LowStockThreshold
}

type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Changes diffs the audit-tracked fields of s against a prior snapshot.
func (s *Stock) Changes(prev *Stock) []FieldChange {
	var out []FieldChange
	add := func(field, old, now string) {
		if old != now {
			out = append(out, FieldChange{Field: field, Old: old, New: now})
		}
	}
	add("item_name", prev.ItemName, s.ItemName)
	add("category", prev.Category, s.Category)
	add("quantity", strconv.Itoa(prev.Quantity), strconv.Itoa(s.Quantity))
	add("unit_price", formatPrice(prev.UnitPrice), formatPrice(s.UnitPrice))
	add("condition", string(prev.Condition), string(s.Condition))
	add("campus", strconv.FormatInt(prev.CampusID, 10), strconv.FormatInt(s.CampusID, 10))
	return out
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
