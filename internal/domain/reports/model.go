package reports

// CampusSummary is one dashboard row: a campus with its stock rolled up.
type CampusSummary struct {
	CampusID      int64   `json:"campus_id"`
	CampusName    string  `json:"campus_name"`
	CampusCode    string  `json:"campus_code"`
	ItemCount     int     `json:"item_count"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int     `json:"low_stock_count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

type ConditionCount struct {
	Condition string `json:"condition"`
	Count     int    `json:"count"`
}

// AttentionItem is a stock row surfaced on the dashboard because its quantity
// sits closest to (or below) its threshold.
type AttentionItem struct {
	StockID           int64  `json:"stock_id"`
	ItemName          string `json:"item_name"`
	CampusName        string `json:"campus_name"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	IsLowStock        bool   `json:"is_low_stock"`
}

type Totals struct {
	Items    int     `json:"items"`
	Value    float64 `json:"value"`
	LowStock int     `json:"low_stock"`
}
