package history

import "time"

type Action string

const (
	ActionCreated        Action = "created"
	ActionUpdated        Action = "updated"
	ActionDeleted        Action = "deleted"
	ActionTransferredOut Action = "transferred_out"
	ActionTransferredIn  Action = "transferred_in"
	ActionAssigned       Action = "assigned"
	ActionUnassigned     Action = "unassigned"
)

// Entry is one immutable audit record. StockID stays nullable because the
// stock row it points at may be deleted later.
type Entry struct {
	ID           int64     `json:"id"`
	StockID      *int64    `json:"stock_id,omitempty"`
	ItemName     string    `json:"item_name"`
	CampusName   string    `json:"campus_name"`
	Action       Action    `json:"action"`
	FieldChanged string    `json:"field_changed,omitempty"`
	OldValue     string    `json:"old_value,omitempty"`
	NewValue     string    `json:"new_value,omitempty"`
	ChangedBy    string    `json:"changed_by"`
	CreatedAt    time.Time `json:"created_at"`
}
