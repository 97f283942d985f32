package excel

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/campusops/stocktrack/internal/domain/stock"
	"github.com/campusops/stocktrack/internal/domain/users"
)

type fakeStore struct {
	created      []*stock.Stock
	existingTags map[string]bool
	createErr    error
}

func (f *fakeStore) Create(_ context.Context, s *stock.Stock) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeStore) AssetTagExists(_ context.Context, tag string) (bool, error) {
	return f.existingTags[tag], nil
}

type fakeDirectory struct {
	byName map[string]*users.User
}

func (f *fakeDirectory) GetByUsername(_ context.Context, username string) (*users.User, error) {
	return f.byName[username], nil
}

func workbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func newImporter() (*Importer, *fakeStore, *fakeDirectory) {
	store := &fakeStore{existingTags: map[string]bool{}}
	dir := &fakeDirectory{byName: map[string]*users.User{}}
	return &Importer{Stocks: store, Users: dir}, store, dir
}

func TestImportBasicRow(t *testing.T) {
	im, store, _ := newImporter()

	r := workbook(t, [][]any{
		{"Item Name", "Category", "Quantity", "Unit", "Unit Price", "Condition", "Remarks"},
		{"Laptop", "Electronics", 10, "pcs", 45000, "Good", "Dell Latitude"},
	})

	res, err := im.Import(context.Background(), r, 7, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	got := store.created[0]
	if got.ItemName != "Laptop" || got.Category != "Electronics" {
		t.Errorf("unexpected item: %+v", got)
	}
	if got.Quantity != 10 || got.UnitPrice != 45000 {
		t.Errorf("unexpected numbers: qty=%d price=%v", got.Quantity, got.UnitPrice)
	}
	if got.CampusID != 7 || got.AddedBy != "tester" {
		t.Errorf("unexpected ownership: campus=%d added_by=%q", got.CampusID, got.AddedBy)
	}
}

func TestImportHeaderNormalization(t *testing.T) {
	im, store, _ := newImporter()

	// Mixed case and spaces in the header row still map to fields.
	r := workbook(t, [][]any{
		{" ITEM NAME ", "Unit Price"},
		{"Mouse", "12.50"},
	})

	res, err := im.Import(context.Background(), r, 1, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if store.created[0].UnitPrice != 12.5 {
		t.Errorf("unit_price = %v, want 12.5", store.created[0].UnitPrice)
	}
}

func TestImportDefaults(t *testing.T) {
	im, store, _ := newImporter()

	r := workbook(t, [][]any{
		{"item_name", "quantity", "unit", "condition"},
		{"Cable", "", "", ""},
	})

	if _, err := im.Import(context.Background(), r, 1, "tester"); err != nil {
		t.Fatalf("Import: %v", err)
	}
	got := store.created[0]
	if got.Unit != "pcs" {
		t.Errorf("unit = %q, want pcs", got.Unit)
	}
	if got.Condition != stock.CondGood {
		t.Errorf("condition = %q, want Good", got.Condition)
	}
	if got.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", got.Quantity)
	}
}

func TestImportUnparseableQuantityBecomesZero(t *testing.T) {
	im, store, _ := newImporter()

	r := workbook(t, [][]any{
		{"item_name", "quantity", "unit_price"},
		{"Keyboard", "abc", "not-a-price"},
	})

	res, err := im.Import(context.Background(), r, 1, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 0 {
		t.Fatalf("row should import with zeroed numbers: %+v", res)
	}
	if store.created[0].Quantity != 0 || store.created[0].UnitPrice != 0 {
		t.Errorf("expected zeroed numerics, got %+v", store.created[0])
	}
}

func TestImportMissingItemNameSkips(t *testing.T) {
	im, store, _ := newImporter()

	r := workbook(t, [][]any{
		{"item_name", "quantity"},
		{"", 5},
		{"Monitor", 2},
	})

	res, err := im.Import(context.Background(), r, 1, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "Row 2") {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
	if len(store.created) != 1 || store.created[0].ItemName != "Monitor" {
		t.Errorf("wrong rows imported: %v", store.created)
	}
}

func TestImportDuplicateAssetTagInFile(t *testing.T) {
	im, store, _ := newImporter()

	r := workbook(t, [][]any{
		{"item_name", "asset_tag"},
		{"Laptop A", "IT-2024-0001"},
		{"Laptop B", "IT-2024-0001"},
	})

	res, err := im.Import(context.Background(), r, 1, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(store.created) != 1 || store.created[0].ItemName != "Laptop A" {
		t.Errorf("first occurrence should win: %v", store.created)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "IT-2024-0001") {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
}

func TestImportAssetTagAlreadyStored(t *testing.T) {
	im, store, _ := newImporter()
	store.existingTags["IT-2023-0042"] = true

	r := workbook(t, [][]any{
		{"item_name", "asset_tag"},
		{"Old Printer", "IT-2023-0042"},
	})

	res, err := im.Import(context.Background(), r, 1, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 0 || res.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestImportUnknownAssigneeWarns(t *testing.T) {
	im, store, dir := newImporter()
	dir.byName["bob"] = &users.User{ID: 12, Username: "bob"}

	r := workbook(t, [][]any{
		{"item_name", "assigned_to"},
		{"Laptop", "bob"},
		{"Tablet", "ghost"},
	})

	res, err := im.Import(context.Background(), r, 1, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 2 {
		t.Fatalf("both rows should import: %+v", res)
	}
	if store.created[0].AssignedTo == nil || *store.created[0].AssignedTo != 12 {
		t.Errorf("known assignee not resolved: %+v", store.created[0])
	}
	if store.created[1].AssignedTo != nil {
		t.Errorf("unknown assignee should import unassigned: %+v", store.created[1])
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "ghost") {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestImportSampleErrorsCapped(t *testing.T) {
	im, _, _ := newImporter()

	rows := [][]any{{"item_name", "quantity"}}
	for i := 0; i < 8; i++ {
		rows = append(rows, []any{"", i})
	}

	res, err := im.Import(context.Background(), workbook(t, rows), 1, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Errors) != 8 {
		t.Fatalf("expected 8 recorded errors, got %d", len(res.Errors))
	}
	if got := res.SampleErrors(); len(got) != 5 {
		t.Errorf("expected 5 sample errors, got %d", len(got))
	}
}

func TestImportRowFailureDoesNotAbort(t *testing.T) {
	store := &fakeStore{existingTags: map[string]bool{}}
	im := &Importer{Stocks: store, Users: &fakeDirectory{byName: map[string]*users.User{}}}

	// First row fails at the store, second succeeds.
	calls := 0
	failing := &callbackStore{
		inner: store,
		onCreate: func() error {
			calls++
			if calls == 1 {
				return fmt.Errorf("constraint violation")
			}
			return nil
		},
	}
	im.Stocks = failing

	r := workbook(t, [][]any{
		{"item_name"},
		{"Bad Row"},
		{"Good Row"},
	})

	res, err := im.Import(context.Background(), r, 1, "tester")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(store.created) != 1 || store.created[0].ItemName != "Good Row" {
		t.Errorf("successful row should be retained: %v", store.created)
	}
}

func TestImportRejectsEmptyWorkbook(t *testing.T) {
	im, _, _ := newImporter()

	r := workbook(t, [][]any{{"item_name"}})
	if _, err := im.Import(context.Background(), r, 1, "tester"); err == nil {
		t.Error("expected error for a workbook without data rows")
	}
}

func TestImportRejectsMissingItemNameColumn(t *testing.T) {
	im, _, _ := newImporter()

	r := workbook(t, [][]any{
		{"category", "quantity"},
		{"Electronics", 3},
	})
	if _, err := im.Import(context.Background(), r, 1, "tester"); err == nil {
		t.Error("expected error for a workbook without an item_name column")
	}
}

func TestImportRejectsGarbageFile(t *testing.T) {
	im, _, _ := newImporter()

	if _, err := im.Import(context.Background(), strings.NewReader("not an xlsx"), 1, "tester"); err == nil {
		t.Error("expected file-level error for a non-xlsx payload")
	}
}

type callbackStore struct {
	inner    *fakeStore
	onCreate func() error
}

func (c *callbackStore) Create(ctx context.Context, s *stock.Stock) error {
	if err := c.onCreate(); err != nil {
		return err
	}
	return c.inner.Create(ctx, s)
}

func (c *callbackStore) AssetTagExists(ctx context.Context, tag string) (bool, error) {
	return c.inner.AssetTagExists(ctx, tag)
}
