package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func uploadRequest(t *testing.T, campusID string, rows [][]any) *http.Request {
	t.Helper()

	f := excelize.NewFile()
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
	wb, err := f.WriteToBuffer()
	_ = f.Close()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("campus_id", campusID); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := mw.CreateFormFile("file", "stock.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(wb.Bytes()); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/excel/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Actor", "bob")
	return req
}

func TestImportEndpoint(t *testing.T) {
	env := newTestEnv()
	env.campuses.add("Main Campus", "MAIN")
	h := env.server.Routes()

	req := uploadRequest(t, "1", [][]any{
		{"Item Name", "Quantity", "Unit Price"},
		{"Laptop", 3, 45000},
		{"", 1, 0}, // skipped, no item name
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != "warning" {
		t.Errorf("status = %q, want warning when rows had issues", res.Status)
	}
	if !strings.Contains(res.Message, "imported 1 items to Main Campus") {
		t.Errorf("message = %q", res.Message)
	}
	if len(env.stocks.byID) != 1 {
		t.Errorf("stored stocks = %d, want 1", len(env.stocks.byID))
	}
}

func TestImportEndpointUnknownCampus(t *testing.T) {
	h := newTestEnv().server.Routes()

	req := uploadRequest(t, "42", [][]any{{"item_name"}, {"Laptop"}})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	env := newTestEnv()
	env.campuses.add("Main Campus", "MAIN")
	h := env.server.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/excel/export?campus_id=1", nil)
	req.Header.Set("X-Actor", "bob")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "stock_MAIN.xlsx") {
		t.Errorf("disposition = %q", got)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("returned payload is not a workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	if names := f.GetSheetList(); len(names) != 1 || names[0] != "MAIN" {
		t.Errorf("sheets = %v", names)
	}
}

func TestExportEndpointNoCampuses(t *testing.T) {
	h := newTestEnv().server.Routes()

	res := asStaff(t, h, http.MethodGet, "/api/v1/excel/export", nil)
	if res.code != http.StatusOK || res.Status != "warning" || res.Message != "No campuses found." {
		t.Errorf("unexpected response: %+v", res)
	}
}

func TestTemplateEndpoint(t *testing.T) {
	h := newTestEnv().server.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/excel/template", nil)
	req.Header.Set("X-Actor", "bob")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "stock_upload_template.xlsx") {
		t.Errorf("disposition = %q", got)
	}
}

func TestPrintReportEndpoint(t *testing.T) {
	env := newTestEnv()
	env.campuses.add("Main Campus", "MAIN")
	h := env.server.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/print", nil)
	req.Header.Set("X-Actor", "bob")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("content type = %q", got)
	}
	if !strings.Contains(rec.Body.String(), "Main Campus (MAIN)") {
		t.Error("report body missing campus heading")
	}
}
