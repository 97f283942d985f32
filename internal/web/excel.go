package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/campusops/stocktrack/internal/domain/campuses"
	"github.com/campusops/stocktrack/internal/excel"
	"github.com/campusops/stocktrack/internal/infra/metrics"
	"github.com/campusops/stocktrack/internal/report"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// importExcel handles POST /excel/import: a multipart upload with a "file"
// part and a "campus_id" form value. Per-row failures are collected, not
// fatal; only a file-level read error aborts the import.
func (s *Server) importExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		respondDanger(w, http.StatusBadRequest, "Upload too large or malformed.")
		return
	}

	campusID, err := strconv.ParseInt(r.FormValue("campus_id"), 10, 64)
	if err != nil || campusID == 0 {
		respondDanger(w, http.StatusBadRequest, "A target campus_id is required.")
		return
	}
	c, err := s.campuses.GetByID(r.Context(), campusID)
	if err != nil {
		s.fail(w, r, "get campus", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Selected campus not found.")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondDanger(w, http.StatusBadRequest, "An Excel file is required.")
		return
	}
	defer func() { _ = file.Close() }()

	res, err := s.importer().Import(r.Context(), file, campusID, actorFrom(r.Context()).Username)
	if err != nil {
		respondDanger(w, http.StatusBadRequest, fmt.Sprintf("Error reading Excel file: %v", err))
		return
	}

	metrics.ImportRows.WithLabelValues("imported").Add(float64(res.Imported))
	metrics.ImportRows.WithLabelValues("skipped").Add(float64(res.Skipped))

	status := "success"
	msg := fmt.Sprintf("Successfully imported %d items to %s.", res.Imported, c.Name)
	if len(res.Errors) > 0 {
		status = "warning"
		msg = fmt.Sprintf("%s %d rows had issues.", msg, len(res.Errors))
	}
	respond(w, http.StatusOK, status, msg, map[string]any{
		"imported": res.Imported,
		"skipped":  res.Skipped,
		"errors":   res.SampleErrors(),
		"warnings": res.Warnings,
	})
}

// exportExcel serves the stock workbook: all campuses (one sheet each) or a
// single campus when campus_id is given.
func (s *Server) exportExcel(w http.ResponseWriter, r *http.Request) {
	var (
		list     []campuses.Campus
		filename string
	)

	if id := queryInt64(r, "campus_id"); id > 0 {
		c, err := s.campuses.GetByID(r.Context(), id)
		if err != nil {
			s.fail(w, r, "get campus", err)
			return
		}
		if c == nil {
			respondNotFound(w, "Campus not found.")
			return
		}
		list = []campuses.Campus{*c}
		filename = fmt.Sprintf("stock_%s.xlsx", c.Code)
	} else {
		all, err := s.campuses.List(r.Context())
		if err != nil {
			s.fail(w, r, "list campuses", err)
			return
		}
		if len(all) == 0 {
			respond(w, http.StatusOK, "warning", "No campuses found.", nil)
			return
		}
		list = all
		filename = "stock_all_campuses.xlsx"
	}

	sheets := make([]excel.Sheet, 0, len(list))
	for _, c := range list {
		items, err := s.stocks.ListByCampus(r.Context(), c.ID, "", "")
		if err != nil {
			s.fail(w, r, "list campus stocks", err)
			return
		}
		sheets = append(sheets, excel.Sheet{CampusName: c.Name, CampusCode: c.Code, Items: items})
	}

	f, err := excel.BuildWorkbook(sheets)
	if err != nil {
		s.fail(w, r, "build workbook", err)
		return
	}
	s.serveWorkbook(w, r, f, filename)
}

func (s *Server) exportTemplate(w http.ResponseWriter, r *http.Request) {
	f, err := excel.BuildTemplate()
	if err != nil {
		s.fail(w, r, "build template", err)
		return
	}
	s.serveWorkbook(w, r, f, "stock_upload_template.xlsx")
}

func (s *Server) exportUsers(w http.ResponseWriter, r *http.Request) {
	us, err := s.users.List(r.Context())
	if err != nil {
		s.fail(w, r, "list users", err)
		return
	}
	f, err := excel.BuildUsersWorkbook(us)
	if err != nil {
		s.fail(w, r, "build users workbook", err)
		return
	}
	s.serveWorkbook(w, r, f, "users.xlsx")
}

func (s *Server) serveWorkbook(w http.ResponseWriter, r *http.Request, f *excelize.File, filename string) {
	defer func() { _ = f.Close() }()
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		s.log.Error("write workbook failed", "err", err, "request_id", r.Header.Get("X-Request-ID"))
	}
}

// printReport serves the self-contained printable HTML report.
func (s *Server) printReport(w http.ResponseWriter, r *http.Request) {
	var list []campuses.Campus

	if id := queryInt64(r, "campus_id"); id > 0 {
		c, err := s.campuses.GetByID(r.Context(), id)
		if err != nil {
			s.fail(w, r, "get campus", err)
			return
		}
		if c == nil {
			respondNotFound(w, "Campus not found.")
			return
		}
		list = []campuses.Campus{*c}
	} else {
		all, err := s.campuses.List(r.Context())
		if err != nil {
			s.fail(w, r, "list campuses", err)
			return
		}
		list = all
	}

	data := report.Data{
		Title:       "Campus Stock Report",
		GeneratedAt: time.Now(),
	}
	for _, c := range list {
		items, err := s.stocks.ListByCampus(r.Context(), c.ID, "", "")
		if err != nil {
			s.fail(w, r, "list campus stocks", err)
			return
		}
		data.Campuses = append(data.Campuses, report.CampusSection{
			CampusName: c.Name,
			CampusCode: c.Code,
			Items:      items,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Render(w, data); err != nil {
		s.log.Error("render report failed", "err", err, "request_id", r.Header.Get("X-Request-ID"))
	}
}
