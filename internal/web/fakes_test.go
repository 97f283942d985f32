package web

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/campusops/stocktrack/internal/domain/campuses"
	"github.com/campusops/stocktrack/internal/domain/history"
	"github.com/campusops/stocktrack/internal/domain/reports"
	"github.com/campusops/stocktrack/internal/domain/stock"
	"github.com/campusops/stocktrack/internal/domain/transfers"
	"github.com/campusops/stocktrack/internal/domain/users"
)

type fakeCampuses struct {
	byID   map[int64]*campuses.Campus
	nextID int64
}

func newFakeCampuses() *fakeCampuses {
	return &fakeCampuses{byID: map[int64]*campuses.Campus{}}
}

func (f *fakeCampuses) add(name, code string) *campuses.Campus {
	f.nextID++
	c := &campuses.Campus{ID: f.nextID, Name: name, Code: code, CreatedAt: time.Now()}
	f.byID[c.ID] = c
	return c
}

func (f *fakeCampuses) Create(_ context.Context, name, code, address string) (*campuses.Campus, error) {
	code = strings.ToUpper(code)
	for _, c := range f.byID {
		if c.Code == code {
			return nil, campuses.ErrDuplicate
		}
	}
	c := f.add(name, code)
	c.Address = address
	return c, nil
}

func (f *fakeCampuses) GetByID(_ context.Context, id int64) (*campuses.Campus, error) {
	return f.byID[id], nil
}

func (f *fakeCampuses) Update(_ context.Context, id int64, name, code, address string) (*campuses.Campus, error) {
	c := f.byID[id]
	if c == nil {
		return nil, nil
	}
	code = strings.ToUpper(code)
	for _, other := range f.byID {
		if other.ID != id && other.Code == code {
			return nil, campuses.ErrDuplicate
		}
	}
	c.Name, c.Code, c.Address = name, code, address
	return c, nil
}

func (f *fakeCampuses) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeCampuses) List(_ context.Context) ([]campuses.Campus, error) {
	out := make([]campuses.Campus, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeUsers struct {
	byID   map[int64]*users.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*users.User{}}
}

func (f *fakeUsers) add(username string, role users.Role) *users.User {
	f.nextID++
	u := &users.User{ID: f.nextID, Username: username, Role: role, CreatedAt: time.Now()}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, u *users.User) error {
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return users.ErrDuplicateUsername
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*users.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(_ context.Context) ([]users.User, error) {
	out := make([]users.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

type fakeStocks struct {
	byID   map[int64]*stock.Stock
	nextID int64
}

func newFakeStocks() *fakeStocks {
	return &fakeStocks{byID: map[int64]*stock.Stock{}}
}

func (f *fakeStocks) Create(_ context.Context, s *stock.Stock) error {
	if s.AssetTag != "" {
		for _, other := range f.byID {
			if other.AssetTag == s.AssetTag {
				return stock.ErrDuplicateAssetTag
			}
		}
	}
	f.nextID++
	s.ID = f.nextID
	s.Recompute()
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeStocks) Update(_ context.Context, s *stock.Stock, _ string) error {
	if f.byID[s.ID] == nil {
		return stock.ErrNotFound
	}
	s.Recompute()
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeStocks) Delete(_ context.Context, id int64, _ string) error {
	if f.byID[id] == nil {
		return stock.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStocks) Assign(_ context.Context, stockID int64, userID *int64, _ string) error {
	s := f.byID[stockID]
	if s == nil {
		return stock.ErrNotFound
	}
	s.AssignedTo = userID
	return nil
}

func (f *fakeStocks) GetByID(_ context.Context, id int64) (*stock.Stock, error) {
	return f.byID[id], nil
}

func (f *fakeStocks) ListByCampus(_ context.Context, campusID int64, search, category string) ([]stock.Stock, error) {
	var out []stock.Stock
	for _, s := range f.byID {
		if s.CampusID != campusID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(s.ItemName), strings.ToLower(search)) {
			continue
		}
		if category != "" && s.Category != category {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStocks) Categories(_ context.Context, campusID int64) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range f.byID {
		if s.CampusID == campusID && s.Category != "" && !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStocks) ListAssignedTo(_ context.Context, userID int64) ([]stock.Stock, error) {
	var out []stock.Stock
	for _, s := range f.byID {
		if s.AssignedTo != nil && *s.AssignedTo == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStocks) AssetTagExists(_ context.Context, tag string) (bool, error) {
	for _, s := range f.byID {
		if s.AssetTag == tag {
			return true, nil
		}
	}
	return false, nil
}

type fakeHistory struct {
	entries []history.Entry
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]history.Entry, error) {
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeHistory) ListByStock(_ context.Context, stockID int64) ([]history.Entry, error) {
	var out []history.Entry
	for _, e := range f.entries {
		if e.StockID != nil && *e.StockID == stockID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeTransfers validates the request, then returns either the scripted error
// or a transfer record echoing the request.
type fakeTransfers struct {
	err  error
	list []transfers.StockTransfer
}

func (f *fakeTransfers) Transfer(_ context.Context, req transfers.Request) (*transfers.StockTransfer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	t := transfers.StockTransfer{
		ID:            1,
		StockID:       &req.StockID,
		ItemName:      "Laptop",
		Quantity:      req.Quantity,
		FromCampusID:  req.FromCampusID,
		ToCampusID:    req.ToCampusID,
		TransferredBy: req.Actor,
		Remarks:       req.Remarks,
		CreatedAt:     time.Now(),
	}
	f.list = append(f.list, t)
	return &t, nil
}

func (f *fakeTransfers) List(_ context.Context, stockID, campusID int64) ([]transfers.StockTransfer, error) {
	return f.list, nil
}

type fakeReports struct {
	summaries []reports.CampusSummary
	totals    reports.Totals
	attention []reports.AttentionItem
}

func (f *fakeReports) CampusSummaries(_ context.Context) ([]reports.CampusSummary, error) {
	return f.summaries, nil
}

func (f *fakeReports) GlobalTotals(_ context.Context) (reports.Totals, error) {
	return f.totals, nil
}

func (f *fakeReports) CategoryHistogram(_ context.Context) ([]reports.CategoryCount, error) {
	return []reports.CategoryCount{{Category: "Electronics", Quantity: 12}}, nil
}

func (f *fakeReports) ConditionHistogram(_ context.Context) ([]reports.ConditionCount, error) {
	return []reports.ConditionCount{{Condition: "Good", Count: 3}}, nil
}

func (f *fakeReports) AttentionList(_ context.Context, limit int) ([]reports.AttentionItem, error) {
	return f.attention, nil
}

type testEnv struct {
	server    *Server
	campuses  *fakeCampuses
	users     *fakeUsers
	stocks    *fakeStocks
	history   *fakeHistory
	transfers *fakeTransfers
	reports   *fakeReports
}

func newTestEnv() *testEnv {
	env := &testEnv{
		campuses:  newFakeCampuses(),
		users:     newFakeUsers(),
		stocks:    newFakeStocks(),
		history:   &fakeHistory{},
		transfers: &fakeTransfers{},
		reports:   &fakeReports{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.server = New(log, env.campuses, env.users, env.stocks, env.history, env.transfers, env.reports, 16<<20)
	return env
}
