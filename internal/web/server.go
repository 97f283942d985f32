package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusops/stocktrack/internal/domain/campuses"
	"github.com/campusops/stocktrack/internal/domain/history"
	"github.com/campusops/stocktrack/internal/domain/reports"
	"github.com/campusops/stocktrack/internal/domain/stock"
	"github.com/campusops/stocktrack/internal/domain/transfers"
	"github.com/campusops/stocktrack/internal/domain/users"
	"github.com/campusops/stocktrack/internal/excel"
)

type CampusStore interface {
	Create(ctx context.Context, name, code, address string) (*campuses.Campus, error)
	GetByID(ctx context.Context, id int64) (*campuses.Campus, error)
	Update(ctx context.Context, id int64, name, code, address string) (*campuses.Campus, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]campuses.Campus, error)
}

type UserStore interface {
	Create(ctx context.Context, u *users.User) error
	GetByID(ctx context.Context, id int64) (*users.User, error)
	GetByUsername(ctx context.Context, username string) (*users.User, error)
	List(ctx context.Context) ([]users.User, error)
	Delete(ctx context.Context, id int64) error
}

type StockStore interface {
	Create(ctx context.Context, s *stock.Stock) error
	Update(ctx context.Context, s *stock.Stock, actor string) error
	Delete(ctx context.Context, id int64, actor string) error
	Assign(ctx context.Context, stockID int64, userID *int64, actor string) error
	GetByID(ctx context.Context, id int64) (*stock.Stock, error)
	ListByCampus(ctx context.Context, campusID int64, search, category string) ([]stock.Stock, error)
	Categories(ctx context.Context, campusID int64) ([]string, error)
	AssetTagExists(ctx context.Context, tag string) (bool, error)
	ListAssignedTo(ctx context.Context, userID int64) ([]stock.Stock, error)
}

type HistoryStore interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	ListByStock(ctx context.Context, stockID int64) ([]history.Entry, error)
}

type TransferStore interface {
	Transfer(ctx context.Context, req transfers.Request) (*transfers.StockTransfer, error)
	List(ctx context.Context, stockID, campusID int64) ([]transfers.StockTransfer, error)
}

type ReportStore interface {
	CampusSummaries(ctx context.Context) ([]reports.CampusSummary, error)
	GlobalTotals(ctx context.Context) (reports.Totals, error)
	CategoryHistogram(ctx context.Context) ([]reports.CategoryCount, error)
	ConditionHistogram(ctx context.Context) ([]reports.ConditionCount, error)
	AttentionList(ctx context.Context, limit int) ([]reports.AttentionItem, error)
}

type Server struct {
	log       *slog.Logger
	campuses  CampusStore
	users     UserStore
	stocks    StockStore
	history   HistoryStore
	transfers TransferStore
	reports   ReportStore
	maxUpload int64
}

func New(log *slog.Logger, c CampusStore, u UserStore, s StockStore, h HistoryStore, t TransferStore, rep ReportStore, maxUpload int64) *Server {
	return &Server{
		log:       log,
		campuses:  c,
		users:     u,
		stocks:    s,
		history:   h,
		transfers: t,
		reports:   rep,
		maxUpload: maxUpload,
	}
}

func (s *Server) importer() *excel.Importer {
	return &excel.Importer{Stocks: s.stocks, Users: s.users}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(observe)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireActor)

		r.Route("/campuses", func(r chi.Router) {
			r.Get("/", s.listCampuses)
			r.With(requireAdmin).Post("/", s.createCampus)
			r.Get("/{id}", s.getCampus)
			r.With(requireAdmin).Put("/{id}", s.updateCampus)
			r.With(requireAdmin).Delete("/{id}", s.deleteCampus)
			r.Get("/{id}/stocks", s.campusStocks)
			r.Get("/{id}/categories", s.campusCategories)
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Post("/", s.createStock)
			r.Get("/{id}", s.getStock)
			r.Put("/{id}", s.updateStock)
			r.Delete("/{id}", s.deleteStock)
			r.Post("/{id}/assign", s.assignStock)
			r.Post("/{id}/unassign", s.unassignStock)
			r.Get("/{id}/history", s.stockHistory)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", s.createTransfer)
			r.Get("/", s.listTransfers)
		})

		r.Get("/dashboard", s.dashboard)
		r.Get("/reports/print", s.printReport)

		r.Route("/excel", func(r chi.Router) {
			r.Post("/import", s.importExcel)
			r.Get("/export", s.exportExcel)
			r.Get("/template", s.exportTemplate)
			r.With(requireAdmin).Get("/users", s.exportUsers)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", s.listUsers)
			r.Post("/", s.createUser)
			r.Delete("/{id}", s.deleteUser)
			r.Get("/{id}/assets", s.userAssets)
		})
	})

	return r
}
