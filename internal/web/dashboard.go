package web

import "net/http"

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := s.reports.CampusSummaries(ctx)
	if err != nil {
		s.fail(w, r, "campus summaries", err)
		return
	}
	totals, err := s.reports.GlobalTotals(ctx)
	if err != nil {
		s.fail(w, r, "global totals", err)
		return
	}
	byCategory, err := s.reports.CategoryHistogram(ctx)
	if err != nil {
		s.fail(w, r, "category histogram", err)
		return
	}
	byCondition, err := s.reports.ConditionHistogram(ctx)
	if err != nil {
		s.fail(w, r, "condition histogram", err)
		return
	}
	attention, err := s.reports.AttentionList(ctx, 20)
	if err != nil {
		s.fail(w, r, "attention list", err)
		return
	}
	recent, err := s.history.Recent(ctx, 10)
	if err != nil {
		s.fail(w, r, "recent history", err)
		return
	}

	respondOK(w, "", map[string]any{
		"campuses":       summaries,
		"totals":         totals,
		"by_category":    byCategory,
		"by_condition":   byCondition,
		"attention":      attention,
		"recent_history": recent,
	})
}
