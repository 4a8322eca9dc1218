package http

import "net/http"

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.items.BudgetSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleSetWeeklyBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.items.SetWeeklyBudget(r.Context(), req.Amount); err != nil {
		writeServiceError(w, r, err)
		return
	}

	budget, err := s.items.BudgetSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.recordWrite()
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleSetMonthlyBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.items.SetMonthlyBudget(r.Context(), req.Amount); err != nil {
		writeServiceError(w, r, err)
		return
	}

	budget, err := s.items.BudgetSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.recordWrite()
	writeJSON(w, http.StatusOK, budget)
}
