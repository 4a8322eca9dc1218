package http

import (
	"net/http"
	"strings"

	"dispensa/internal/core"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.check(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	id, err := s.items.CreateItem(r.Context(), req.toItem())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	item, err := s.items.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.recordWrite()
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.ListItems(r.Context(), parseListFilter(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []core.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.items.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.check(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	item := req.toItem()
	item.ID = id
	if err := s.items.UpdateItem(r.Context(), item); err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := s.items.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.recordWrite()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.items.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.recordWrite()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkPurchased(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date := strings.TrimSpace(sanitizeInput(req.PurchaseDate))
	if err := s.items.MarkPurchased(r.Context(), id, date); err != nil {
		writeServiceError(w, r, err)
		return
	}

	item, err := s.items.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.recordWrite()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleMarkUnpurchased(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.items.MarkUnpurchased(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	item, err := s.items.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.recordWrite()
	writeJSON(w, http.StatusOK, item)
}
