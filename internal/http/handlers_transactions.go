package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/filter"
	applog "fintrack/internal/log"
)

type transactionList struct {
	Transactions []core.Transaction `json:"transactions"`
	Count        int                `json:"count"`
}

// handleListTransactions applies the query's filter criteria, newest first
// unless a sort is requested.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := filter.FromQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err, applog.OpList)
		return
	}
	txs := s.views.Transactions(criteria.WithDefaultSort())
	OK(transactionList{Transactions: nonNil(txs), Count: len(txs)}).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if err := DecodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err, applog.OpCreate)
		return
	}

	tx, err := s.store.Create(r.Context(), sanitizeTransactionInput(in))
	if err != nil {
		s.respondError(w, r, err, applog.OpCreate)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		Payload(tx).
		Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tx, ok := s.store.Get(r.Context(), id)
	if !ok {
		s.respondError(w, r, &core.NotFoundError{Resource: "transaction", ID: id}, applog.OpRead)
		return
	}
	OK(tx).Write(w)
}

// handleUpdateTransaction applies a partial update. Only fields present in
// the body are changed and validated.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var patch core.TransactionPatch
	if err := DecodeJSON(w, r, &patch); err != nil {
		s.respondError(w, r, err, applog.OpUpdate)
		return
	}

	tx, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), sanitizeTransactionPatch(patch))
	if err != nil {
		s.respondError(w, r, err, applog.OpUpdate)
		return
	}
	OK(tx).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := s.store.Delete(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, applog.OpDelete)
		return
	}
	if !deleted {
		s.respondError(w, r, &core.NotFoundError{Resource: "transaction", ID: id}, applog.OpDelete)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
