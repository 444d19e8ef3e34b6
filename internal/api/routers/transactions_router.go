package routers

import (
	"net/http"

	"homeledger/internal/api/handlers/transactions"
)

func transactionsRouter(h *transactions.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/transactions/create", h.CreateTransaction)

	mux.HandleFunc("/transactions/summary", h.TransactionSummary)

	mux.HandleFunc("/transactions/", h.ListTransactions)

	mux.HandleFunc("/transactions/{id}", h.GetTransactionByID)

	mux.HandleFunc("/transactions/update/{id}", h.UpdateTransaction)

	mux.HandleFunc("/transactions/delete/{id}", h.DeleteTransaction)

	return mux
}
