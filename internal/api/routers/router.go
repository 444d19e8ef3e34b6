package routers

import (
	"net/http"

	"homeledger/internal/api/handlers/categories"
	"homeledger/internal/api/handlers/households"
	"homeledger/internal/api/handlers/transactions"
)

func MainRouter(t *transactions.Handler, c *categories.Handler, h *households.Handler) *http.ServeMux {

	mux := http.NewServeMux()

	tRouter := transactionsRouter(t)
	mux.Handle("/transactions/", tRouter)

	cRouter := categoriesRouter(c)
	mux.Handle("/categories/", cRouter)

	hRouter := householdsRouter(h)
	mux.Handle("/households/", hRouter)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}
