package routers

import (
	"net/http"

	"homeledger/internal/api/handlers/categories"
)

func categoriesRouter(h *categories.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/categories/create", h.CreateCategory)

	mux.HandleFunc("/categories/", h.ListCategories)

	mux.HandleFunc("/categories/update/{id}", h.UpdateCategory)

	mux.HandleFunc("/categories/delete/{id}", h.DeleteCategory)

	return mux
}
