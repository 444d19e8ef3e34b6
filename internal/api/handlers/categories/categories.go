package categories

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"homeledger/internal/api/handlers"
	"homeledger/internal/ledger"
	"homeledger/internal/models"
	doc "homeledger/internal/repositories/docstore"
	"homeledger/pkg/utils"
)

type Handler struct {
	store  doc.Store
	state  *ledger.State
	logger *logrus.Logger
}

func NewHandler(store doc.Store, state *ledger.State, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = utils.Logger
	}
	return &Handler{store: store, state: state, logger: logger}
}

type categoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (req *categoryRequest) validate(w http.ResponseWriter) bool {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.WriteError(w, "category name is required", http.StatusBadRequest)
		return false
	}
	if len(req.Name) > 100 {
		utils.WriteError(w, "category name too long", http.StatusBadRequest)
		return false
	}
	kind := models.TransactionKind(req.Kind)
	if kind != models.KindIncome && kind != models.KindExpense {
		utils.WriteError(w, "invalid kind, use income or expense", http.StatusBadRequest)
		return false
	}
	return true
}

// FUNC TO CREATE A CATEGORY
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !handlers.DecodeJSONBody(w, r, &req) {
		return
	}
	defer r.Body.Close()

	if !req.validate(w) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	visible, err := h.visibleCategories(ctx, userID)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}
	for _, c := range visible {
		if strings.EqualFold(c.Name, req.Name) {
			utils.WriteError(w, "a category with this name already exists", http.StatusConflict)
			return
		}
	}

	cat := models.Category{
		Name:        req.Name,
		Kind:        models.TransactionKind(req.Kind),
		OwnerUserID: userID,
		CreatedAt:   time.Now().UTC(),
	}

	id, err := h.store.Create(ctx, models.CollectionCategories, cat.Document())
	if err != nil {
		h.logger.WithError(err).Error("failed to create category")
		handlers.WriteDomainError(w, err)
		return
	}
	cat.ID = id
	h.state.UpsertCategory(cat)

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Category created successfully",
		"data":    cat,
	})
}

// FUNC TO LIST CATEGORIES VISIBLE TO THE USER
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	visible, err := h.visibleCategories(ctx, userID)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(visible),
		"data":   visible,
	})
}

// FUNC TO UPDATE A CATEGORY
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "category id is required", http.StatusBadRequest)
		return
	}

	var req categoryRequest
	if !handlers.DecodeJSONBody(w, r, &req) {
		return
	}
	defer r.Body.Close()

	if !req.validate(w) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	cat, ok := h.ownedCategory(ctx, w, userID, id)
	if !ok {
		return
	}

	visible, err := h.visibleCategories(ctx, userID)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}
	for _, c := range visible {
		if c.ID != id && strings.EqualFold(c.Name, req.Name) {
			utils.WriteError(w, "a category with this name already exists", http.StatusConflict)
			return
		}
	}

	patch := doc.Document{
		"name": req.Name,
		"kind": req.Kind,
	}
	if err := h.store.Update(ctx, models.CollectionCategories, id, patch); err != nil {
		h.logger.WithError(err).Error("failed to update category")
		handlers.WriteDomainError(w, err)
		return
	}

	cat.Name = req.Name
	cat.Kind = models.TransactionKind(req.Kind)
	h.state.UpsertCategory(cat)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "Category updated successfully",
		"data":    cat,
	})
}

// FUNC TO DELETE A CATEGORY
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "category id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	if _, ok := h.ownedCategory(ctx, w, userID, id); !ok {
		return
	}

	refs, err := h.store.Query(ctx, models.CollectionTransactions, doc.Eq("categoryId", id))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}
	if len(refs) > 0 {
		utils.WriteError(w, "category is still used by transactions", http.StatusConflict)
		return
	}

	if err := h.store.Delete(ctx, models.CollectionCategories, id); err != nil {
		h.logger.WithError(err).Error("failed to delete category")
		handlers.WriteDomainError(w, err)
		return
	}
	h.state.RemoveCategory(id)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "Category deleted successfully",
	})
}

// visibleCategories refreshes the category state from the store and
// returns the default set plus the user's own, name-sorted.
func (h *Handler) visibleCategories(ctx context.Context, userID string) ([]models.Category, error) {
	docs, err := h.store.Query(ctx, models.CollectionCategories)
	if err != nil {
		return nil, err
	}

	all := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		cat, err := models.DecodeCategory(d)
		if err != nil {
			return nil, err
		}
		all = append(all, cat)
	}
	h.state.SetCategories(all)

	visible := make([]models.Category, 0, len(all))
	for _, c := range h.state.Categories() {
		if c.OwnerUserID == "" || c.OwnerUserID == userID {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// ownedCategory loads a category and answers the request itself when it
// is missing, a default one, or owned by someone else.
func (h *Handler) ownedCategory(ctx context.Context, w http.ResponseWriter, userID, id string) (models.Category, bool) {
	d, err := h.store.Get(ctx, models.CollectionCategories, id)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return models.Category{}, false
	}
	cat, err := models.DecodeCategory(d)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return models.Category{}, false
	}
	if cat.OwnerUserID == "" {
		utils.WriteError(w, "default categories cannot be modified", http.StatusForbidden)
		return models.Category{}, false
	}
	if cat.OwnerUserID != userID {
		utils.WriteError(w, "forbidden", http.StatusForbidden)
		return models.Category{}, false
	}
	return cat, true
}
