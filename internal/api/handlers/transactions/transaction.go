package transactions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"homeledger/internal/api/handlers"
	"homeledger/internal/households"
	"homeledger/internal/ledger"
	"homeledger/internal/models"
	"homeledger/internal/services"
	"homeledger/internal/split"
	"homeledger/pkg/utils"
)

type Handler struct {
	repo      *ledger.Repository
	directory *households.Directory
	notifier  *services.Notifier
	logger    *logrus.Logger
}

func NewHandler(repo *ledger.Repository, directory *households.Directory, notifier *services.Notifier, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = utils.Logger
	}
	return &Handler{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
		logger:    logger,
	}
}

type transactionRequest struct {
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
	CategoryID  string               `json:"category_id"`
	Kind        string               `json:"kind"`
	HouseholdID string               `json:"household_id"`
	Split       *ledger.SplitRequest `json:"split"`
}

func (req transactionRequest) saveInput(w http.ResponseWriter, userID, id string) (ledger.SaveInput, bool) {
	req.Description = strings.TrimSpace(req.Description)
	if len(req.Description) > 200 {
		utils.WriteError(w, "description too long", http.StatusBadRequest)
		return ledger.SaveInput{}, false
	}

	date, err := handlers.ParseDate(req.Date)
	if err != nil {
		utils.WriteError(w, "invalid date, use RFC 3339 or YYYY-MM-DD", http.StatusBadRequest)
		return ledger.SaveInput{}, false
	}

	return ledger.SaveInput{
		ID:          id,
		OwnerUserID: userID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
		CategoryID:  req.CategoryID,
		Kind:        models.TransactionKind(req.Kind),
		HouseholdID: req.HouseholdID,
		Split:       req.Split,
	}, true
}

// FUNC TO CREATE A TRANSACTION
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if !handlers.DecodeJSONBody(w, r, &req) {
		return
	}
	defer r.Body.Close()

	input, ok := req.saveInput(w, userID, "")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	result, err := h.repo.Save(ctx, input)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	h.notifyShareChanges(ctx, result, handlers.RequestEmail(r))

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction created successfully",
		"data":    result.Transaction,
		"split":   splitSummary(result.Split),
	})
}

// FUNC TO UPDATE A TRANSACTION
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteError(w, "transaction id is required", http.StatusBadRequest)
		return
	}

	var req transactionRequest
	if !handlers.DecodeJSONBody(w, r, &req) {
		return
	}
	defer r.Body.Close()

	input, ok := req.saveInput(w, userID, id)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	result, err := h.repo.Save(ctx, input)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	h.notifyShareChanges(ctx, result, handlers.RequestEmail(r))

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "Transaction updated successfully",
		"data":    result.Transaction,
		"split":   splitSummary(result.Split),
	})
}

// FUNC TO DELETE A TRANSACTION AND ITS SPLIT PORTIONS
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteError(w, "transaction id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	result, err := h.repo.Delete(ctx, userID, id)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "Transaction deleted successfully",
		"split":   splitSummary(result),
	})
}

// FUNC TO GET A SINGLE TRANSACTION
func (h *Handler) GetTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "transaction id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	tx, err := h.repo.Get(ctx, userID, id)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   tx,
	})
}

// FUNC TO LIST TRANSACTIONS WITH FILTERS
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	opts, householdID, ok := h.listParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	txs, err := h.repo.List(ctx, userID, householdID)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	filtered := ledger.Filter(txs, opts)

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(filtered),
		"data":   filtered,
	})
}

// FUNC TO SUMMARIZE TRANSACTIONS BY MONTH AND CATEGORY
func (h *Handler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	opts, householdID, ok := h.listParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	txs, err := h.repo.List(ctx, userID, householdID)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	filtered := ledger.Filter(txs, opts)

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"monthly":    ledger.MonthlyTotals(filtered),
			"categories": ledger.CategoryTotals(filtered),
		},
	})
}

func (h *Handler) listParams(w http.ResponseWriter, r *http.Request) (ledger.Options, string, bool) {
	q := r.URL.Query()
	householdID := q.Get("household_id")

	var opts ledger.Options
	if v := q.Get("from"); v != "" {
		t, err := handlers.ParseDate(v)
		if err != nil {
			utils.WriteError(w, "invalid from date", http.StatusBadRequest)
			return opts, "", false
		}
		opts.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := handlers.ParseDate(v)
		if err != nil {
			utils.WriteError(w, "invalid to date", http.StatusBadRequest)
			return opts, "", false
		}
		// A bare calendar date means the whole day.
		if !strings.Contains(v, "T") {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		opts.To = t
	}
	if v := q.Get("kind"); v != "" {
		kind := models.TransactionKind(v)
		if kind != models.KindIncome && kind != models.KindExpense {
			utils.WriteError(w, "invalid kind, use income or expense", http.StatusBadRequest)
			return opts, "", false
		}
		opts.Kind = kind
	}
	if v := q.Get("category_ids"); v != "" {
		opts.CategoryIDs = strings.Split(v, ",")
	}
	opts.SearchText = q.Get("search")

	switch q.Get("scope") {
	case "":
	case "personal":
		personal := ""
		opts.HouseholdID = &personal
	case "household":
		if householdID == "" {
			utils.WriteError(w, "scope=household requires household_id", http.StatusBadRequest)
			return opts, "", false
		}
		opts.HouseholdID = &householdID
	default:
		utils.WriteError(w, "invalid scope, use personal or household", http.StatusBadRequest)
		return opts, "", false
	}

	return opts, householdID, true
}

// notifyShareChanges emails members whose portion was created or
// changed by a save.
func (h *Handler) notifyShareChanges(ctx context.Context, result ledger.SaveResult, actor string) {
	tx := result.Transaction
	if !tx.IsHousehold() || len(result.Split.Outcomes) == 0 {
		return
	}

	hh, err := h.directory.Household(ctx, tx.HouseholdID)
	if err != nil {
		h.logger.WithError(err).Warn("skipping share notifications, household lookup failed")
		return
	}

	shares := make(map[string]models.SplitShare, len(tx.SplitInfo))
	for _, s := range tx.SplitInfo {
		shares[s.MemberUserID] = s
	}

	if actor == "" {
		actor = hh.MemberEmails[tx.OwnerUserID]
	}

	for _, o := range result.Split.Outcomes {
		if o.Err != nil || o.Op == split.OpDelete {
			continue
		}
		share, ok := shares[o.MemberUserID]
		if !ok {
			continue
		}
		email := hh.MemberEmails[o.MemberUserID]
		if email == "" {
			continue
		}
		h.notifier.ShareUpdate(email, actor, tx.Description, hh.Name,
			share.Amount.String(), share.Percentage.String())
	}
}

func splitSummary(result split.Result) map[string]interface{} {
	if len(result.Outcomes) == 0 {
		return nil
	}

	outcomes := make([]map[string]interface{}, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		outcomes = append(outcomes, map[string]interface{}{
			"op":             o.Op,
			"member_user_id": o.MemberUserID,
			"transaction_id": o.TransactionID,
			"ok":             o.Err == nil,
		})
	}
	return map[string]interface{}{
		"partial":  result.Partial(),
		"outcomes": outcomes,
	}
}
