package households

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"homeledger/internal/api/handlers"
	"homeledger/internal/households"
	"homeledger/internal/ledger"
	"homeledger/internal/models"
	doc "homeledger/internal/repositories/docstore"
	"homeledger/internal/services"
	"homeledger/pkg/utils"
)

type Handler struct {
	store     doc.Store
	directory *households.Directory
	state     *ledger.State
	notifier  *services.Notifier
	inviteTTL time.Duration
	baseURL   string
	logger    *logrus.Logger
}

func NewHandler(store doc.Store, directory *households.Directory, state *ledger.State, notifier *services.Notifier, inviteTTL time.Duration, baseURL string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = utils.Logger
	}
	return &Handler{
		store:     store,
		directory: directory,
		state:     state,
		notifier:  notifier,
		inviteTTL: inviteTTL,
		baseURL:   baseURL,
		logger:    logger,
	}
}

type householdRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *householdRequest) validate(w http.ResponseWriter) bool {
	if req.Name == "" || req.Description == "" {
		utils.WriteError(w, "household name and description is required", http.StatusBadRequest)
		return false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.WriteError(w, "name cannot be empty or whitespace", http.StatusBadRequest)
		return false
	}
	if len(req.Name) > 100 || len(req.Description) > 500 {
		utils.WriteError(w, "name or description too long", http.StatusBadRequest)
		return false
	}
	return true
}

// FUNC TO CREATE A HOUSEHOLD
func (h *Handler) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	var req householdRequest
	if !handlers.DecodeJSONBody(w, r, &req) {
		return
	}
	defer r.Body.Close()

	if !req.validate(w) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	now := time.Now().UTC()
	hh := models.Household{
		Name:          req.Name,
		Description:   req.Description,
		OwnerUserID:   userID,
		MemberUserIDs: []string{userID},
		MemberEmails:  map[string]string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if email := handlers.RequestEmail(r); email != "" {
		hh.MemberEmails[userID] = email
	}

	id, err := h.store.Create(ctx, models.CollectionHouseholds, hh.Document())
	if err != nil {
		h.logger.WithError(err).Error("failed to create household")
		handlers.WriteDomainError(w, err)
		return
	}
	hh.ID = id
	h.state.UpsertHousehold(hh)

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Household created successfully",
		"data":    hh,
	})
}

// FUNC TO GET ALL HOUSEHOLDS THE USER BELONGS TO
func (h *Handler) GetMyHouseholds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	mine, err := h.directory.HouseholdsFor(ctx, userID)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}
	h.state.SetHouseholds(mine)

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(mine),
		"data":   h.state.Households(),
	})
}

// FUNC TO GET A SINGLE HOUSEHOLD
func (h *Handler) GetHouseholdByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "household id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	hh, err := h.directory.Household(ctx, id)
	if err != nil {
		if errors.Is(err, doc.ErrNotFound) {
			utils.WriteError(w, "household not found", http.StatusNotFound)
			return
		}
		handlers.WriteDomainError(w, err)
		return
	}

	if !hh.HasMember(userID) {
		utils.WriteError(w, "forbidden: you are not a member of this household", http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   hh,
	})
}

// FUNC TO UPDATE HOUSEHOLD NAME/DESCRIPTION
func (h *Handler) UpdateHousehold(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "household id is required", http.StatusBadRequest)
		return
	}

	var req householdRequest
	if !handlers.DecodeJSONBody(w, r, &req) {
		return
	}
	defer r.Body.Close()

	if !req.validate(w) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	hh, ok := h.ownedHousehold(ctx, w, userID, id)
	if !ok {
		return
	}

	hh.Name = req.Name
	hh.Description = req.Description
	hh.UpdatedAt = time.Now().UTC()

	if err := h.store.Update(ctx, models.CollectionHouseholds, id, hh.Document()); err != nil {
		h.logger.WithError(err).Error("failed to update household")
		handlers.WriteDomainError(w, err)
		return
	}
	h.directory.Invalidate(id)
	h.state.UpsertHousehold(hh)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "Household updated successfully",
		"data":    hh,
	})
}

// FUNC TO DELETE A HOUSEHOLD BY OWNER
func (h *Handler) DeleteHousehold(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "household id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	if _, ok := h.ownedHousehold(ctx, w, userID, id); !ok {
		return
	}

	txs, err := h.store.Query(ctx, models.CollectionTransactions, doc.Eq("householdId", id))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}
	if len(txs) > 0 {
		utils.WriteError(w, "household still has transactions, delete or reassign them first", http.StatusConflict)
		return
	}

	invites, err := h.store.Query(ctx, models.CollectionInvitations, doc.Eq("householdId", id))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}
	for _, inv := range invites {
		inviteID, _ := inv["id"].(string)
		if err := h.store.Delete(ctx, models.CollectionInvitations, inviteID); err != nil {
			h.logger.WithError(err).Errorf("failed to delete invitation %s", inviteID)
		}
	}

	if err := h.store.Delete(ctx, models.CollectionHouseholds, id); err != nil {
		h.logger.WithError(err).Error("failed to delete household")
		handlers.WriteDomainError(w, err)
		return
	}
	h.directory.Invalidate(id)
	h.state.RemoveHousehold(id)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "household and its invitations deleted successfully",
	})
}

// FUNC TO INVITE MEMBERS TO HOUSEHOLD
func (h *Handler) InviteMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "household id is required", http.StatusBadRequest)
		return
	}

	type inviteRequest struct {
		Email string `json:"email"`
	}

	var invites []inviteRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err = json.Unmarshal(body, &invites); err != nil {
		utils.WriteError(w, "invalid JSON array", http.StatusBadRequest)
		return
	}

	if len(invites) == 0 {
		utils.WriteError(w, "no invites provided", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	hh, ok := h.ownedHousehold(ctx, w, userID, id)
	if !ok {
		return
	}

	pending, err := h.pendingInvites(ctx, id)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}
	pendingEmails := make(map[string]bool, len(pending))
	for _, inv := range pending {
		pendingEmails[strings.ToLower(inv.Email)] = true
	}
	memberEmails := make(map[string]bool, len(hh.MemberEmails))
	for _, email := range hh.MemberEmails {
		memberEmails[strings.ToLower(email)] = true
	}

	expiresAt := time.Now().UTC().Add(h.inviteTTL)

	addedInvites := 0
	skippedInvites := 0
	var successfulInvites []string
	var skippedDetails []map[string]string

	for _, inv := range invites {
		email := strings.TrimSpace(inv.Email)
		if email == "" || !strings.Contains(email, "@") {
			skippedInvites++
			skippedDetails = append(skippedDetails, map[string]string{
				"email":  email,
				"reason": "email is empty or invalid",
			})
			continue
		}
		if pendingEmails[strings.ToLower(email)] {
			skippedInvites++
			skippedDetails = append(skippedDetails, map[string]string{
				"email":  email,
				"reason": "already invited to this household, use the resend invite endpoint",
			})
			continue
		}
		if memberEmails[strings.ToLower(email)] {
			skippedInvites++
			skippedDetails = append(skippedDetails, map[string]string{
				"email":  email,
				"reason": "already a household member",
			})
			continue
		}

		token, hash, err := newInviteToken()
		if err != nil {
			h.logger.WithError(err).Error("failed to generate invite token")
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}

		invite := models.Invitation{
			HouseholdID: id,
			Email:       email,
			TokenHash:   hash,
			Status:      models.InviteStatusPending,
			InvitedBy:   userID,
			ExpiresAt:   expiresAt,
			CreatedAt:   time.Now().UTC(),
		}
		if _, err := h.store.Create(ctx, models.CollectionInvitations, invite.Document()); err != nil {
			h.logger.Errorf("failed to save invitation for %s: %v", email, err)
			skippedInvites++
			skippedDetails = append(skippedDetails, map[string]string{
				"email":  email,
				"reason": "failed to save invitation",
			})
			continue
		}

		addedInvites++
		successfulInvites = append(successfulInvites, email)
		pendingEmails[strings.ToLower(email)] = true

		h.notifier.HouseholdInvite(email, hh.Name, h.inviterName(hh, userID, r), h.acceptURL(token), expiresAt)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":            "success",
		"added_invites":     addedInvites,
		"skipped_invites":   skippedInvites,
		"successful_emails": successfulInvites,
		"skipped_details":   skippedDetails,
		"message":           fmt.Sprintf("%d invites sent, %d skipped", addedInvites, skippedInvites),
	})
}

// FUNC TO ACCEPT HOUSEHOLD INVITATION
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	token := r.PathValue("tokenCode")
	bytes, err := hex.DecodeString(token)
	if err != nil || len(bytes) == 0 {
		utils.WriteError(w, "invite token expired or invalid", http.StatusBadRequest)
		return
	}

	hashed := sha256.Sum256(bytes)
	hashedToken := hex.EncodeToString(hashed[:])

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	docs, err := h.store.Query(ctx, models.CollectionInvitations, doc.Eq("tokenHash", hashedToken))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}
	if len(docs) == 0 {
		utils.WriteError(w, "invite token expired or invalid", http.StatusBadRequest)
		return
	}

	invite, err := models.DecodeInvitation(docs[0])
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	switch invite.Status {
	case models.InviteStatusAccepted:
		utils.WriteError(w, "invitation already accepted", http.StatusBadRequest)
		return
	case models.InviteStatusExpired:
		utils.WriteError(w, "invitation already expired", http.StatusBadRequest)
		return
	case models.InviteStatusRevoked:
		utils.WriteError(w, "invitation revoked by household owner", http.StatusBadRequest)
		return
	}

	if invite.Expired(time.Now()) {
		if err := h.store.Update(ctx, models.CollectionInvitations, invite.ID, doc.Document{"status": models.InviteStatusExpired}); err != nil {
			h.logger.WithError(err).Warn("failed to mark invitation expired")
		}
		utils.WriteError(w, "invite token expired or invalid", http.StatusBadRequest)
		return
	}

	hh, err := h.directory.Household(ctx, invite.HouseholdID)
	if err != nil {
		if errors.Is(err, doc.ErrNotFound) {
			utils.WriteError(w, "household not found", http.StatusNotFound)
			return
		}
		handlers.WriteDomainError(w, err)
		return
	}

	if hh.HasMember(userID) {
		utils.WriteError(w, "you are already a member of this household", http.StatusBadRequest)
		return
	}

	hh.MemberUserIDs = append(hh.MemberUserIDs, userID)
	if hh.MemberEmails == nil {
		hh.MemberEmails = map[string]string{}
	}
	if email := handlers.RequestEmail(r); email != "" {
		hh.MemberEmails[userID] = email
	} else {
		hh.MemberEmails[userID] = invite.Email
	}
	hh.UpdatedAt = time.Now().UTC()

	if err := h.store.Update(ctx, models.CollectionHouseholds, hh.ID, hh.Document()); err != nil {
		h.logger.Errorf("failed to join household: %v", err)
		utils.WriteError(w, "failed to join household", http.StatusInternalServerError)
		return
	}

	if err := h.store.Update(ctx, models.CollectionInvitations, invite.ID, doc.Document{"status": models.InviteStatusAccepted}); err != nil {
		h.logger.WithError(err).Warn("failed to mark invitation accepted")
	}

	h.directory.Invalidate(hh.ID)
	h.state.UpsertHousehold(hh)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "invite accepted successfully",
		"data":    hh,
	})
}

// FUNC TO REMOVE MEMBER
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "household id is required", http.StatusBadRequest)
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if !handlers.DecodeJSONBody(w, r, &req) {
		return
	}
	defer r.Body.Close()

	if req.UserID == "" {
		utils.WriteError(w, "user_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	hh, ok := h.ownedHousehold(ctx, w, userID, id)
	if !ok {
		return
	}

	if req.UserID == hh.OwnerUserID {
		utils.WriteError(w, "household owners cannot be removed. Transfer ownership or delete the household.", http.StatusBadRequest)
		return
	}
	if !hh.HasMember(req.UserID) {
		utils.WriteError(w, "user is not a member of this household", http.StatusNotFound)
		return
	}

	if ok := h.memberHasNoPortions(ctx, w, id, req.UserID); !ok {
		return
	}

	h.dropMember(&hh, req.UserID)

	if err := h.store.Update(ctx, models.CollectionHouseholds, id, hh.Document()); err != nil {
		h.logger.Errorf("failed to remove member: %v", err)
		utils.WriteError(w, "failed to remove member", http.StatusInternalServerError)
		return
	}
	h.directory.Invalidate(id)
	h.state.UpsertHousehold(hh)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "member removed successfully",
	})
}

// FUNC TO LEAVE HOUSEHOLD
func (h *Handler) LeaveHousehold(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "household id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	hh, err := h.directory.Household(ctx, id)
	if err != nil {
		if errors.Is(err, doc.ErrNotFound) {
			utils.WriteError(w, "household not found", http.StatusNotFound)
			return
		}
		handlers.WriteDomainError(w, err)
		return
	}

	if !hh.HasMember(userID) {
		utils.WriteError(w, "you are not a member of this household", http.StatusNotFound)
		return
	}
	if userID == hh.OwnerUserID {
		utils.WriteError(w, "household owners cannot leave. Transfer ownership or delete the household.", http.StatusBadRequest)
		return
	}

	if ok := h.memberHasNoPortions(ctx, w, id, userID); !ok {
		return
	}

	h.dropMember(&hh, userID)

	if err := h.store.Update(ctx, models.CollectionHouseholds, id, hh.Document()); err != nil {
		h.logger.Errorf("failed to leave household: %v", err)
		utils.WriteError(w, "failed to leave household", http.StatusInternalServerError)
		return
	}
	h.directory.Invalidate(id)
	h.state.UpsertHousehold(hh)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "you have successfully left the household",
	})
}

// FUNC TO REVOKE INVITATION
func (h *Handler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "invitation id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	invite, ok := h.loadInvitation(ctx, w, id)
	if !ok {
		return
	}

	if _, ok := h.ownedHousehold(ctx, w, userID, invite.HouseholdID); !ok {
		return
	}

	if invite.Status != models.InviteStatusPending {
		utils.WriteError(w, "only pending invitations can be revoked", http.StatusBadRequest)
		return
	}

	if err := h.store.Update(ctx, models.CollectionInvitations, id, doc.Document{"status": models.InviteStatusRevoked}); err != nil {
		h.logger.Errorf("failed to revoke invitation: %v", err)
		utils.WriteError(w, "failed to revoke invitation", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "invitation revoked successfully",
	})
}

// FUNC TO LIST PENDING INVITES FOR OWNER
func (h *Handler) ListPendingInvites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		utils.WriteError(w, "household id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	if _, ok := h.ownedHousehold(ctx, w, userID, id); !ok {
		return
	}

	invites, err := h.pendingInvites(ctx, id)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return
	}

	if len(invites) == 0 {
		utils.WriteJSON(w, map[string]interface{}{
			"status":  "success",
			"message": "no pending invitations found",
			"data":    []models.Invitation{},
		})
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(invites),
		"data":   invites,
	})
}

// FUNC TO RESEND INVITATION
func (h *Handler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	householdID := r.PathValue("householdId")
	inviteID := r.PathValue("inviteId")
	if householdID == "" || inviteID == "" {
		utils.WriteError(w, "household id and invite id are required", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.RequestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	hh, ok := h.ownedHousehold(ctx, w, userID, householdID)
	if !ok {
		return
	}

	invite, ok := h.loadInvitation(ctx, w, inviteID)
	if !ok {
		return
	}
	if invite.HouseholdID != householdID {
		utils.WriteError(w, "invitation not found", http.StatusNotFound)
		return
	}
	if invite.Status != models.InviteStatusPending {
		utils.WriteError(w, "cannot resend a non-pending invitation", http.StatusBadRequest)
		return
	}

	token, hash, err := newInviteToken()
	if err != nil {
		h.logger.WithError(err).Error("failed to generate invite token")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expiresAt := time.Now().UTC().Add(h.inviteTTL)
	patch := doc.Document{
		"tokenHash": hash,
		"expiresAt": expiresAt.Format(time.RFC3339),
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.store.Update(ctx, models.CollectionInvitations, inviteID, patch); err != nil {
		h.logger.Errorf("failed to update invitation: %v", err)
		utils.WriteError(w, "failed to update invitation", http.StatusInternalServerError)
		return
	}

	h.notifier.HouseholdInvite(invite.Email, hh.Name, h.inviterName(hh, userID, r), h.acceptURL(token), expiresAt)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "invitation resent successfully",
		"data": map[string]interface{}{
			"invite_id":    inviteID,
			"household_id": householdID,
			"email":        invite.Email,
			"expires_at":   expiresAt,
		},
	})
}

// ownedHousehold loads a household and answers the request itself when
// it is missing or the caller is not its owner.
func (h *Handler) ownedHousehold(ctx context.Context, w http.ResponseWriter, userID, id string) (models.Household, bool) {
	hh, err := h.directory.Household(ctx, id)
	if err != nil {
		if errors.Is(err, doc.ErrNotFound) {
			utils.WriteError(w, "household not found", http.StatusNotFound)
			return models.Household{}, false
		}
		handlers.WriteDomainError(w, err)
		return models.Household{}, false
	}
	if hh.OwnerUserID != userID {
		utils.WriteError(w, "forbidden: not household owner", http.StatusForbidden)
		return models.Household{}, false
	}
	return hh, true
}

func (h *Handler) loadInvitation(ctx context.Context, w http.ResponseWriter, id string) (models.Invitation, bool) {
	d, err := h.store.Get(ctx, models.CollectionInvitations, id)
	if err != nil {
		if errors.Is(err, doc.ErrNotFound) {
			utils.WriteError(w, "invitation not found", http.StatusNotFound)
			return models.Invitation{}, false
		}
		handlers.WriteDomainError(w, err)
		return models.Invitation{}, false
	}
	invite, err := models.DecodeInvitation(d)
	if err != nil {
		handlers.WriteDomainError(w, err)
		return models.Invitation{}, false
	}
	return invite, true
}

func (h *Handler) pendingInvites(ctx context.Context, householdID string) ([]models.Invitation, error) {
	docs, err := h.store.Query(ctx, models.CollectionInvitations,
		doc.Eq("householdId", householdID),
		doc.Eq("status", models.InviteStatusPending))
	if err != nil {
		return nil, err
	}

	invites := make([]models.Invitation, 0, len(docs))
	for _, d := range docs {
		invite, err := models.DecodeInvitation(d)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, nil
}

// memberHasNoPortions blocks membership removal while the member still
// owns split portions in the household.
func (h *Handler) memberHasNoPortions(ctx context.Context, w http.ResponseWriter, householdID, memberID string) bool {
	portions, err := h.store.Query(ctx, models.CollectionTransactions,
		doc.Eq("householdId", householdID),
		doc.Eq("ownerUserId", memberID),
		doc.Eq("isSplitPortion", true))
	if err != nil {
		handlers.WriteDomainError(w, err)
		return false
	}
	if len(portions) > 0 {
		utils.WriteError(w, "member still has split portions in this household, update the splits first", http.StatusConflict)
		return false
	}
	return true
}

func (h *Handler) dropMember(hh *models.Household, memberID string) {
	members := make([]string, 0, len(hh.MemberUserIDs))
	for _, m := range hh.MemberUserIDs {
		if m != memberID {
			members = append(members, m)
		}
	}
	hh.MemberUserIDs = members
	delete(hh.MemberEmails, memberID)
	hh.UpdatedAt = time.Now().UTC()
}

func (h *Handler) inviterName(hh models.Household, userID string, r *http.Request) string {
	if email := handlers.RequestEmail(r); email != "" {
		return email
	}
	if email := hh.MemberEmails[userID]; email != "" {
		return email
	}
	return "the household owner"
}

func (h *Handler) acceptURL(token string) string {
	return fmt.Sprintf("%s/households/member/accept/%s/invite", h.baseURL, token)
}

// newInviteToken returns the url token and the sha256 hash that is
// stored in its place.
func newInviteToken() (token, hash string, err error) {
	token, err = utils.GenerateRandomString(32)
	if err != nil {
		return "", "", err
	}
	bytes, err := hex.DecodeString(token)
	if err != nil {
		return "", "", err
	}
	hashed := sha256.Sum256(bytes)
	return token, hex.EncodeToString(hashed[:]), nil
}
