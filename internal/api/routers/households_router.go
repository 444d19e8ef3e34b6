package routers

import (
	"net/http"

	"homeledger/internal/api/handlers/households"
)

func householdsRouter(h *households.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/households/create", h.CreateHousehold)

	mux.HandleFunc("/households/", h.GetMyHouseholds)

	mux.HandleFunc("/households/{id}", h.GetHouseholdByID)

	mux.HandleFunc("/households/delete/{id}", h.DeleteHousehold)

	mux.HandleFunc("/households/update/{id}", h.UpdateHousehold)

	mux.HandleFunc("/households/member/{id}/invite", h.InviteMembers)

	mux.HandleFunc("/households/member/accept/{tokenCode}/invite", h.AcceptInvitation)

	mux.HandleFunc("/households/member/{id}/remove", h.RemoveMember)

	mux.HandleFunc("/households/member/{id}/leave", h.LeaveHousehold)

	mux.HandleFunc("/households/invites/{id}/revoke", h.RevokeInvitation)

	mux.HandleFunc("/households/{id}/invites/pending", h.ListPendingInvites)

	mux.HandleFunc("/households/{householdId}/invites/{inviteId}/resend", h.ResendInvite)

	return mux
}
