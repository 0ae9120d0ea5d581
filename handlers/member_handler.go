package handlers

import (
	"net/http"

	"github.com/Dosada05/club-system/services"
)

type MemberHandler struct {
	roster services.RosterService
}

func NewMemberHandler(roster services.RosterService) *MemberHandler {
	return &MemberHandler{roster: roster}
}

// ListMembersHandler returns the cached roster plus the current rank map.
// A stale cache is still served; the refresh happens behind the response.
func (h *MemberHandler) ListMembersHandler(w http.ResponseWriter, r *http.Request) {
	members, err := h.roster.ListMembers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{
		"members": members,
		"ranks":   h.roster.Ranks(),
	}
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MemberHandler) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// 5MB cap for avatar uploads.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	contentType := r.Header.Get("Content-Type")

	member, err := h.roster.UploadAvatar(r.Context(), memberID, contentType, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"member": member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
