package handler

import (
	"log"
	"net/http"
	"strconv"

	"stringvault/internal/auth"
	"stringvault/internal/database"
)

type PatternHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
}

func NewPatternHandler(db *database.DB, sm *auth.SessionManager) *PatternHandler {
	return &PatternHandler{db: db, sessionMgr: sm}
}

func (h *PatternHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username, _ := h.sessionMgr.GetUsername(r)
	inputPattern := r.FormValue("input_pattern")
	outputPattern := r.FormValue("output_pattern")

	if inputPattern == "" || outputPattern == "" {
		redirectDashboard(w, r, "Both input and output patterns are required")
		return
	}

	actor, _ := h.db.GetUserByUsername(username)
	var actorID int64
	if actor != nil {
		actorID = actor.ID
	}

	updated, err := h.db.UpsertPattern(r.Context(), inputPattern, outputPattern, actorID)
	if err != nil {
		log.Printf("Pattern upsert failed: %v", err)
		redirectDashboard(w, r, "Error saving string pair")
		return
	}

	if updated {
		redirectDashboard(w, r, "String pair updated successfully")
	} else {
		redirectDashboard(w, r, "String pair added successfully")
	}
}

func (h *PatternHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pairID, err := strconv.ParseInt(r.PathValue("pairID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.db.DeletePattern(r.Context(), pairID); err != nil {
		log.Printf("Pattern delete failed: %v", err)
		redirectDashboard(w, r, "Error deleting string pair")
		return
	}
	redirectDashboard(w, r, "String pair deleted successfully")
}
