package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"stringvault/internal/auth"
	"stringvault/internal/database"
)

type EntryHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
}

func NewEntryHandler(db *database.DB, sm *auth.SessionManager) *EntryHandler {
	return &EntryHandler{db: db, sessionMgr: sm}
}

func (h *EntryHandler) ToggleReaccess(w http.ResponseWriter, r *http.Request) {
	entryID, err := strconv.ParseInt(r.PathValue("entryID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	reaccessible, err := h.db.ToggleReaccess(r.Context(), entryID)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("Toggle reaccess for entry #%d failed: %v", entryID, err)
		redirectDashboard(w, r, "Error updating entry")
		return
	}

	if reaccessible {
		redirectDashboard(w, r, fmt.Sprintf("Reaccess enabled for entry #%d. The string can be viewed again.", entryID))
	} else {
		redirectDashboard(w, r, fmt.Sprintf("Reaccess disabled for entry #%d.", entryID))
	}
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entryID, err := strconv.ParseInt(r.PathValue("entryID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.db.DeleteEntry(r.Context(), entryID); err != nil {
		log.Printf("Delete entry #%d failed: %v", entryID, err)
		redirectDashboard(w, r, "Error deleting entry")
		return
	}
	redirectDashboard(w, r, fmt.Sprintf("String entry #%d has been deleted successfully.", entryID))
}

func (h *EntryHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessionMgr.GetUsername(r)

	count, err := h.db.ClearEntries(r.Context())
	if err != nil {
		log.Printf("Clear entries failed: %v", err)
		redirectDashboard(w, r, "Error clearing entries")
		return
	}

	log.Printf("All string entries (%d) cleared by admin %q", count, username)
	redirectDashboard(w, r, fmt.Sprintf("Successfully cleared %d string entries", count))
}
