package handler

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"stringvault/internal/auth"
	"stringvault/internal/database"
	"stringvault/internal/model"
)

type DashboardHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
	tmpl       *template.Template
}

func NewDashboardHandler(db *database.DB, sm *auth.SessionManager, tmpl *template.Template) *DashboardHandler {
	return &DashboardHandler{db: db, sessionMgr: sm, tmpl: tmpl}
}

func isAdmin(u *model.User) bool {
	return u != nil && u.IsAdmin
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	username, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user, _ := h.db.GetUserByUsername(username)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 50
	offset := (page - 1) * limit

	data := map[string]interface{}{
		"Title":     "Dashboard",
		"Username":  username,
		"CSRFToken": csrfToken,
		"IsAdmin":   isAdmin(user),
		"Flash":     r.URL.Query().Get("msg"),
	}

	entries, err := h.db.ListEntries()
	if err != nil {
		data["Error"] = "Failed to load entries"
		h.tmpl.ExecuteTemplate(w, "dashboard.html", data)
		return
	}
	patterns, err := h.db.ListPatterns()
	if err != nil {
		data["Error"] = "Failed to load patterns"
		h.tmpl.ExecuteTemplate(w, "dashboard.html", data)
		return
	}
	logs, total, err := h.db.ListLoginLog(limit, offset)
	if err != nil {
		data["Error"] = "Failed to load login log"
		h.tmpl.ExecuteTemplate(w, "dashboard.html", data)
		return
	}
	users, err := h.db.ListUsers()
	if err != nil {
		data["Error"] = "Failed to load users"
		h.tmpl.ExecuteTemplate(w, "dashboard.html", data)
		return
	}

	data["Entries"] = entries
	data["Patterns"] = patterns
	data["LoginLogs"] = logs
	data["Users"] = users
	data["Page"] = page
	data["TotalPages"] = (total + limit - 1) / limit
	data["PrevPage"] = page - 1
	data["NextPage"] = page + 1

	h.tmpl.ExecuteTemplate(w, "dashboard.html", data)
}

func redirectDashboard(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/admin/dashboard?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}
