package handler

import (
	"html/template"
	"log"
	"net/http"

	"stringvault/internal/auth"
	"stringvault/internal/database"
	"stringvault/internal/util"
)

type AuthHandler struct {
	db          *database.DB
	sessionMgr  *auth.SessionManager
	behindProxy bool
	tmpl        *template.Template
}

func NewAuthHandler(db *database.DB, sm *auth.SessionManager, behindProxy bool, tmpl *template.Template) *AuthHandler {
	return &AuthHandler{db: db, sessionMgr: sm, behindProxy: behindProxy, tmpl: tmpl}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessionMgr.GetUsername(r); ok {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	h.tmpl.ExecuteTemplate(w, "login.html", nil)
}

func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username := r.FormValue("username")
	password := r.FormValue("password")
	ip := util.ClientIP(r, h.behindProxy)

	log.Printf("Login attempt for user %q from IP %s", username, ip)

	user, err := h.db.AuthenticateUser(username, password)
	if err != nil {
		log.Printf("Login lookup failed: %v", err)
		h.tmpl.ExecuteTemplate(w, "login.html", map[string]interface{}{
			"Error": "An error occurred. Please try again later.",
		})
		return
	}
	if user == nil {
		log.Printf("Failed login attempt for user %q from IP %s", username, ip)
		h.tmpl.ExecuteTemplate(w, "login.html", map[string]interface{}{
			"Error": "Invalid credentials",
		})
		return
	}

	h.sessionMgr.CreateSession(w, user.Username)

	if err := h.db.LogLogin(user.Username, ip); err != nil {
		log.Printf("Failed to record login for %q: %v", user.Username, err)
	}

	log.Printf("Successful login for user %q", user.Username)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessionMgr.GetUsername(r)

	h.sessionMgr.DestroySession(w, r)

	if username != "" {
		log.Printf("User logged out: %s", username)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
