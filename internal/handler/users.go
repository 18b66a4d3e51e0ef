package handler

import (
	"fmt"
	"log"
	"net/http"

	"stringvault/internal/auth"
	"stringvault/internal/database"
)

type UserHandler struct {
	db         *database.DB
	sessionMgr *auth.SessionManager
}

func NewUserHandler(db *database.DB, sm *auth.SessionManager) *UserHandler {
	return &UserHandler{db: db, sessionMgr: sm}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	actor, _ := h.sessionMgr.GetUsername(r)
	newUsername := r.FormValue("username")
	password := r.FormValue("password")
	isAdmin := r.FormValue("is_admin") != ""

	if newUsername == "" || password == "" {
		redirectDashboard(w, r, "Username and password are required")
		return
	}

	existing, err := h.db.GetUserByUsername(newUsername)
	if err != nil {
		log.Printf("User lookup failed: %v", err)
		redirectDashboard(w, r, "Error creating user")
		return
	}
	if existing != nil {
		redirectDashboard(w, r, "Username already exists")
		return
	}

	if _, err := h.db.CreateUser(newUsername, password, isAdmin); err != nil {
		log.Printf("User create failed: %v", err)
		redirectDashboard(w, r, "Error creating user")
		return
	}

	log.Printf("User %q created by %q (admin=%v)", newUsername, actor, isAdmin)
	redirectDashboard(w, r, fmt.Sprintf("User '%s' added successfully", newUsername))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	actor, _ := h.sessionMgr.GetUsername(r)
	targetUser := r.FormValue("username")

	if targetUser == actor {
		redirectDashboard(w, r, "You cannot delete your own account")
		return
	}

	if err := h.db.DeleteUser(targetUser); err != nil {
		log.Printf("User delete failed: %v", err)
		redirectDashboard(w, r, "Error deleting user")
		return
	}

	log.Printf("User %q deleted by %q", targetUser, actor)
	redirectDashboard(w, r, fmt.Sprintf("User '%s' deleted successfully", targetUser))
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username, _ := h.sessionMgr.GetUsername(r)
	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		redirectDashboard(w, r, "All password fields are required.")
		return
	}
	if newPassword != confirmPassword {
		redirectDashboard(w, r, "New passwords don't match.")
		return
	}

	user, err := h.db.AuthenticateUser(username, currentPassword)
	if err != nil {
		log.Printf("Password change lookup failed: %v", err)
		redirectDashboard(w, r, "An error occurred while changing your password.")
		return
	}
	if user == nil {
		log.Printf("Failed password change attempt for %q (incorrect current password)", username)
		redirectDashboard(w, r, "Current password is incorrect.")
		return
	}

	if err := h.db.UpdateUserPassword(username, newPassword); err != nil {
		log.Printf("Password update failed: %v", err)
		redirectDashboard(w, r, "An error occurred while changing your password.")
		return
	}

	log.Printf("Password changed successfully for user %q", username)
	redirectDashboard(w, r, "Your password has been updated successfully.")
}
