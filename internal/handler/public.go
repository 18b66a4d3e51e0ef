package handler

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"stringvault/internal/service"
	"stringvault/internal/util"
)

type PublicHandler struct {
	svc         *service.TransformService
	behindProxy bool
	tmpl        *template.Template
}

func NewPublicHandler(svc *service.TransformService, behindProxy bool, tmpl *template.Template) *PublicHandler {
	return &PublicHandler{svc: svc, behindProxy: behindProxy, tmpl: tmpl}
}

func (h *PublicHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.tmpl.ExecuteTemplate(w, "index.html", map[string]interface{}{
		"Flash": r.URL.Query().Get("msg"),
	})
}

func (h *PublicHandler) Submit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	input := r.FormValue("input_string")
	ip := util.ClientIP(r, h.behindProxy)

	log.Printf("Transformation request from IP %s", ip)

	entryID, err := h.svc.Submit(r.Context(), input, ip)
	switch {
	case errors.Is(err, service.ErrNoMatch):
		h.tmpl.ExecuteTemplate(w, "no_match.html", nil)
	case errors.Is(err, service.ErrAlreadyAccessed):
		h.tmpl.ExecuteTemplate(w, "no_match.html", map[string]interface{}{
			"Message": "This pattern has already been accessed from your IP address.",
		})
	case err != nil:
		log.Printf("Submit failed: %v", err)
		http.Redirect(w, r, "/?msg="+url.QueryEscape("An error occurred. Please try again later."), http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/view/"+strconv.FormatInt(entryID, 10), http.StatusSeeOther)
	}
}

func (h *PublicHandler) View(w http.ResponseWriter, r *http.Request) {
	entryID, err := strconv.ParseInt(r.PathValue("entryID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	reveal, err := h.svc.View(r.Context(), entryID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, service.ErrLocked):
		h.tmpl.ExecuteTemplate(w, "no_match.html", nil)
	case err != nil:
		log.Printf("View of entry #%d failed: %v", entryID, err)
		h.tmpl.ExecuteTemplate(w, "error.html", map[string]interface{}{
			"Error": "An error occurred while processing your request",
		})
	default:
		h.tmpl.ExecuteTemplate(w, "result.html", map[string]interface{}{
			"InputString": reveal.Input,
			"Result":      reveal.Output,
			"EntryID":     entryID,
		})
	}
}
