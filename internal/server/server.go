package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"stringvault/internal/auth"
	"stringvault/internal/config"
	"stringvault/internal/database"
	"stringvault/internal/handler"
	"stringvault/internal/obs"
	"stringvault/internal/service"
	"stringvault/web"
)

func mustParseTemplates(fsys fs.FS, funcMap template.FuncMap, files ...string) *template.Template {
	tmpl := template.New("").Funcs(funcMap)
	tmpl, err := tmpl.ParseFS(fsys, files...)
	if err != nil {
		log.Fatalf("Failed to parse templates %v: %v", files, err)
	}
	return tmpl
}

func Start(cfg *config.Config, version string) error {
	db, err := database.Open(cfg.Database.DSN, web.MigrationsFS())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureBootstrapAdmin(cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	sessionMgr, err := auth.NewSessionManager(db)
	if err != nil {
		return fmt.Errorf("failed to init session manager: %w", err)
	}

	_ = db.PurgeExpiredSessions()

	svc := service.NewTransformService(db, db)

	obs.Init()

	tmplFS := web.TemplateFS()

	funcMap := template.FuncMap{
		"version":    func() string { return version },
		"formatDate": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
	}

	publicTmpl := mustParseTemplates(tmplFS, funcMap,
		"templates/index.html", "templates/result.html", "templates/no_match.html", "templates/error.html")
	loginTmpl := mustParseTemplates(tmplFS, funcMap, "templates/login.html")
	dashboardTmpl := mustParseTemplates(tmplFS, funcMap, "templates/dashboard.html")

	publicH := handler.NewPublicHandler(svc, cfg.Proxy.BehindProxy, publicTmpl)
	authH := handler.NewAuthHandler(db, sessionMgr, cfg.Proxy.BehindProxy, loginTmpl)
	dashH := handler.NewDashboardHandler(db, sessionMgr, dashboardTmpl)
	patternH := handler.NewPatternHandler(db, sessionMgr)
	entryH := handler.NewEntryHandler(db, sessionMgr)
	userH := handler.NewUserHandler(db, sessionMgr)

	mux := http.NewServeMux()

	mux.Handle("GET /static/", web.StaticHandler())
	mux.Handle("GET /metrics", obs.Handler())

	mux.HandleFunc("GET /{$}", publicH.Index)
	mux.HandleFunc("POST /{$}", publicH.Submit)
	mux.HandleFunc("GET /view/{entryID}", publicH.View)

	mux.HandleFunc("GET /admin/login", authH.LoginPage)
	mux.HandleFunc("POST /admin/login", authH.LoginSubmit)
	mux.HandleFunc("POST /admin/logout", authH.Logout)

	mux.HandleFunc("GET /admin/dashboard", sessionMgr.RequireAuth(dashH.Dashboard))

	mux.HandleFunc("POST /admin/patterns", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(patternH.Upsert)))
	mux.HandleFunc("POST /admin/patterns/{pairID}/delete", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(patternH.Delete)))

	mux.HandleFunc("POST /admin/entries/{entryID}/reaccess", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(entryH.ToggleReaccess)))
	mux.HandleFunc("POST /admin/entries/{entryID}/delete", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(entryH.Delete)))
	mux.HandleFunc("POST /admin/entries/clear", sessionMgr.RequireAdmin(sessionMgr.ValidateCSRF(entryH.ClearAll)))

	mux.HandleFunc("POST /admin/password", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(userH.ChangePassword)))

	mux.HandleFunc("POST /admin/users", sessionMgr.RequireAdmin(sessionMgr.ValidateCSRF(userH.Create)))
	mux.HandleFunc("POST /admin/users/delete", sessionMgr.RequireAdmin(sessionMgr.ValidateCSRF(userH.Delete)))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("StringVault server starting on %s", addr)
	return http.ListenAndServe(addr, obs.Logging(obs.Instrument(mux)))
}
