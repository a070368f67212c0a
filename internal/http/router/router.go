package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"worklog/internal/http/handlers"
	"worklog/internal/http/middleware"
	"worklog/internal/http/views"
	"worklog/internal/security"
	"worklog/internal/service"
)

// Deps carries the request-scoped collaborators into the handlers.
type Deps struct {
	Auth    *service.AuthService
	Entries *service.EntryService
	Cookies *security.CookieStore
	Views   *views.Views
	DB      handlers.Pinger
	Log     logrus.FieldLogger

	// LoginLimiter wraps POST /login when set.
	LoginLimiter func(http.Handler) http.Handler
}

func Setup(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logger(d.Log))

	authHandler := handlers.NewAuthHandler(d.Auth, d.Views, d.Cookies, d.Log)
	entryHandler := handlers.NewEntryHandler(d.Entries, d.Views, d.Cookies, d.Log)
	healthHandler := handlers.NewHealthHandler(d.DB)

	var login http.Handler = http.HandlerFunc(authHandler.Login)
	if d.LoginLimiter != nil {
		login = d.LoginLimiter(login)
	}

	r.HandleFunc("/login", authHandler.LoginForm).Methods("GET")
	r.Handle("/login", login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")
	r.HandleFunc("/healthz", healthHandler.Check).Methods("GET")

	app := r.NewRoute().Subrouter()
	app.Use(middleware.RequireAuth(d.Auth, d.Cookies, "/login", d.Log))

	app.HandleFunc("/", entryHandler.Index).Methods("GET")
	app.HandleFunc("/", entryHandler.Create).Methods("POST")
	app.HandleFunc("/new", entryHandler.New).Methods("GET")
	app.HandleFunc("/new", entryHandler.Create).Methods("POST")
	app.HandleFunc("/edit/{id:[0-9]+}", entryHandler.Edit).Methods("GET")
	app.HandleFunc("/edit/{id:[0-9]+}", entryHandler.Update).Methods("POST")
	app.HandleFunc("/delete/{id:[0-9]+}", entryHandler.Delete).Methods("GET")

	return r
}
