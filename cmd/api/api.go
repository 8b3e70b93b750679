package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"eventreview/docs" //this is required to generate swagger docs
	"eventreview/internal/auth"
	"eventreview/internal/domain/storage"
	"eventreview/internal/mailer"
	"eventreview/internal/metrics"
	"eventreview/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	wg            sync.WaitGroup
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
	bootstrap   adminBootstrapConfig
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	smtp            mailer.SMTPConfig
	moderationEmail string
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleTime  string
	autoMigrate  bool
}

type adminBootstrapConfig struct {
	email    string
	password string
}

// route is one row of the dispatch table. A nil roles slice means the route is
// public; otherwise the bearer token must belong to one of the roles.
type route struct {
	method  string
	pattern string
	roles   []auth.Role
	handler http.HandlerFunc
}

var (
	anyRole       = []auth.Role{auth.RoleUser, auth.RoleOrganizer, auth.RoleAdmin}
	organizerRole = []auth.Role{auth.RoleOrganizer}
	adminRole     = []auth.Role{auth.RoleAdmin}
)

func (app *application) routes() []route {
	return []route{
		{http.MethodGet, "/users", anyRole, app.getUsersHandler},
		{http.MethodPost, "/users", nil, app.createUserHandler},
		{http.MethodPost, "/userlogin", nil, app.createUserTokenHandler},
		{http.MethodPost, "/organizerlogin", nil, app.createOrganizerTokenHandler},
		{http.MethodPost, "/adminlogin", nil, app.createAdminTokenHandler},

		{http.MethodGet, "/events", nil, app.getEventsHandler},
		{http.MethodPost, "/events", nil, app.createEventHandler},
		{http.MethodGet, "/events/{eventID}/reviews", nil, app.getEventReviewsHandler},
		{http.MethodPost, "/events/{eventID}/reviews", nil, app.createEventReviewHandler},

		{http.MethodGet, "/organizers", nil, app.getOrganizersHandler},
		{http.MethodPost, "/organizers", nil, app.createOrganizerHandler},
		{http.MethodGet, "/organizers/{organizerID}/reviews", []auth.Role{auth.RoleOrganizer, auth.RoleAdmin}, app.getOrganizerReviewsHandler},

		{http.MethodGet, "/reviews/{reviewID}/responses", nil, app.getReviewResponsesHandler},
		{http.MethodPost, "/reviews/{reviewID}/responses", nil, app.createReviewResponseHandler},
		{http.MethodPost, "/reviews/{reviewID}/like", nil, app.likeReviewHandler},
		{http.MethodPost, "/reviews/{reviewID}/report", nil, app.reportReviewHandler},
		{http.MethodPost, "/reviews/{reviewID}/response", organizerRole, app.createOrganizerResponseHandler},

		{http.MethodPost, "/admin/organizers/{organizerID}/validate", adminRole, app.validateOrganizerHandler},
		{http.MethodPost, "/admin/organizers/{organizerID}/revoke", adminRole, app.revokeOrganizerHandler},
	}
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(app.RateLimiterMiddleware)

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/v1/swagger/doc.json", app.config.apiURL)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		r.With(app.BasicAuthMiddleware()).Handle("/metrics", metrics.Handler())

		for _, rt := range app.routes() {
			if rt.roles == nil {
				r.Method(rt.method, rt.pattern, rt.handler)
				continue
			}
			r.With(app.AuthTokenMiddleware, app.RequireRoles(rt.roles...)).
				Method(rt.method, rt.pattern, rt.handler)
		}
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		if err := srv.Shutdown(ctx); err != nil {
			shutdown <- err
			return
		}

		app.logger.Infow("completing background tasks", "addr", srv.Addr)
		app.wg.Wait()
		shutdown <- nil
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
