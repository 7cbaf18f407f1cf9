package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jiwasa/docs" //this is required to generate swagger docs
	"jiwasa/internal/auth"
	"jiwasa/internal/cache"
	"jiwasa/internal/mailer"
	"jiwasa/internal/ratelimiter"
	"jiwasa/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	cache         *cache.Client
	logger        *zap.SugaredLogger
	mailer        mailer.Client
	authenticator auth.Authenticator
	google        auth.GoogleVerifier
	rateLimiter   *ratelimiter.FixedWindowRateLimiter

	// now is swappable so schedule and window checks are testable.
	now func() time.Time
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	frontendURL string
	uploadDir   string
	mail        mailConfig
	auth        authConfig
	redis       redisConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic          basicConfig
	token          tokenConfig
	googleClientID string
}

type tokenConfig struct {
	secret          string
	refreshSecret   string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

type redisConfig struct {
	addr     string
	password string
	db       int
	ttl      time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	// Uploaded images are served straight from disk.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.config.uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/lugares", func(r chi.Router) {
			r.Get("/", app.listPlacesHandler)

			r.With(app.AuthTokenMiddleware, app.AdminRequiredMiddleware).
				Post("/", app.createPlaceHandler)
			r.With(app.AuthTokenMiddleware).
				Post("/sugerencias", app.suggestPlaceHandler)

			r.Route("/{lugarID}", func(r chi.Router) {
				r.Get("/", app.getPlaceHandler)
				r.With(app.AuthTokenMiddleware, app.AdminRequiredMiddleware).
					Put("/", app.updatePlaceHandler)
				r.With(app.AuthTokenMiddleware, app.AdminRequiredMiddleware).
					Delete("/", app.closePlaceHandler)

				r.Get("/platos", app.listDishesHandler)
				r.With(app.AuthTokenMiddleware, app.AdminRequiredMiddleware).
					Post("/platos", app.createDishHandler)

				r.Get("/resenas", app.listReviewsHandler)
				r.With(app.AuthTokenMiddleware).
					Post("/resenas", app.createReviewHandler)

				r.Get("/promociones", app.listPlacePromotionsHandler)
				r.With(app.AuthTokenMiddleware, app.AdminRequiredMiddleware).
					Post("/promociones", app.createPromotionHandler)
			})
		})

		r.Route("/platos", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware, app.AdminRequiredMiddleware)
			r.Put("/{platoID}", app.updateDishHandler)
			r.Delete("/{platoID}", app.deleteDishHandler)
		})

		r.With(app.AuthTokenMiddleware).
			Post("/resenas/{resenaID}/util", app.markReviewHelpfulHandler)

		r.Route("/favoritos", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listFavoritesHandler)
			r.Post("/", app.addFavoriteHandler)
			r.Delete("/lugar/{lugarID}", app.removeFavoriteHandler)
		})

		r.Route("/promociones", func(r chi.Router) {
			r.Get("/", app.listActivePromotionsHandler)
			r.With(app.AuthTokenMiddleware, app.AdminRequiredMiddleware).
				Put("/{promocionID}", app.updatePromotionHandler)
		})

		r.Route("/sponsored", func(r chi.Router) {
			r.Get("/", app.listActiveSponsoredHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware, app.AdminRequiredMiddleware)
				r.Get("/{sponsoredID}", app.getSponsoredHandler)
				r.Post("/", app.createSponsoredHandler)
				r.Put("/{sponsoredID}", app.updateSponsoredHandler)
				r.Delete("/{sponsoredID}", app.deleteSponsoredHandler)
			})
		})

		r.Route("/reportes", func(r chi.Router) {
			r.With(app.AuthTokenMiddleware).Post("/", app.createReportHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware, app.AdminRequiredMiddleware)
				r.Get("/", app.listReportsHandler)
				r.Put("/{reporteID}", app.updateReportHandler)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.registerUserHandler)
			r.Post("/login", app.loginHandler)
			r.Post("/google", app.googleLoginHandler)
			r.Post("/refresh", app.refreshTokenHandler)
			r.With(app.AuthTokenMiddleware).Post("/logout", app.logoutHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me", app.getCurrentUserHandler)
			r.Put("/me", app.updateCurrentUserHandler)
		})

		r.With(app.AuthTokenMiddleware).Post("/upload", app.uploadImageHandler)
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

		shutdown <- srv.Shutdown(ctx)
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
