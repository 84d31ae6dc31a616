package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/migraplan/portal-server/internal/api/http/handler"
	"github.com/migraplan/portal-server/internal/api/http/middleware"
	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
	"github.com/migraplan/portal-server/internal/service"
)

// Router wires the portal's HTTP handlers and middleware. It manages
// route registration and the shared middleware stack.
type Router struct {
	authService     *service.Auth
	tokenService    *service.TokenService
	provisioning    *service.Provisioning
	passwordChange  *service.PasswordChange
	documentService *service.Document
	profileStore    model.ProfileStore
	contextManager  model.ContextManager
	logger          *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	tokenService *service.TokenService,
	provisioning *service.Provisioning,
	passwordChange *service.PasswordChange,
	documentService *service.Document,
	profileStore model.ProfileStore,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		tokenService:    tokenService,
		provisioning:    provisioning,
		passwordChange:  passwordChange,
		documentService: documentService,
		profileStore:    profileStore,
		contextManager:  contextManager,
		logger:          logger,
	}
}

// Register builds the chi mux with all middleware and routes.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.profileStore, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.tokenService, r.logger)
	clientHandler := handler.NewClient(r.provisioning, r.contextManager, r.logger)
	passwordChangeHandler := handler.NewPasswordChange(r.passwordChange, r.profileStore, r.contextManager, r.logger)
	documentHandler := handler.NewDocument(r.documentService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(chimiddleware.Timeout(60 * time.Second))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/refresh", authHandler.Refresh)
			auth.Post("/logout", authHandler.Logout)
		})

		api.Group(func(authed chi.Router) {
			authed.Use(authenticate.Handle)

			authed.Get("/password-change", passwordChangeHandler.Check)
			authed.Post("/password-change", passwordChangeHandler.Change)

			authed.Route("/clients/me", func(me chi.Router) {
				me.Get("/", clientHandler.Me)
				me.Put("/form", clientHandler.CompleteForm)

				me.Route("/documents", func(documents chi.Router) {
					documents.Post("/", documentHandler.Upload)
					documents.Get("/", documentHandler.List)
					documents.Get("/{documentID}", documentHandler.Download)
					documents.Delete("/{documentID}", documentHandler.Delete)
				})
			})

			authed.Route("/admin", func(admin chi.Router) {
				admin.Use(authenticate.RequireAdmin)
				admin.Post("/clients", clientHandler.Create)
				admin.Get("/clients", clientHandler.List)
			})
		})
	})

	return mux
}
