// Package httpapi serves the kanban entities over a JSON HTTP API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/lifecycle"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/validation"
)

// ActorHeader names the user a request acts as. There is no authentication:
// the user is created on first use.
const ActorHeader = "X-Kanban-User"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *db.Store
	svc      *lifecycle.Service
	validate *validation.Validator
	router   *chi.Mux
	logger   *slog.Logger
}

// Options configures NewServer.
type Options struct {
	CORSOrigins []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *db.Store, svc *lifecycle.Service, logger *slog.Logger, opts Options) *Server {
	s := &Server{
		store:    store,
		svc:      svc,
		validate: validation.New(),
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware(opts)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware(opts Options) {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", ActorHeader},
		MaxAge:         300,
	}))
	s.router.Use(s.resolveActor)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.ok(w, map[string]string{"status": "ok"})
	})

	s.router.Route("/boards", func(r chi.Router) {
		r.Get("/", s.handleListBoards)
		r.Post("/", s.handleCreateBoard)
		r.Get("/{id}", s.handleGetBoard)
		r.Patch("/{id}", s.handleUpdateBoard)
		r.Delete("/{id}", deleteByID(s, s.store.DeleteBoard))
		r.Post("/{id}/archive", s.handleArchiveBoard(true))
		r.Post("/{id}/restore", s.handleArchiveBoard(false))
		r.Get("/{id}/export", s.handleExportBoard)
		r.Get("/{id}/activity", s.handleActivity(db.EntityBoard))
	})

	s.router.Route("/containers", func(r chi.Router) {
		r.Get("/", s.handleListContainers)
		r.Post("/", s.handleCreateContainer)
		r.Get("/{id}", s.handleGetContainer)
		r.Patch("/{id}", s.handleUpdateContainer)
		r.Delete("/{id}", deleteByID(s, s.store.DeleteContainer))
		r.Post("/{id}/move", s.handleMoveContainer)
		r.Post("/{id}/archive", s.handleArchiveContainer(true))
		r.Post("/{id}/restore", s.handleArchiveContainer(false))
		r.Get("/{id}/activity", s.handleActivity(db.EntityContainer))
	})

	s.router.Route("/cards", func(r chi.Router) {
		r.Get("/", s.handleListCards)
		r.Post("/", s.handleCreateCard)
		r.Get("/{id}", s.handleGetCard)
		r.Patch("/{id}", s.handleUpdateCard)
		r.Delete("/{id}", deleteByID(s, s.store.DeleteCard))
		r.Post("/{id}/move", s.handleMoveCard)
		r.Post("/{id}/links", s.handleLinkCard(true))
		r.Post("/{id}/unlink", s.handleLinkCard(false))
		r.Post("/{id}/archive", s.handleArchiveCard(true))
		r.Post("/{id}/restore", s.handleArchiveCard(false))
		r.Get("/{id}/activity", s.handleActivity(db.EntityCard))
	})

	s.router.Route("/members", func(r chi.Router) {
		r.Get("/", s.handleListMembers)
		r.Post("/", s.handleCreateMember)
		r.Get("/{id}", s.handleGetMember)
		r.Patch("/{id}", s.handleUpdateMember)
		r.Delete("/{id}", deleteByID(s, s.store.DeleteMember))
	})

	s.router.Route("/labels", func(r chi.Router) {
		r.Get("/", s.handleListLabels)
		r.Post("/", s.handleCreateLabel)
		r.Get("/{id}", s.handleGetLabel)
		r.Patch("/{id}", s.handleUpdateLabel)
		r.Delete("/{id}", deleteByID(s, s.store.DeleteLabel))
	})

	s.router.Route("/tags", func(r chi.Router) {
		r.Get("/", s.handleListTags)
		r.Post("/", s.handleCreateTag)
		r.Get("/{id}", s.handleGetTag)
		r.Patch("/{id}", s.handleUpdateTag)
		r.Delete("/{id}", deleteByID(s, s.store.DeleteTag))
	})

	s.router.Route("/attachment-types", func(r chi.Router) {
		r.Get("/", s.handleListAttachmentTypes)
		r.Post("/", s.handleCreateAttachmentType)
		r.Get("/{id}", s.handleGetAttachmentType)
		r.Patch("/{id}", s.handleUpdateAttachmentType)
		r.Delete("/{id}", deleteByID(s, s.store.DeleteAttachmentType))
	})

	s.router.Route("/attachments", func(r chi.Router) {
		r.Get("/", s.handleListAttachments)
		r.Post("/", s.handleCreateAttachment)
		r.Get("/{id}", s.handleGetAttachment)
		r.Patch("/{id}", s.handleUpdateAttachment)
		r.Delete("/{id}", deleteByID(s, s.store.DeleteAttachment))
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Get("/me", s.handleCurrentUser)
		r.Get("/{id}", s.handleGetUser)
	})
}

// requestLogger logs one line per request through the server's slog logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type contextKey string

const contextKeyActor contextKey = "actor"

// resolveActor attaches the user named by ActorHeader to the request context.
// Requests that change state must name a user.
func (s *Server) resolveActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get(ActorHeader)
		if name == "" {
			if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions {
				s.fail(w, r, domainerrors.Validationf("%s header is required", ActorHeader))
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		u, err := s.store.FindOrCreateUser(r.Context(), name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), contextKeyActor, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorFrom returns the user attached by resolveActor, or nil.
func actorFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(contextKeyActor).(*model.User)
	return u
}

func actorRef(r *http.Request) model.UserRef {
	if u := actorFrom(r.Context()); u != nil {
		return u.Ref()
	}
	return 0
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int, error) {
	id, err := model.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, domainerrors.Validationf("%v", err)
	}
	return id, nil
}

// queryInt parses an optional positive integer query parameter.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, domainerrors.Validationf("query parameter %s must be a positive integer", key)
	}
	return n, nil
}

// queryInts parses every value of a repeated query parameter.
func queryInts(r *http.Request, key string) ([]int, error) {
	raw := r.URL.Query()[key]
	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, domainerrors.Validationf("query parameter %s must be a positive integer", key)
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
