// Package server is the HTML front end: routes, templates and flash messages
// over models.Store.
package server

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blogly/internal/models"
)

var errBadID = errors.New("malformed id")

type Server struct {
	Store *models.Store

	tmpl      map[string]*template.Template
	staticDir string
	flash     *flasher
	registry  *prometheus.Registry
	metrics   *metrics
	handler   http.Handler
}

// New parses every page in templateDir against layout.html. Static files are
// served from the static directory next to templateDir.
func New(store *models.Store, templateDir, secretKey string) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		Store:     store,
		tmpl:      templates,
		staticDir: filepath.Join(templateDir, "..", "static"),
		flash:     newFlasher(secretKey),
		registry:  reg,
		metrics:   newMetrics(reg),
	}
	s.handler = s.instrument(s.routes())
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/new", s.handleNewUserForm)
	mux.HandleFunc("POST /users/new", s.handleCreateUser)
	mux.HandleFunc("GET /users/{id}", s.handleUserDetail)
	mux.HandleFunc("GET /users/{id}/edit", s.handleEditUserForm)
	mux.HandleFunc("POST /users/{id}/edit", s.handleUpdateUser)
	mux.HandleFunc("POST /users/{id}/delete", s.handleDeleteUser)

	mux.HandleFunc("GET /users/{id}/posts/new", s.handleNewPostForm)
	mux.HandleFunc("POST /users/{id}/posts", s.handleCreatePost)
	mux.HandleFunc("GET /posts/{id}", s.handlePostDetail)
	mux.HandleFunc("GET /posts/{id}/edit", s.handleEditPostForm)
	mux.HandleFunc("POST /posts/{id}/edit", s.handleUpdatePost)
	mux.HandleFunc("POST /posts/{id}/delete", s.handleDeletePost)

	mux.HandleFunc("GET /tags", s.handleListTags)
	mux.HandleFunc("GET /tags/new", s.handleNewTagForm)
	mux.HandleFunc("POST /tags/new", s.handleCreateTag)
	mux.HandleFunc("GET /tags/{id}", s.handleTagDetail)
	mux.HandleFunc("GET /tags/{id}/edit", s.handleEditTagForm)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	t, ok := s.tmpl[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Flashes"] = s.flash.Pop(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// fail maps a store error to a response: missing records render the 404 page,
// anything else is logged and reported as a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, errBadID):
		s.render(w, r, http.StatusNotFound, "not_found", nil)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// helpers
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func formIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return nil, errBadID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
