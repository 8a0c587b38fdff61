package server

import (
	"bskyposts/feed"
	"bskyposts/monitoring"
	"bskyposts/monitoring/middleware"
	"bskyposts/render"
	"bytes"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
	"time"
)

type Server struct {
	fetcher *feed.Fetcher
	handle  string
	port    int
}

// NewServer serves the original posts of handle, or of the account named by
// the "handle" query parameter when present.
func NewServer(fetcher *feed.Fetcher, handle string, port int) *Server {
	return &Server{
		fetcher: fetcher,
		handle:  handle,
		port:    port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.getPostsPage)
	mux.HandleFunc("/posts.json", s.getPostsJson)
	mux.Handle("/metrics", promhttp.HandlerFor(monitoring.Registry, promhttp.HandlerOpts{}))

	return middleware.NewServerMiddleware(mux)
}

func (s *Server) Run() error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
	}

	log.Warnf("Serving posts of '%s' on %s", s.handle, server.Addr)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) getPostsPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		sendError(w, http.StatusNotFound, "not found")
		return
	}

	handle := s.requestedHandle(r)
	posts, err := s.fetcher.FetchOriginalPosts(r.Context(), handle)
	if err != nil {
		sendFetchError(w, err)
		return
	}

	var page bytes.Buffer
	if err := render.Page(&page, "Posts of "+handle, posts); err != nil {
		log.Errorf("Error rendering page: %v", err)
		sendError(w, http.StatusInternalServerError, "could not render posts")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page.Bytes())
}

func (s *Server) getPostsJson(w http.ResponseWriter, r *http.Request) {
	posts, err := s.fetcher.FetchOriginalPosts(r.Context(), s.requestedHandle(r))
	if err != nil {
		sendFetchError(w, err)
		return
	}

	jsonResp, err := render.JSONString(posts)
	if err != nil {
		log.Errorf("Error rendering json: %v", err)
		sendError(w, http.StatusInternalServerError, "could not render posts")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(jsonResp))
}

func (s *Server) requestedHandle(r *http.Request) string {
	if handle := getQueryItem(r.URL.Query(), "handle"); handle != "" {
		return handle
	}
	return s.handle
}
