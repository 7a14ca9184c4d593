package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"chirper/service"
)

func MakeServer(addr string, svc *service.Service, logger *zap.Logger) (*http.Server, error) {
	r, err := NewRouter(svc, logger)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:      r,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return srv, nil
}

func NewRouter(svc *service.Service, logger *zap.Logger) (*mux.Router, error) {
	r := mux.NewRouter()
	handler := &HTTPHandler{service: svc}

	r.HandleFunc("/api/v1/feed", handler.GetFeed).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/posts", handler.CreatePost).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/posts/{postId}", handler.GetPostById).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/posts/{postId}/like", handler.ToggleLike).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/users/{handle}", handler.GetProfile).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/users/{handle}/posts", handler.GetPostsByUser).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/users/{handle}/follow", handler.ToggleFollow).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/users/{handle}/followers", handler.GetFollowers).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/users/{handle}/following", handler.GetFollowing).Methods(http.MethodGet)

	validate, err := OpenAPIValidator()
	if err != nil {
		return nil, err
	}
	r.Use(validate)
	if logger != nil {
		r.Use(RequestLogger(logger))
	}
	return r, nil
}
