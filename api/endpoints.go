package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gorilla/mux"

	"chirper/domain/post"
	"chirper/domain/profile"
	"chirper/service"
	"chirper/storage"
)

type HTTPHandler struct {
	service *service.Service
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type FeedResponse struct {
	Posts    []post.Hydrated `json:"posts"`
	NextPage string          `json:"nextPage,omitempty"`
}

type UsersResponse struct {
	Users []profile.Profile `json:"users"`
}

var errInvalidSize = errors.New("invalid size")

func (h *HTTPHandler) GetFeed(rw http.ResponseWriter, r *http.Request) {
	viewer := viewerId(r)
	cursor, size, err := parsePage(r)
	if err != nil {
		writeError(rw, err)
		return
	}
	filter := service.FeedFilter{}
	// unauthenticated viewers cannot have a following feed; degrade to
	// the global one
	if r.URL.Query().Get("following") == "true" && viewer != "" {
		filter.FollowedBy = viewer
	}
	page, err := h.service.FetchPage(r.Context(), filter, cursor, size, viewer)
	if err != nil {
		writeError(rw, err)
		return
	}
	writeFeed(rw, page)
}

func (h *HTTPHandler) GetPostsByUser(rw http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]
	cursor, size, err := parsePage(r)
	if err != nil {
		writeError(rw, err)
		return
	}
	page, err := h.service.ProfileFeed(r.Context(), handle, cursor, size, viewerId(r))
	if err != nil {
		writeError(rw, err)
		return
	}
	writeFeed(rw, page)
}

func (h *HTTPHandler) GetPostById(rw http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPost(r.Context(), mux.Vars(r)["postId"], viewerId(r))
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, p)
}

func (h *HTTPHandler) CreatePost(rw http.ResponseWriter, r *http.Request) {
	viewer := viewerId(r)
	if !validateUserId(viewer) {
		writeJSON(rw, http.StatusUnauthorized, ErrorResponse{Error: "invalid or empty user id"})
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(rw, http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return
	}
	p, err := h.service.CreatePost(r.Context(), viewer, body.Content)
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusCreated, p)
}

func (h *HTTPHandler) ToggleLike(rw http.ResponseWriter, r *http.Request) {
	viewer := viewerId(r)
	if !validateUserId(viewer) {
		writeJSON(rw, http.StatusUnauthorized, ErrorResponse{Error: "invalid or empty user id"})
		return
	}
	res, err := h.service.ToggleLike(r.Context(), viewer, mux.Vars(r)["postId"])
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, res)
}

func (h *HTTPHandler) GetProfile(rw http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetProfile(r.Context(), mux.Vars(r)["handle"], viewerId(r))
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, summary)
}

func (h *HTTPHandler) ToggleFollow(rw http.ResponseWriter, r *http.Request) {
	viewer := viewerId(r)
	if !validateUserId(viewer) {
		writeJSON(rw, http.StatusUnauthorized, ErrorResponse{Error: "invalid or empty user id"})
		return
	}
	res, err := h.service.ToggleFollow(r.Context(), viewer, mux.Vars(r)["handle"])
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, res)
}

func (h *HTTPHandler) GetFollowers(rw http.ResponseWriter, r *http.Request) {
	users, err := h.service.Followers(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, UsersResponse{Users: users})
}

func (h *HTTPHandler) GetFollowing(rw http.ResponseWriter, r *http.Request) {
	users, err := h.service.Following(r.Context(), mux.Vars(r)["handle"])
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, UsersResponse{Users: users})
}

func viewerId(r *http.Request) string {
	return r.Header.Get("User-Id")
}

func validateUserId(userId string) bool {
	r := regexp.MustCompile("^[0-9a-zA-Z_-]+$")
	return r.MatchString(userId)
}

func parsePage(r *http.Request) (*post.Cursor, int, error) {
	var cursor *post.Cursor
	if token := r.URL.Query().Get("page"); token != "" {
		c, err := post.ParseCursor(token)
		if err != nil {
			return nil, 0, err
		}
		cursor = c
	}
	size := 0
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		n, err := strconv.Atoi(sizeStr)
		if err != nil || n <= 0 || n > 100 {
			return nil, 0, errInvalidSize
		}
		size = n
	}
	return cursor, size, nil
}

func writeFeed(rw http.ResponseWriter, page *service.FeedPage) {
	resp := FeedResponse{Posts: page.Posts}
	if page.NextCursor != nil {
		resp.NextPage = page.NextCursor.Token()
	}
	writeJSON(rw, http.StatusOK, resp)
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	raw, _ := json.Marshal(v)
	_, _ = rw.Write(raw)
}

func writeError(rw http.ResponseWriter, err error) {
	var ve *post.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(rw, http.StatusBadRequest, ErrorResponse{Error: ve.Reason, Field: ve.Field})
	case errors.Is(err, post.ErrBadCursor):
		writeJSON(rw, http.StatusBadRequest, ErrorResponse{Error: "invalid token"})
	case errors.Is(err, errInvalidSize):
		writeJSON(rw, http.StatusBadRequest, ErrorResponse{Error: "invalid size"})
	case errors.Is(err, service.ErrSelfFollow):
		writeJSON(rw, http.StatusBadRequest, ErrorResponse{Error: "cannot follow yourself"})
	case errors.Is(err, storage.ErrPostNotFound):
		writeJSON(rw, http.StatusNotFound, ErrorResponse{Error: "post not found"})
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(rw, http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, service.ErrRateLimited):
		writeJSON(rw, http.StatusTooManyRequests, ErrorResponse{Error: "too many requests, slow down"})
	default:
		writeJSON(rw, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
