package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"chirper/domain/profile"
)

// HTTPProvider talks to the hosted identity service. Both lookups are a
// single GET with repeated query parameters, so a page of posts costs
// exactly one round trip regardless of how many authors it has.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type wireUser struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
}

func (h *HTTPProvider) GetUsersByID(ctx context.Context, ids []string) ([]profile.Profile, error) {
	return h.list(ctx, "user_id", ids)
}

func (h *HTTPProvider) GetUsersByHandle(ctx context.Context, handles []string) ([]profile.Profile, error) {
	return h.list(ctx, "username", handles)
}

func (h *HTTPProvider) list(ctx context.Context, param string, values []string) ([]profile.Profile, error) {
	if len(values) == 0 {
		return []profile.Profile{}, nil
	}
	q := url.Values{}
	for _, v := range values {
		q.Add(param, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/v1/users?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+h.APIKey)
	resp, err := h.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider: unexpected status %d", resp.StatusCode)
	}
	var users []wireUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, err
	}
	out := make([]profile.Profile, 0, len(users))
	for _, u := range users {
		out = append(out, profile.Profile{
			ID:        u.ID,
			Handle:    u.Username,
			AvatarURL: u.ProfileImageURL,
		})
	}
	return out, nil
}

func (h *HTTPProvider) client() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}
