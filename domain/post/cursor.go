package post

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrBadCursor = errors.New("malformed cursor token")

// Cursor identifies the last-seen item of a page. Both fields are
// required: createdAt alone cannot break ties between posts that share
// a timestamp.
type Cursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

// Token encodes the cursor as "<unixMillis>-<postId>". Post ids may
// themselves contain dashes, so parsing splits on the first dash only.
func (c Cursor) Token() string {
	return strconv.FormatInt(c.CreatedAt.UnixMilli(), 10) + "-" + c.ID
}

func ParseCursor(token string) (*Cursor, error) {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, ErrBadCursor
	}
	millis, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, ErrBadCursor
	}
	return &Cursor{
		CreatedAt: time.UnixMilli(millis).UTC(),
		ID:        parts[1],
	}, nil
}
