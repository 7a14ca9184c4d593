package storage

import "errors"

var ErrPostNotFound = errors.New("post not found")
var ErrAlreadyLiked = errors.New("like already exists")
