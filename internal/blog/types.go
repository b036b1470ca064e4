// Package blog holds the content domain: posts with per-post minimum read
// roles, and comments attached to posts. Authorization decisions live in
// the authz package; this package supplies the object metadata those
// decisions are made over.
package blog

import (
	"errors"
	"time"

	"inkwell.dev/internal/auth"
)

var (
	ErrNotFound     = errors.New("blog: not found")
	ErrInvalidInput = errors.New("blog: invalid input")
)

const (
	maxTitleLen   = 200
	maxContentLen = 50000
)

// Post is a published article. ReadRole is the minimum role required to
// read it; nil means public, anonymous readers included.
type Post struct {
	ID        int64      `json:"id"`
	AuthorID  int64      `json:"authorId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ReadRole  *auth.Role `json:"readPermission"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Comment is a reader remark attached to a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
