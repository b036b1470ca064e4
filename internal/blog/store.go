package blog

import (
	"context"

	"inkwell.dev/internal/auth"
)

// ListFilter narrows a post listing. VisibleRoles is the set of read roles
// the caller may see; a post passes when its ReadRole is nil or is in the
// set. Offset and Limit page the result.
type ListFilter struct {
	VisibleRoles []auth.Role
	Offset       int
	Limit        int
}

// PostUpdate carries a partial post mutation. Nil fields are left as-is.
// SetReadRole distinguishes "change ReadRole to ReadRole" (possibly back
// to public) from "leave it alone".
type PostUpdate struct {
	Title       *string
	Content     *string
	ReadRole    *auth.Role
	SetReadRole bool
}

// PostStore persists posts. Implementations return ErrNotFound for missing
// ids and apply ListFilter visibility inside the query.
type PostStore interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	FindByID(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context, f ListFilter) ([]*Post, int, error)
	Update(ctx context.Context, id int64, upd PostUpdate) (*Post, error)
	Delete(ctx context.Context, id int64) error
	OwnerID(ctx context.Context, id int64) (int64, error)
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, c *Comment) (*Comment, error)
	FindByID(ctx context.Context, id int64) (*Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*Comment, error)
	Delete(ctx context.Context, id int64) error
	OwnerID(ctx context.Context, id int64) (int64, error)
}
