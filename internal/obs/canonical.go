package obs

import "strings"

// CanonicalPath collapses resource identifiers so metric labels stay bounded.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) >= 3 && parts[0] == "v1" && parts[1] == "posts":
		if len(parts) == 3 {
			return "/v1/posts/:id"
		}
		if len(parts) == 4 && parts[3] == "comments" {
			return "/v1/posts/:id/comments"
		}
	case len(parts) == 3 && parts[0] == "v1" && parts[1] == "comments":
		return "/v1/comments/:id"
	case len(parts) == 3 && parts[0] == "v1" && parts[1] == "users" && parts[2] != "me":
		return "/v1/users/:id"
	}
	return path
}
