package model

import "time"

// Post categories recognised by the API. Stored as plain text; the
// handler layer rejects anything outside this set.
const (
	CategoryBackend  = "backend"
	CategoryFrontend = "frontend"
	CategoryDevops   = "devops"
)

// ValidCategory reports whether c is one of the recognised categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryBackend, CategoryFrontend, CategoryDevops:
		return true
	}
	return false
}

// Post is a coding doubt: a question another collaborator can help with.
// Description holds raw markdown source; rendering is a client concern.
// Resolved starts false and may only be flipped by the creator.
type Post struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category"    db:"category"`
	ImageURL    string    `json:"imageUrl"    db:"image_url"`
	CreatedBy   string    `json:"createdBy"   db:"created_by"`
	Resolved    bool      `json:"resolved"    db:"resolved"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// PostWithAuthor is the read projection returned by list/get queries:
// the post joined with its author plus a comment count computed at read
// time. The count is never stored, so it is always consistent with the
// comment rows at the moment of the query.
type PostWithAuthor struct {
	Post
	Author       User `json:"author"`
	CommentCount int  `json:"commentCount"`
}

// PostFilters narrows getPosts results. All fields are optional and
// combined as a conjunction. Resolved is a pointer so "no filter" and
// "resolved=false" stay distinguishable.
type PostFilters struct {
	Category string
	Resolved *bool
	Search   string // case-insensitive substring on title OR description
}

// CreatePostRequest is the multipart form shape for POST /api/posts.
// The image part is handled separately by the upload store.
type CreatePostRequest struct {
	Title       string `validate:"required,max=300"`
	Description string `validate:"required"`
	Category    string `validate:"required,oneof=backend frontend devops"`
}
