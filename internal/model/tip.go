package model

import "time"

// Tip is a short piece of community advice, independent of any post.
// Likes is a denormalized counter kept in step with the tip_likes rows
// inside the same transaction as each like/unlike. Pinned is always
// false at creation; no API sets it. It is flipped administratively in
// the database and only affects ordering.
type Tip struct {
	ID        string    `json:"id"        db:"id"`
	Content   string    `json:"content"   db:"content"`
	PostedBy  string    `json:"postedBy"  db:"posted_by"`
	Likes     int       `json:"likes"     db:"likes"`
	Pinned    bool      `json:"pinned"    db:"pinned"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TipWithAuthor joins a tip with its author for list responses.
type TipWithAuthor struct {
	Tip
	Author User `json:"author"`
}

// TipLike records which user liked which tip; it drives the counter.
type TipLike struct {
	ID        string    `json:"id"        db:"id"`
	TipID     string    `json:"tipId"     db:"tip_id"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateTipRequest is the JSON body for POST /api/tips.
type CreateTipRequest struct {
	Content string `json:"content" validate:"required"`
}

// Stats are the sidebar aggregate counts, each computed independently.
type Stats struct {
	OpenDoubts    int `json:"openDoubts"`
	ResolvedToday int `json:"resolvedToday"`
	TipsShared    int `json:"tipsShared"`
}
