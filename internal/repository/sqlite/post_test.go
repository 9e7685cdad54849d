package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devhuddle/doubtboard/internal/apperror"
	"github.com/devhuddle/doubtboard/internal/model"
)

func TestPostCreate_Defaults(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	repo := NewPostRepo(db)

	post := &model.Post{
		Title:       "Fix flaky deploy",
		Description: "Pipeline fails every other run",
		Category:    model.CategoryDevops,
		CreatedBy:   user.ID,
		Resolved:    true, // must be ignored
	}
	if err := repo.Create(context.Background(), post); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if post.ID == "" {
		t.Error("Create() did not set post.ID")
	}
	if post.Resolved {
		t.Error("Create() must force Resolved to false")
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestPostList_NewestFirstWithAuthorAndCounts(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	repo := NewPostRepo(db)

	older := createTestPost(t, db, user.ID, "older")
	time.Sleep(2 * time.Millisecond)
	newer := createTestPost(t, db, user.ID, "newer")

	createTestComment(t, db, older.ID, user.ID, "first")
	createTestComment(t, db, older.ID, user.ID, "second")

	posts, err := repo.List(context.Background(), model.PostFilters{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("List() returned %d posts, want 2", len(posts))
	}
	if posts[0].ID != newer.ID {
		t.Errorf("first post = %q, want newest %q", posts[0].Title, newer.Title)
	}
	if posts[1].CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2", posts[1].CommentCount)
	}
	if posts[0].CommentCount != 0 {
		t.Errorf("CommentCount = %d, want 0", posts[0].CommentCount)
	}
	if posts[0].Author.ID != user.ID {
		t.Errorf("Author.ID = %q, want %q", posts[0].Author.ID, user.ID)
	}
}

func TestPostList_Filters(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	repo := NewPostRepo(db)

	backend := &model.Post{Title: "goroutine leak", Description: "d", Category: model.CategoryBackend, CreatedBy: user.ID}
	frontend := &model.Post{Title: "CSS grid", Description: "d", Category: model.CategoryFrontend, CreatedBy: user.ID}
	for _, p := range []*model.Post{backend, frontend} {
		if err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := repo.ToggleResolved(context.Background(), frontend.ID, user.ID); err != nil {
		t.Fatalf("ToggleResolved() error = %v", err)
	}

	byCategory, err := repo.List(context.Background(), model.PostFilters{Category: model.CategoryBackend})
	if err != nil {
		t.Fatalf("List(category) error = %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].ID != backend.ID {
		t.Errorf("category filter returned wrong posts: %v", byCategory)
	}

	resolved := true
	byResolved, err := repo.List(context.Background(), model.PostFilters{Resolved: &resolved})
	if err != nil {
		t.Fatalf("List(resolved) error = %v", err)
	}
	if len(byResolved) != 1 || byResolved[0].ID != frontend.ID {
		t.Errorf("resolved filter returned wrong posts: %v", byResolved)
	}
}

func TestPostList_SearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	repo := NewPostRepo(db)

	match := &model.Post{Title: "Fix Xray bug", Description: "d", Category: model.CategoryBackend, CreatedBy: user.ID}
	other := &model.Post{Title: "Unrelated", Description: "nothing here", Category: model.CategoryBackend, CreatedBy: user.ID}
	for _, p := range []*model.Post{match, other} {
		if err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	posts, err := repo.List(context.Background(), model.PostFilters{Search: "xray"})
	if err != nil {
		t.Fatalf("List(search) error = %v", err)
	}
	if len(posts) != 1 || posts[0].ID != match.ID {
		t.Fatalf("search returned %d posts, want only the Xray one", len(posts))
	}

	// Search also covers the description.
	posts, err = repo.List(context.Background(), model.PostFilters{Search: "NOTHING"})
	if err != nil {
		t.Fatalf("List(search) error = %v", err)
	}
	if len(posts) != 1 || posts[0].ID != other.ID {
		t.Fatalf("description search returned %d posts, want 1", len(posts))
	}
}

func TestPostGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepo(db)

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestPostToggleResolved(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	repo := NewPostRepo(db)
	post := createTestPost(t, db, user.ID, "toggle me")

	toggled, err := repo.ToggleResolved(context.Background(), post.ID, user.ID)
	if err != nil {
		t.Fatalf("ToggleResolved() error = %v", err)
	}
	if !toggled.Resolved {
		t.Error("first toggle should set Resolved = true")
	}

	toggled, err = repo.ToggleResolved(context.Background(), post.ID, user.ID)
	if err != nil {
		t.Fatalf("second ToggleResolved() error = %v", err)
	}
	if toggled.Resolved {
		t.Error("second toggle should set Resolved = false")
	}
}

func TestPostToggleResolved_NonCreatorForbidden(t *testing.T) {
	db := newTestDB(t)
	creator := createTestUser(t, db, "gh|1")
	stranger := createTestUser(t, db, "gh|2")
	repo := NewPostRepo(db)
	post := createTestPost(t, db, creator.ID, "not yours")

	_, err := repo.ToggleResolved(context.Background(), post.ID, stranger.ID)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("ToggleResolved() error = %v, want ErrForbidden", err)
	}

	// The post must be untouched.
	got, err := repo.GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Resolved {
		t.Error("forbidden toggle must not change the post")
	}
}

func TestPostToggleResolved_UnknownPost(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	repo := NewPostRepo(db)

	_, err := repo.ToggleResolved(context.Background(), "nope", user.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ToggleResolved() error = %v, want ErrNotFound", err)
	}
}

func TestPostDelete_CascadesToCommentsAndVotes(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	postRepo := NewPostRepo(db)
	commentRepo := NewCommentRepo(db)

	post := createTestPost(t, db, user.ID, "doomed")
	comment := createTestComment(t, db, post.ID, user.ID, "a comment")
	vote := &model.CommentVote{CommentID: comment.ID, UserID: user.ID, VoteType: model.VoteTypeUp}
	if err := commentRepo.Vote(context.Background(), vote); err != nil {
		t.Fatalf("Vote() error = %v", err)
	}

	if err := postRepo.Delete(context.Background(), post.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	comments, err := commentRepo.ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comments survived post deletion: %d", len(comments))
	}

	var votes int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM comment_votes`).Scan(&votes); err != nil {
		t.Fatalf("counting votes: %v", err)
	}
	if votes != 0 {
		t.Errorf("votes survived post deletion: %d", votes)
	}

	if err := postRepo.Delete(context.Background(), post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
