package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devhuddle/doubtboard/internal/apperror"
	"github.com/devhuddle/doubtboard/internal/model"
)

func TestCommentCreateAndListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	post := createTestPost(t, db, user.ID, "a post")
	repo := NewCommentRepo(db)

	first := createTestComment(t, db, post.ID, user.ID, "first")
	time.Sleep(2 * time.Millisecond)
	second := createTestComment(t, db, post.ID, user.ID, "second")

	comments, err := repo.ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("ListByPost() returned %d comments, want 2", len(comments))
	}
	if comments[0].ID != second.ID || comments[1].ID != first.ID {
		t.Error("comments are not ordered newest first")
	}
	if comments[0].Author.ID != user.ID {
		t.Errorf("Author.ID = %q, want %q", comments[0].Author.ID, user.ID)
	}
}

func TestCommentVote_DuplicateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	post := createTestPost(t, db, user.ID, "a post")
	comment := createTestComment(t, db, post.ID, user.ID, "nice")
	repo := NewCommentRepo(db)

	for i := 0; i < 3; i++ {
		vote := &model.CommentVote{CommentID: comment.ID, UserID: user.ID, VoteType: model.VoteTypeUp}
		if err := repo.Vote(context.Background(), vote); err != nil {
			t.Fatalf("Vote() #%d error = %v", i+1, err)
		}
	}

	comments, err := repo.ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if comments[0].VoteCount != 1 {
		t.Errorf("VoteCount = %d, want 1 after repeated identical votes", comments[0].VoteCount)
	}
}

func TestCommentVote_UpAndHelpfulCoexist(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	post := createTestPost(t, db, user.ID, "a post")
	comment := createTestComment(t, db, post.ID, user.ID, "nice")
	repo := NewCommentRepo(db)

	for _, vt := range []string{model.VoteTypeUp, model.VoteTypeHelpful} {
		vote := &model.CommentVote{CommentID: comment.ID, UserID: user.ID, VoteType: vt}
		if err := repo.Vote(context.Background(), vote); err != nil {
			t.Fatalf("Vote(%s) error = %v", vt, err)
		}
	}

	comments, err := repo.ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if comments[0].VoteCount != 2 {
		t.Errorf("VoteCount = %d, want 2 for one vote of each type", comments[0].VoteCount)
	}
}

func TestCommentVote_UnknownComment(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	repo := NewCommentRepo(db)

	vote := &model.CommentVote{CommentID: "nope", UserID: user.ID, VoteType: model.VoteTypeUp}
	if err := repo.Vote(context.Background(), vote); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Vote() error = %v, want ErrNotFound", err)
	}
}

func TestCommentRemoveVote_ClearsAllTypes(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gh|1")
	other := createTestUser(t, db, "gh|2")
	post := createTestPost(t, db, user.ID, "a post")
	comment := createTestComment(t, db, post.ID, user.ID, "nice")
	repo := NewCommentRepo(db)

	for _, vt := range []string{model.VoteTypeUp, model.VoteTypeHelpful} {
		vote := &model.CommentVote{CommentID: comment.ID, UserID: user.ID, VoteType: vt}
		if err := repo.Vote(context.Background(), vote); err != nil {
			t.Fatalf("Vote() error = %v", err)
		}
	}
	otherVote := &model.CommentVote{CommentID: comment.ID, UserID: other.ID, VoteType: model.VoteTypeUp}
	if err := repo.Vote(context.Background(), otherVote); err != nil {
		t.Fatalf("Vote() error = %v", err)
	}

	if err := repo.RemoveVote(context.Background(), comment.ID, user.ID); err != nil {
		t.Fatalf("RemoveVote() error = %v", err)
	}

	comments, err := repo.ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	// Only the other user's vote remains.
	if comments[0].VoteCount != 1 {
		t.Errorf("VoteCount = %d, want 1 after removing one user's votes", comments[0].VoteCount)
	}

	// Removing again is a no-op.
	if err := repo.RemoveVote(context.Background(), comment.ID, user.ID); err != nil {
		t.Errorf("second RemoveVote() error = %v", err)
	}
}
