package sqlite

import (
	"context"
	"testing"

	"github.com/devhuddle/doubtboard/internal/model"
)

// newTestDB opens a fresh ":memory:" database for one test. It lives
// only for the duration of the test and needs no cleanup beyond closing
// the connection.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, id string) *model.User {
	t.Helper()
	user := &model.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := NewUserRepo(db).Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, db *DB, userID, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		Title:       title,
		Description: "description of " + title,
		Category:    model.CategoryBackend,
		CreatedBy:   userID,
	}
	if err := NewPostRepo(db).Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

func createTestComment(t *testing.T, db *DB, postID, userID, content string) *model.Comment {
	t.Helper()
	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := NewCommentRepo(db).Create(context.Background(), comment); err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}
	return comment
}

func createTestTip(t *testing.T, db *DB, userID, content string) *model.Tip {
	t.Helper()
	tip := &model.Tip{
		Content:  content,
		PostedBy: userID,
	}
	if err := NewTipRepo(db).Create(context.Background(), tip); err != nil {
		t.Fatalf("failed to create test tip: %v", err)
	}
	return tip
}
