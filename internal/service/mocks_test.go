package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/devhuddle/doubtboard/internal/apperror"
	"github.com/devhuddle/doubtboard/internal/model"
	"github.com/devhuddle/doubtboard/internal/repository"
)

// Hand-written in-memory mocks for the repository interfaces. Each
// mock stores copies, never the caller's pointers, so tests cannot
// interfere with each other through shared state.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---- users ----

type mockUserRepo struct {
	users map[string]*model.User
	// err, when set, is returned by every method. Simulates the
	// database being down.
	err error
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Upsert(_ context.Context, user *model.User) error {
	if m.err != nil {
		return m.err
	}
	if user.ID == "" {
		return apperror.ValidationFailed("id", "user ID is required")
	}
	now := time.Now()
	if existing, ok := m.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

// ---- sessions ----

type mockSessionRepo struct {
	sessions map[string]*model.Session
	nextID   int
	err      error
}

var _ repository.SessionRepository = (*mockSessionRepo)(nil)

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.Session) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	session.ID = fmt.Sprintf("sess-%d", m.nextID)
	session.CreatedAt = time.Now()
	stored := *session
	m.sessions[session.ID] = &stored
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[id]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, apperror.NotFound("session", id)
	}
	result := *s
	return &result, nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(time.Now()) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// ---- posts ----

type mockPostRepo struct {
	posts  map[string]*model.Post
	nextID int
	err    error
}

var _ repository.PostRepository = (*mockPostRepo)(nil)

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*model.Post)}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	post.ID = fmt.Sprintf("post-%d", m.nextID)
	post.Resolved = false
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) List(_ context.Context, filters model.PostFilters) ([]model.PostWithAuthor, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.PostWithAuthor, 0, len(m.posts))
	for _, p := range m.posts {
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.Resolved != nil && p.Resolved != *filters.Resolved {
			continue
		}
		if filters.Search != "" {
			s := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(p.Title), s) &&
				!strings.Contains(strings.ToLower(p.Description), s) {
				continue
			}
		}
		result = append(result, model.PostWithAuthor{Post: *p})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.PostWithAuthor, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	return &model.PostWithAuthor{Post: *p}, nil
}

func (m *mockPostRepo) ToggleResolved(_ context.Context, id, requesterID string) (*model.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	if p.CreatedBy != requesterID {
		return nil, apperror.Forbidden("only the post creator can toggle resolution")
	}
	p.Resolved = !p.Resolved
	p.UpdatedAt = time.Now()
	result := *p
	return &result, nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(m.posts, id)
	return nil
}

// ---- comments ----

type mockCommentRepo struct {
	comments map[string]*model.Comment
	votes    map[string]*model.CommentVote // keyed comment|user|type
	nextID   int
	err      error
}

var _ repository.CommentRepository = (*mockCommentRepo)(nil)

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{
		comments: make(map[string]*model.Comment),
		votes:    make(map[string]*model.CommentVote),
	}
}

func (m *mockCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	comment.ID = fmt.Sprintf("comment-%d", m.nextID)
	comment.CreatedAt = time.Now()
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *mockCommentRepo) ListByPost(_ context.Context, postID string) ([]model.CommentWithAuthor, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.CommentWithAuthor, 0, len(m.comments))
	for _, c := range m.comments {
		if c.PostID != postID {
			continue
		}
		votes := 0
		for _, v := range m.votes {
			if v.CommentID == c.ID {
				votes++
			}
		}
		result = append(result, model.CommentWithAuthor{Comment: *c, VoteCount: votes})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockCommentRepo) Vote(_ context.Context, vote *model.CommentVote) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.comments[vote.CommentID]; !ok {
		return apperror.NotFound("comment", vote.CommentID)
	}
	key := vote.CommentID + "|" + vote.UserID + "|" + vote.VoteType
	if _, ok := m.votes[key]; ok {
		return nil
	}
	m.nextID++
	vote.ID = fmt.Sprintf("vote-%d", m.nextID)
	vote.CreatedAt = time.Now()
	stored := *vote
	m.votes[key] = &stored
	return nil
}

func (m *mockCommentRepo) RemoveVote(_ context.Context, commentID, userID string) error {
	if m.err != nil {
		return m.err
	}
	for key, v := range m.votes {
		if v.CommentID == commentID && v.UserID == userID {
			delete(m.votes, key)
		}
	}
	return nil
}

// ---- tips ----

type mockTipRepo struct {
	tips   map[string]*model.Tip
	likes  map[string]bool // keyed tip|user
	nextID int
	err    error
}

var _ repository.TipRepository = (*mockTipRepo)(nil)

func newMockTipRepo() *mockTipRepo {
	return &mockTipRepo{
		tips:  make(map[string]*model.Tip),
		likes: make(map[string]bool),
	}
}

func (m *mockTipRepo) Create(_ context.Context, tip *model.Tip) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	tip.ID = fmt.Sprintf("tip-%d", m.nextID)
	tip.Likes = 0
	tip.Pinned = false
	tip.CreatedAt = time.Now()
	stored := *tip
	m.tips[tip.ID] = &stored
	return nil
}

func (m *mockTipRepo) GetByID(_ context.Context, id string) (*model.Tip, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.tips[id]
	if !ok {
		return nil, apperror.NotFound("tip", id)
	}
	result := *t
	return &result, nil
}

func (m *mockTipRepo) List(_ context.Context) ([]model.TipWithAuthor, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.TipWithAuthor, 0, len(m.tips))
	for _, t := range m.tips {
		result = append(result, model.TipWithAuthor{Tip: *t})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Pinned != result[j].Pinned {
			return result[i].Pinned
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockTipRepo) Like(_ context.Context, tipID, userID string) error {
	if m.err != nil {
		return m.err
	}
	t, ok := m.tips[tipID]
	if !ok {
		return apperror.NotFound("tip", tipID)
	}
	key := tipID + "|" + userID
	if m.likes[key] {
		return nil
	}
	m.likes[key] = true
	t.Likes++
	return nil
}

func (m *mockTipRepo) Unlike(_ context.Context, tipID, userID string) error {
	if m.err != nil {
		return m.err
	}
	t, ok := m.tips[tipID]
	if !ok {
		return apperror.NotFound("tip", tipID)
	}
	key := tipID + "|" + userID
	if !m.likes[key] {
		return nil
	}
	delete(m.likes, key)
	t.Likes--
	return nil
}

// ---- stats ----

type mockStatsRepo struct {
	stats model.Stats
	err   error
}

var _ repository.StatsRepository = (*mockStatsRepo)(nil)

func (m *mockStatsRepo) Stats(_ context.Context) (*model.Stats, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := m.stats
	return &result, nil
}
