// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package forum_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/forum"
	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/blob"
)

const (
	memberID = "member-1"
	otherID  = "member-2"
	adminID  = "admin-1"
)

var (
	member = forum.Actor{ID: memberID}
	other  = forum.Actor{ID: otherID}
	admin  = forum.Actor{ID: adminID, Admin: true}
)

// memoryRepository mimics the Postgres ordering with a ticking clock.
type memoryRepository struct {
	mu       sync.Mutex
	now      time.Time
	posts    map[string]*forum.Post
	comments map[string]*forum.Comment
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		now:      time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		posts:    map[string]*forum.Post{},
		comments: map[string]*forum.Comment{},
	}
}

func (repository *memoryRepository) tick() time.Time {
	repository.now = repository.now.Add(time.Minute)
	return repository.now
}

func usernameOf(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

func (repository *memoryRepository) List(_ context.Context, category string, limit, offset int) ([]*forum.Post, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*forum.Post
	for _, post := range repository.posts {
		if category == forum.CategoryAll || string(post.Category) == category {
			copied := *post
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		iNotice, jNotice := matched[i].Category == forum.CategoryNotice, matched[j].Category == forum.CategoryNotice
		if iNotice != jNotice {
			return iNotice
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*forum.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	post, ok := repository.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	copied := *post
	return &copied, nil
}

func (repository *memoryRepository) Create(_ context.Context, post *forum.Post) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	post.Author = usernameOf(post.AuthorID)
	post.CreatedAt = repository.tick()
	post.UpdatedAt = post.CreatedAt
	copied := *post
	repository.posts[post.ID] = &copied
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, post *forum.Post) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.posts[post.ID]; !ok {
		return apperr.NotFound("Post")
	}
	post.UpdatedAt = repository.tick()
	copied := *post
	repository.posts[post.ID] = &copied
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.posts[id]; !ok {
		return apperr.NotFound("Post")
	}
	delete(repository.posts, id)
	for commentID, comment := range repository.comments {
		if comment.PostID == id {
			delete(repository.comments, commentID)
		}
	}
	return nil
}

func (repository *memoryRepository) ListComments(_ context.Context, postID string) ([]forum.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	comments := []forum.Comment{}
	for _, comment := range repository.comments {
		if comment.PostID == postID {
			comments = append(comments, *comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (repository *memoryRepository) FindComment(_ context.Context, id string) (*forum.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	comment, ok := repository.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	copied := *comment
	return &copied, nil
}

func (repository *memoryRepository) CreateComment(_ context.Context, comment *forum.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	comment.Author = usernameOf(comment.AuthorID)
	comment.CreatedAt = repository.tick()
	copied := *comment
	repository.comments[comment.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteComment(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repository.comments, id)
	return nil
}

func newService(blobs blob.Store) *forum.Service {
	return forum.NewService(newMemoryRepository(), blobs, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func post(t *testing.T, service *forum.Service, actor forum.Actor, category forum.Category, title string) *forum.Post {
	t.Helper()
	created, err := service.Create(context.Background(), actor, forum.PostInput{Category: category, Title: title, Content: "body"})
	require.NoError(t, err)
	return created
}

func titles(posts []*forum.Post) []string {
	out := make([]string, 0, len(posts))
	for _, post := range posts {
		out = append(out, post.Title)
	}
	return out
}

// # Tests

/*
TestService_List verifies that notices are pinned only on the combined board.
*/
func TestService_List(t *testing.T) {
	service := newService(nil)
	ctx := context.Background()

	post(t, service, member, forum.CategorySale, "sale 1")
	post(t, service, admin, forum.CategoryNotice, "notice 1")
	post(t, service, member, forum.CategoryLog, "log 1")
	post(t, service, admin, forum.CategoryNotice, "notice 2")
	post(t, service, other, forum.CategorySale, "sale 2")

	tests := []struct {
		name     string
		category string
		limit    int
		offset   int
		want     []string
		total    int
	}{
		{"all", "all", 10, 0, []string{"notice 2", "notice 1", "sale 2", "log 1", "sale 1"}, 5},
		{"default_is_all", "", 2, 0, []string{"notice 2", "notice 1"}, 5},
		{"second_page", "all", 2, 2, []string{"sale 2", "log 1"}, 5},
		{"sale_only", "sale", 10, 0, []string{"sale 2", "sale 1"}, 2},
		{"empty_category", "buy", 10, 0, []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, total, err := service.List(ctx, tt.category, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(posts))
			assert.Equal(t, tt.total, total)
		})
	}

	_, _, err := service.List(ctx, "gossip", 10, 0)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

/*
TestService_Permissions covers who may post notices and who may edit or delete.
*/
func TestService_Permissions(t *testing.T) {
	service := newService(nil)
	ctx := context.Background()

	_, err := service.Create(ctx, member, forum.PostInput{Category: forum.CategoryNotice, Title: "Hi", Content: "x"})
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))

	_, err = service.Create(ctx, member, forum.PostInput{Category: "gossip", Title: " ", Content: ""})
	require.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	assert.Len(t, apperr.As(err).Details, 3)

	owned := post(t, service, member, forum.CategoryInfo, "Mat recipe")

	_, err = service.Update(ctx, other, owned.ID, forum.PostInput{Category: forum.CategoryInfo, Title: "Mine now", Content: "x"})
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))

	_, err = service.Update(ctx, member, owned.ID, forum.PostInput{Category: forum.CategoryNotice, Title: "Promote", Content: "x"})
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))

	updated, err := service.Update(ctx, admin, owned.ID, forum.PostInput{Category: forum.CategoryNotice, Title: " Pinned ", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Pinned", updated.Title)
	assert.Equal(t, forum.CategoryNotice, updated.Category)
	assert.Equal(t, memberID, updated.AuthorID)

	assert.True(t, apperr.HasCode(service.Delete(ctx, other, owned.ID), "FORBIDDEN"))
	require.NoError(t, service.Delete(ctx, member, owned.ID))
	assert.True(t, apperr.HasCode(service.Delete(ctx, member, owned.ID), "NOT_FOUND"))
}

/*
TestService_Comments verifies comment ordering and deletion rights.
*/
func TestService_Comments(t *testing.T) {
	service := newService(nil)
	ctx := context.Background()
	target := post(t, service, member, forum.CategoryLog, "Day 1")

	first, err := service.AddComment(ctx, other, target.ID, " nice ")
	require.NoError(t, err)
	assert.Equal(t, "nice", first.Content)
	_, err = service.AddComment(ctx, member, target.ID, "thanks")
	require.NoError(t, err)

	_, err = service.AddComment(ctx, member, target.ID, "   ")
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
	_, err = service.AddComment(ctx, member, "missing", "hello")
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

	loaded, err := service.Get(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Comments, 2)
	assert.Equal(t, "nice", loaded.Comments[0].Content)
	assert.Equal(t, "member2", loaded.Comments[0].Author)
	assert.Equal(t, 2, loaded.CommentCount)

	assert.True(t, apperr.HasCode(service.DeleteComment(ctx, member, target.ID, first.ID), "FORBIDDEN"))
	assert.True(t, apperr.HasCode(service.DeleteComment(ctx, other, "another-post", first.ID), "NOT_FOUND"))
	require.NoError(t, service.DeleteComment(ctx, admin, target.ID, first.ID))

	loaded, err = service.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Comments, 1)
}

/*
TestService_PublishListing verifies that collection listings become sale posts.
*/
func TestService_PublishListing(t *testing.T) {
	service := newService(nil)
	ctx := context.Background()

	id, err := service.PublishListing(ctx, memberID, lineage.Listing{Title: "[For sale] MK: 2 individuals", Body: "#1 male"})
	require.NoError(t, err)

	published, err := service.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, forum.CategorySale, published.Category)
	assert.Equal(t, "[For sale] MK: 2 individuals", published.Title)
	assert.Equal(t, memberID, published.AuthorID)
}

/*
TestService_UploadImage verifies content type checks and key layout.
*/
func TestService_UploadImage(t *testing.T) {
	ctx := context.Background()

	_, err := newService(nil).UploadImage(ctx, member, "a.png", "image/png", strings.NewReader("png"))
	assert.True(t, apperr.HasCode(err, "SERVICE_UNAVAILABLE"))

	store := blob.NewMemory("/media")
	service := newService(store)

	_, err = service.UploadImage(ctx, member, "notes.txt", "text/plain", strings.NewReader("hi"))
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	url, err := service.UploadImage(ctx, member, "My Beetle.JPG", "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/forum/member-1/"), url)
	assert.True(t, strings.HasSuffix(url, "-my-beetle.jpg"), url)
	assert.Len(t, store.Keys(), 1)
}
