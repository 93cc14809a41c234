// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package forum

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/blob"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
	"github.com/taibuivan/beetlekeeper/pkg/slug"
	"github.com/taibuivan/beetlekeeper/pkg/uuid"
)

// Service implements the board rules.
type Service struct {
	repository Repository
	blobs      blob.Store
	logger     *slog.Logger
}

// NewService constructs a forum [Service]. blobs may be nil, which disables
// image uploads.
func NewService(repository Repository, blobs blob.Store, logger *slog.Logger) *Service {
	return &Service{repository: repository, blobs: blobs, logger: logger}
}

// # Input

// PostInput is the editable part of a post.
type PostInput struct {
	Category Category
	Title    string
	Content  string
	ImageURL string
}

// normalized trims the text fields.
func (input PostInput) normalized() PostInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	return input
}

func (input PostInput) validate(actor Actor) error {
	validator := &validate.Validator{}
	validator.Custom(FieldCategory, !input.Category.Valid(), "Must be one of: notice, sale, buy, info, log").
		Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return err
	}

	if input.Category == CategoryNotice && !actor.Admin {
		return apperr.Forbidden("Only administrators can post notices")
	}
	return nil
}

// # Posts

/*
List returns one page of the board.

Parameters:
  - context: context.Context
  - category: string ("all", empty, or a category)
  - limit, offset: int

Returns:
  - []*Post: Posts without comments
  - int: Total matching posts
  - error: ValidationError for an unknown category, or retrieval failures
*/
func (service *Service) List(context context.Context, category string, limit, offset int) ([]*Post, int, error) {
	if category == "" {
		category = CategoryAll
	}
	if category != CategoryAll && !Category(category).Valid() {
		return nil, 0, validate.RequiredError(FieldCategory, "Must be one of: all, notice, sale, buy, info, log")
	}
	return service.repository.List(context, category, limit, offset)
}

// Get returns a post with its comments.
func (service *Service) Get(context context.Context, id string) (*Post, error) {
	post, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	comments, err := service.repository.ListComments(context, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	post.CommentCount = len(comments)
	return post, nil
}

/*
Create publishes a post as actor.

Returns:
  - *Post: The stored post
  - error: ValidationError, Forbidden (notice by a member) or storage failures
*/
func (service *Service) Create(context context.Context, actor Actor, input PostInput) (*Post, error) {
	input = input.normalized()
	if err := input.validate(actor); err != nil {
		return nil, err
	}

	post := &Post{
		ID:       uuid.New(),
		AuthorID: actor.ID,
		Category: input.Category,
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
	}
	if err := service.repository.Create(context, post); err != nil {
		return nil, err
	}

	service.logger.Info("forum_post_created",
		slog.String("post_id", post.ID),
		slog.String("author_id", actor.ID),
		slog.String("category", string(post.Category)),
	)
	return post, nil
}

/*
Update replaces the editable fields of a post. Only the author or an
administrator may edit, and only administrators may move a post to notices.

Returns:
  - *Post: The updated post
  - error: NotFound, Forbidden, ValidationError or storage failures
*/
func (service *Service) Update(context context.Context, actor Actor, id string, input PostInput) (*Post, error) {
	post, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !actor.canModify(post.AuthorID) {
		return nil, apperr.Forbidden("Only the author can edit this post")
	}

	input = input.normalized()
	if err := input.validate(actor); err != nil {
		return nil, err
	}

	post.Category = input.Category
	post.Title = input.Title
	post.Content = input.Content
	post.ImageURL = input.ImageURL
	if err := service.repository.Update(context, post); err != nil {
		return nil, err
	}

	service.logger.Info("forum_post_updated", slog.String("post_id", id), slog.String("actor_id", actor.ID))
	return post, nil
}

// Delete removes a post and its comments. Author or administrator only.
func (service *Service) Delete(context context.Context, actor Actor, id string) error {
	post, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}
	if !actor.canModify(post.AuthorID) {
		return apperr.Forbidden("Only the author can delete this post")
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("forum_post_deleted", slog.String("post_id", id), slog.String("actor_id", actor.ID))
	return nil
}

// # Comments

// AddComment replies to a post.
func (service *Service) AddComment(context context.Context, actor Actor, postID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxCommentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.repository.FindByID(context, postID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: actor.ID,
		Content:  content,
	}
	if err := service.repository.CreateComment(context, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. Author or administrator only.
func (service *Service) DeleteComment(context context.Context, actor Actor, postID, commentID string) error {
	comment, err := service.repository.FindComment(context, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return apperr.NotFound("Comment")
	}
	if !actor.canModify(comment.AuthorID) {
		return apperr.Forbidden("Only the author can delete this comment")
	}
	return service.repository.DeleteComment(context, commentID)
}

// # Images

/*
UploadImage stores a picture for a post and returns its public URL. The URL
is then sent as image_url when the post is created or edited.

Returns:
  - string: Public URL
  - error: ValidationError for unsupported types, ServiceUnavailable, storage failures
*/
func (service *Service) UploadImage(context context.Context, actor Actor, filename, contentType string, body io.Reader) (string, error) {
	if service.blobs == nil {
		return "", apperr.ServiceUnavailable("Image storage is not configured")
	}

	extension, ok := blob.ImageExtension(contentType)
	if !ok {
		return "", apperr.ValidationError("Only JPEG, PNG, GIF and WebP images are accepted")
	}

	key := fmt.Sprintf("forum/%s/%s-%s%s", actor.ID, uuid.New(), slug.FileBase(filename), extension)

	info, err := service.blobs.Put(context, key, body, blob.PutOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("forum_image_upload_failed: %w", err)
	}
	return info.URL, nil
}

// # Collection Listings

// PublishListing posts a composed sale listing under the sale category and
// returns the new post id.
func (service *Service) PublishListing(context context.Context, authorID string, listing lineage.Listing) (string, error) {
	post, err := service.Create(context, Actor{ID: authorID}, PostInput{
		Category: CategorySale,
		Title:    listing.Title,
		Content:  listing.Body,
	})
	if err != nil {
		return "", err
	}
	return post.ID, nil
}
