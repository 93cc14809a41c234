// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package forum

import "context"

// Repository defines persistence for posts and comments.
type Repository interface {

	/*
		List returns one page of posts without comments.

		Parameters:
		  - context: context.Context
		  - category: A [Category], or [CategoryAll] for the combined board
		  - limit, offset: int

		Returns:
		  - []*Post: Notices first on the combined board, then newest first
		  - int: Total matching posts
		  - error: Retrieval failures
	*/
	List(context context.Context, category string, limit, offset int) ([]*Post, int, error)

	// FindByID returns a post without comments, or apperr.NotFound.
	FindByID(context context.Context, id string) (*Post, error)

	// Create inserts a post and fills in its timestamps.
	Create(context context.Context, post *Post) error

	// Update stores new category, title, content and image of a post.
	Update(context context.Context, post *Post) error

	// Delete removes a post together with its comments.
	Delete(context context.Context, id string) error

	// ListComments returns the comments of a post, oldest first.
	ListComments(context context.Context, postID string) ([]Comment, error)

	// FindComment returns one comment, or apperr.NotFound.
	FindComment(context context.Context, id string) (*Comment, error)

	// CreateComment inserts a comment and fills in its timestamp.
	CreateComment(context context.Context, comment *Comment) error

	// DeleteComment removes one comment.
	DeleteComment(context context.Context, id string) error
}
