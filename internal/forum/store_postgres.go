// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package forum

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed forum store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Post Retrieval

/*
List returns a page of posts.

Description: The combined board orders notices before everything else, each
group newest first. COUNT(*) OVER() carries the total for pagination.

Parameters:
  - context: context.Context
  - category: string ("all" or a category)
  - limit: int
  - offset: int

Returns:
  - []*Post: Slice of posts (never nil)
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, category string, limit, offset int) ([]*Post, int, error) {
	const query = `
		SELECT
			p.id::text, p.authorid::text, a.username, p.category, p.title, p.content, p.imageurl,
			(SELECT COUNT(*) FROM social.comment c WHERE c.postid = p.id),
			p.createdat, p.updatedat,
			COUNT(*) OVER() AS total
		FROM social.post p
		JOIN users.account a ON a.id = p.authorid
		WHERE ($1 = 'all' OR p.category = $1)
		ORDER BY (p.category = 'notice') DESC, p.createdat DESC, p.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(context, query, category, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := []*Post{}
	var total int
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Author, &post.Category, &post.Title, &post.Content, &post.ImageURL,
			&post.CommentCount, &post.CreatedAt, &post.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}

	return posts, total, nil
}

// FindByID retrieves a single post.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	const query = `
		SELECT
			p.id::text, p.authorid::text, a.username, p.category, p.title, p.content, p.imageurl,
			(SELECT COUNT(*) FROM social.comment c WHERE c.postid = p.id),
			p.createdat, p.updatedat
		FROM social.post p
		JOIN users.account a ON a.id = p.authorid
		WHERE p.id = $1`

	post := &Post{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&post.ID, &post.AuthorID, &post.Author, &post.Category, &post.Title, &post.Content, &post.ImageURL,
		&post.CommentCount, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.WrapResource(err, "Post", "get_post")
	}
	return post, nil
}

// # Post Mutation

// Create inserts a post and resolves the author's username.
func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	const query = `
		WITH inserted AS (
			INSERT INTO social.post (id, authorid, category, title, content, imageurl, createdat, updatedat)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING authorid, createdat, updatedat
		)
		SELECT a.username, i.createdat, i.updatedat
		FROM inserted i
		JOIN users.account a ON a.id = i.authorid`

	err := repository.db.QueryRow(context, query,
		post.ID, post.AuthorID, post.Category, post.Title, post.Content, post.ImageURL,
	).Scan(&post.Author, &post.CreatedAt, &post.UpdatedAt)

	return dberr.Wrap(err, "create_post")
}

// Update modifies the editable fields of a post.
func (repository *PostgresRepository) Update(context context.Context, post *Post) error {
	const query = `
		UPDATE social.post
		SET category = $2, title = $3, content = $4, imageurl = $5, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		post.ID, post.Category, post.Title, post.Content, post.ImageURL,
	).Scan(&post.UpdatedAt)
	if err != nil {
		return dberr.WrapResource(err, "Post", "update_post")
	}
	return nil
}

// Delete removes a post. Comments go with it through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM social.post WHERE id = $1`

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}
	return nil
}

// # Comments

// ListComments returns the comments of a post, oldest first.
func (repository *PostgresRepository) ListComments(context context.Context, postID string) ([]Comment, error) {
	const query = `
		SELECT c.id::text, c.postid::text, c.authorid::text, a.username, c.content, c.createdat
		FROM social.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.postid = $1
		ORDER BY c.createdat, c.id`

	rows, err := repository.db.Query(context, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments")
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Comment, error) {
		var comment Comment
		err := row.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Author, &comment.Content, &comment.CreatedAt)
		return comment, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_comment")
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

// FindComment retrieves one comment.
func (repository *PostgresRepository) FindComment(context context.Context, id string) (*Comment, error) {
	const query = `
		SELECT c.id::text, c.postid::text, c.authorid::text, a.username, c.content, c.createdat
		FROM social.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.id = $1`

	comment := &Comment{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Author, &comment.Content, &comment.CreatedAt,
	)
	if err != nil {
		return nil, dberr.WrapResource(err, "Comment", "get_comment")
	}
	return comment, nil
}

// CreateComment inserts a comment and resolves the author's username.
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	const query = `
		WITH inserted AS (
			INSERT INTO social.comment (id, postid, authorid, content, createdat)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING authorid, createdat
		)
		SELECT a.username, i.createdat
		FROM inserted i
		JOIN users.account a ON a.id = i.authorid`

	err := repository.db.QueryRow(context, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content,
	).Scan(&comment.Author, &comment.CreatedAt)

	return dberr.Wrap(err, "create_comment")
}

// DeleteComment removes one comment.
func (repository *PostgresRepository) DeleteComment(context context.Context, id string) error {
	const query = `DELETE FROM social.comment WHERE id = $1`

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
