// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package forum is the breeders' community board.

Posts belong to one of five categories. Notices are written by administrators
and are pinned above everything else on the combined board. Sale posts can be
composed straight from a collection line.

Architecture:

  - Domain: [Post], [Comment], [Category] and the [Actor] performing a change.
  - Service: Board rules (who may post notices, who may edit or delete).
  - Repository: Postgres tables social.post and social.comment.
*/
package forum

import (
	"time"

	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
)

// # Categories

// Category groups posts on the board.
type Category string

const (
	CategoryNotice Category = "notice"
	CategorySale   Category = "sale"
	CategoryBuy    Category = "buy"
	CategoryInfo   Category = "info"
	CategoryLog    Category = "log"
)

// CategoryAll selects the combined board in listings.
const CategoryAll = "all"

// Categories lists every category in board order.
var Categories = []Category{CategoryNotice, CategorySale, CategoryBuy, CategoryInfo, CategoryLog}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// # Domain Entities

// Post is one board entry. Comments are only filled in by Get.
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Author       string    `json:"author"`
	Category     Category  `json:"category"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	CommentCount int       `json:"comment_count"`
	Comments     []Comment `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Comment is a reply to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor is the signed-in user performing a change.
type Actor struct {
	ID    string
	Admin bool
}

// ActorFrom builds an [Actor] from access token claims.
func ActorFrom(claims *sec.AuthClaims) Actor {
	return Actor{ID: claims.UserID, Admin: sec.UserRole(claims.Role).IsAdmin()}
}

// canModify reports whether actor may edit or delete something authored by authorID.
func (actor Actor) canModify(authorID string) bool {
	return actor.Admin || actor.ID == authorID
}

// # Limits

const (
	MaxTitleLength   = 200
	MaxContentLength = 20000
	MaxCommentLength = 2000
)

// # Field Identifiers

const (
	FieldCategory = "category"
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldImageURL = "image_url"
)
