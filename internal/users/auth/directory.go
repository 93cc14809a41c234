// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
)

// Directory answers read-only questions about members for other packages.
type Directory struct {
	users UserRepository
}

// NewDirectory wraps a [UserRepository].
func NewDirectory(users UserRepository) *Directory {
	return &Directory{users: users}
}

// ByID resolves an account id.
func (directory *Directory) ByID(context context.Context, id string) (*Member, error) {
	user, err := directory.users.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return user.Member(), nil
}

// ByUsername resolves a username, ignoring case and surrounding spaces.
func (directory *Directory) ByUsername(context context.Context, username string) (*Member, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.NotFound("User")
	}

	user, err := directory.users.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return user.Member(), nil
}

// Members lists every account, administrators included.
func (directory *Directory) Members(context context.Context) ([]*Member, error) {
	users, err := directory.users.List(context)
	if err != nil {
		return nil, err
	}

	members := make([]*Member, 0, len(users))
	for _, user := range users {
		members = append(members, user.Member())
	}
	return members, nil
}
