// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid issues the string identifiers used for accounts, sessions, forum
posts, comments, messages and image keys.

Identifiers are version 7, so rows sort by creation time and B-tree inserts stay
append-only. Collection rows (genera through individuals) use the per-tree
integer sequence instead.
*/
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a fresh UUIDv7 in canonical lower-case form.
// It panics only if the system entropy source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: entropy source failed: " + err.Error())
	}
	return id.String()
}

// Valid reports whether value is a hyphenated 36-character UUID of any version.
func Valid(value string) bool {
	if len(value) != 36 || strings.Count(value, "-") != 4 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}
