// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pagination reads page/limit query parameters and builds the "meta" block
of paginated responses. Only the forum post list pages today; collections are
always returned whole.
*/
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a clamped page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip.
func (params Params) Offset() int {
	return (params.Page - 1) * params.Limit
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta computes the page count for total rows.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 && total > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// New clamps raw values: a page below 1 becomes 1, a limit outside
// 1..[MaxLimit] becomes [DefaultLimit].
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// FromRequest reads "page" and "limit". Unparseable values fall back to the defaults.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()
	return New(atoiOr(query.Get("page"), DefaultPage), atoiOr(query.Get("limit"), DefaultLimit))
}

func atoiOr(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
