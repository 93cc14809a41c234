// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/beetlekeeper/pkg/pagination"
)

/*
TestFromRequest verifies clamping of page and limit.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		query  string
		want   pagination.Params
		offset int
	}{
		{"", pagination.Params{Page: 1, Limit: 20}, 0},
		{"?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}, 20},
		{"?page=0&limit=500", pagination.Params{Page: 1, Limit: 20}, 0},
		{"?page=-2&limit=-1", pagination.Params{Page: 1, Limit: 20}, 0},
		{"?page=two&limit=x", pagination.Params{Page: 1, Limit: 20}, 0},
		{"?limit=100", pagination.Params{Page: 1, Limit: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/posts"+tt.query, nil))
			assert.Equal(t, tt.want, params)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestNewMeta verifies the page count rounding.
*/
func TestNewMeta(t *testing.T) {
	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 1, pagination.NewMeta(1, 20, 20).TotalPages)
	assert.Equal(t, 2, pagination.NewMeta(1, 20, 21).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 5).TotalPages)
}
