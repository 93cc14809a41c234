// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestToPgx5DSN verifies the scheme rewrite used for golang-migrate.
*/
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@localhost:5432/beetle", "pgx5://u:p@localhost:5432/beetle"},
		{"postgresql://u@db/beetle?sslmode=disable", "pgx5://u@db/beetle?sslmode=disable"},
		{"pgx5://u@db/beetle", "pgx5://u@db/beetle"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, toPgx5DSN(tt.dsn))
		})
	}
}

/*
TestDown_RejectsNonPositiveSteps verifies the guard before any connection is made.
*/
func TestDown_RejectsNonPositiveSteps(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := Down("postgres://nowhere/db", "./missing", 0, logger)
	assert.ErrorContains(t, err, "steps must be positive")
}
