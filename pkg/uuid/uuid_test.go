// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/beetlekeeper/pkg/uuid"
)

/*
TestNew verifies that identifiers are valid, version 7 and increasing.
*/
func TestNew(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.Equal(t, byte('7'), first[14])
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first[:13], second[:13])
}

/*
TestValid rejects the braced and URN forms that uuid.Parse would accept.
*/
func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid("0190a6f0-7c1e-7b3a-9d2e-4f5a6b7c8d9e"))
	assert.False(t, uuid.Valid("{0190a6f0-7c1e-7b3a-9d2e-4f5a6b7c8d9e}"))
	assert.False(t, uuid.Valid("urn:uuid:0190a6f0-7c1e-7b3a-9d2e-4f5a6b7c8d9e"))
	assert.False(t, uuid.Valid("0190a6f07c1e7b3a9d2e4f5a6b7c8d9e"))
	assert.False(t, uuid.Valid("0190a6f0-7c1e-7b3a-9d2e-4f5a6b7c8d9z"))
}
