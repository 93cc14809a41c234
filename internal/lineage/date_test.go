// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/lineage"
)

/*
TestDate_JSON covers the three accepted input forms.
*/
func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"null", `null`, ""},
		{"empty", `""`, ""},
		{"value", `"2024-02-29"`, "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var date lineage.Date
			require.NoError(t, json.Unmarshal([]byte(tt.input), &date))
			assert.Equal(t, tt.want, date.String())
		})
	}

	var date lineage.Date
	assert.Error(t, json.Unmarshal([]byte(`"29/02/2024"`), &date))
	assert.Error(t, json.Unmarshal([]byte(`20240229`), &date))

	encoded, err := json.Marshal(struct {
		Set   lineage.Date `json:"set"`
		Unset lineage.Date `json:"unset"`
	}{Set: lineage.MustDate("2024-01-15")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":"2024-01-15","unset":null}`, string(encoded))
}

/*
TestDate_Arithmetic verifies month overflow and the local calendar day.
*/
func TestDate_Arithmetic(t *testing.T) {
	assert.Equal(t, "2023-03-03", lineage.MustDate("2023-01-31").AddMonths(1).String())
	assert.Equal(t, "2024-03-02", lineage.MustDate("2024-01-31").AddMonths(1).String())
	assert.True(t, lineage.Date{}.AddMonths(3).IsZero())

	seoul := time.FixedZone("KST", 9*60*60)
	instant := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-02", lineage.DateOf(instant.In(seoul)).String())
	assert.Equal(t, "2024-05-01", lineage.DateOf(instant).String())
	assert.True(t, lineage.MustDate("2024-05-01").Before(lineage.MustDate("2024-05-02")))
}
