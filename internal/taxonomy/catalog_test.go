// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/taxonomy"
)

/*
TestDefault verifies the embedded catalog decodes with every genus.
*/
func TestDefault(t *testing.T) {
	var names []string
	for _, genus := range taxonomy.Default().Genera() {
		names = append(names, genus.Name)
	}
	assert.Equal(t, []string{"Dorcus", "Dynastes", "Chalcosoma", "Lucanus", "Prosopocoilus", "Allomyrina", "Megasoma"}, names)
}

/*
TestSearch covers matching rules.
*/
func TestSearch(t *testing.T) {
	catalog := taxonomy.Default()

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"blank", "   ", 0, []string{}},
		{"case_insensitive", "PALAWAN", 0, []string{"Dorcus titanus palawanicus"}},
		{"shared_subspecies", "keyboh", 0, []string{"Chalcosoma caucasus keyboh", "Chalcosoma atlas keyboh"}},
		{"several_genera", "septentrionalis", 0, []string{"Dynastes hercules septentrionalis", "Allomyrina dichotoma septentrionalis"}},
		{"limited", "a", 2, []string{"Dorcus titanus titanus", "Dorcus titanus yasuokai"}},
		{"species_names_do_not_match", "gracillimus", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, entry := range catalog.Search(tt.query, tt.limit) {
				got = append(got, entry.Full)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestParse rejects malformed documents.
*/
func TestParse(t *testing.T) {
	_, err := taxonomy.Parse([]byte("- genus: ''\n  species: []\n"))
	assert.Error(t, err)

	_, err = taxonomy.Parse([]byte("genus: [unclosed"))
	assert.Error(t, err)

	catalog, err := taxonomy.Parse([]byte("- genus: Odontolabis\n  species:\n    - species: alces\n      subspecies: [alces]\n"))
	require.NoError(t, err)
	assert.Len(t, catalog.Search("alc", 0), 1)
}

/*
TestHandler_Search returns the standard envelope.
*/
func TestHandler_Search(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/search?q=hope", nil)
	taxonomy.NewHandler(taxonomy.Default()).Routes().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []taxonomy.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, taxonomy.Entry{Genus: "Dorcus", Species: "hopei", Subspecies: "hopei", Full: "Dorcus hopei hopei"}, body.Data[0])
}
