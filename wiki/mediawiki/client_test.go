// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mediawiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/gurukul/wiki"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithEndpoint(server.URL), WithRetry(3, time.Millisecond))
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "search", r.URL.Query().Get("list"))
		assert.Equal(t, "zero in maths", r.URL.Query().Get("srsearch"))

		w.Write([]byte(`{"query":{"search":[{"title":"0"},{"title":"Zero (linguistics)"}]}}`))
	})

	titles, err := client.Search(context.Background(), "zero in maths", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "Zero (linguistics)"}, titles)
}

func TestFetch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("titles"))

		w.Write([]byte(`{"query":{"pages":{"12345":{
			"title":"0",
			"extract":"Zero is a number.\nIts use as a numeral originated in India.",
			"fullurl":"https://en.wikipedia.org/wiki/0",
			"links":[{"title":"Brahmagupta"},{"title":"Aryabhata"}]
		}}}}`))
	})

	page, err := client.Fetch(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, "0", page.Title)
	assert.Equal(t, "Zero is a number.", page.Summary)
	assert.Contains(t, page.Content, "originated in India")
	assert.Equal(t, []string{"Brahmagupta", "Aryabhata"}, page.Related)
	assert.False(t, page.Disambiguation)
}

func TestFetchMissingPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":{"-1":{"title":"No Such Page","missing":""}}}}`))
	})

	_, err := client.Fetch(context.Background(), "No Such Page")
	assert.ErrorIs(t, err, wiki.ErrPageNotFound)
}

func TestFetchDisambiguation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":{"99":{
			"title":"Mercury",
			"extract":"Mercury may refer to:",
			"pageprops":{"disambiguation":""},
			"links":[{"title":"Mercury (planet)"},{"title":"Mercury (element)"}]
		}}}}`))
	})

	page, err := client.Fetch(context.Background(), "Mercury")
	require.NoError(t, err)
	assert.True(t, page.Disambiguation)
	assert.Equal(t, []string{"Mercury (planet)", "Mercury (element)"}, page.Options)
}

func TestCallRetriesServerErrors(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"query":{"search":[{"title":"Ayurveda"}]}}`))
	})

	titles, err := client.Search(context.Background(), "ayurveda", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"Ayurveda"}, titles)
}

func TestCallClientErrorIsFinal(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.Search(context.Background(), "ayurveda", 5)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx responses must not be retried")
}
