package elasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newTestIndex(t *testing.T, reply string) (*SearchIndex, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewSearchIndex(es, "users", "events", nil), &calls
}

func TestIndexUserOmitsPrivateFields(t *testing.T) {
	idx, calls := newTestIndex(t, `{"result":"created"}`)

	err := idx.IndexUser(context.Background(), &entity.User{ID: "u1", Username: "ada", Password: "hash", Email: "ada@example.com"})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/users/_doc/u1", (*calls)[0].path)
	assert.Contains(t, (*calls)[0].body, `"username":"ada"`)
	assert.NotContains(t, (*calls)[0].body, "hash")
	assert.NotContains(t, (*calls)[0].body, "ada@example.com")
}

func TestSearchEventsDecodesSources(t *testing.T) {
	ev := entity.Event{Title: "Jazz night", Date: "2025-05-01", Categories: entity.CategoryNames{"Music"}, User: "ada"}
	src, err := json.Marshal(ev)
	require.NoError(t, err)
	reply := `{"hits":{"hits":[{"_id":"Jazz night","_source":` + string(src) + `}]}}`

	idx, calls := newTestIndex(t, reply)
	got, err := idx.SearchEvents(context.Background(), "jazz", 10)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Jazz night", got[0].Title)
	assert.Equal(t, entity.CategoryNames{"Music"}, got[0].Categories)
	assert.True(t, strings.HasPrefix((*calls)[0].path, "/events/_search"))

	var body struct {
		Query struct {
			Wildcard map[string]struct {
				Value           string `json:"value"`
				CaseInsensitive bool   `json:"case_insensitive"`
			} `json:"wildcard"`
		} `json:"query"`
		Size int `json:"size"`
	}
	require.NoError(t, json.Unmarshal([]byte((*calls)[0].body), &body))
	require.Contains(t, body.Query.Wildcard, "title.keyword")
	assert.Equal(t, "*jazz*", body.Query.Wildcard["title.keyword"].Value)
	assert.True(t, body.Query.Wildcard["title.keyword"].CaseInsensitive)
	assert.Equal(t, 10, body.Size)
}

func TestSearchEventsEscapesWildcards(t *testing.T) {
	idx, calls := newTestIndex(t, `{"hits":{"hits":[]}}`)
	got, err := idx.SearchEvents(context.Background(), `a*b?c\`, 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte((*calls)[0].body), &body))
	field := body["query"].(map[string]any)["wildcard"].(map[string]any)["title.keyword"].(map[string]any)
	assert.Equal(t, `*a\*b\?c\\*`, field["value"])
}

func TestSearchUsersMatchesInsideNames(t *testing.T) {
	idx, calls := newTestIndex(t, `{"hits":{"hits":[{"_source":{"id":"u1","username":"ada"}}]}}`)
	got, err := idx.SearchUsers(context.Background(), "d", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ada", got[0].Username)

	body := (*calls)[0].body
	assert.Contains(t, body, `"username.keyword":{"case_insensitive":true,"value":"*d*"}`)
	assert.Contains(t, body, `"first_name.keyword"`)
	assert.Contains(t, body, `"last_name.keyword"`)
}

func TestEnsureIndicesCreatesMissing(t *testing.T) {
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/users":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	idx := NewSearchIndex(es, "users", "events", nil)

	require.NoError(t, idx.EnsureIndices(context.Background()))

	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodHead, calls[0].method)
	assert.Equal(t, http.MethodHead, calls[1].method)
	assert.Equal(t, http.MethodPut, calls[2].method)
	assert.Equal(t, "/events", calls[2].path)
	assert.Contains(t, calls[2].body, `"keyword"`)
}

func TestSearchUsersEmpty(t *testing.T) {
	idx, _ := newTestIndex(t, `{"hits":{"hits":[]}}`)
	got, err := idx.SearchUsers(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
