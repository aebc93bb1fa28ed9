package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-event-sharing/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// Searched fields get a keyword subfield so wildcard queries see the whole value.
const (
	eventsMapping = `{
  "mappings": {
    "properties": {
      "title": {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 512}}},
      "date": {"type": "keyword"},
      "user": {"type": "keyword"},
      "categories": {"type": "keyword"}
    }
  }
}`
	usersMapping = `{
  "mappings": {
    "properties": {
      "username": {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "first_name": {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "last_name": {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}}
    }
  }
}`
)

func containsQuery(field, q string) map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			field: map[string]any{
				"value":            "*" + wildcardEscaper.Replace(q) + "*",
				"case_insensitive": true,
			},
		},
	}
}

// SearchIndex mirrors users and events into Elasticsearch for search.
type SearchIndex struct {
	ES          *elasticsearch.Client
	UsersIndex  string
	EventsIndex string
	Logger      *logrus.Logger
}

func NewSearchIndex(es *elasticsearch.Client, usersIndex, eventsIndex string, logger *logrus.Logger) *SearchIndex {
	return &SearchIndex{ES: es, UsersIndex: usersIndex, EventsIndex: eventsIndex, Logger: logger}
}

type userDoc struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Only public profile fields are indexed.
func toUserDoc(u *entity.User) userDoc {
	return userDoc{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (d userDoc) toEntity() entity.User {
	u := entity.User{ID: d.ID, Username: d.Username, FirstName: d.FirstName, LastName: d.LastName, Avatar: d.Avatar}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, d.CreatedAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339Nano, d.UpdatedAt)
	return u
}

// EnsureIndices creates the users and events indices with their mappings
// when they do not exist yet.
func (s *SearchIndex) EnsureIndices(ctx context.Context) error {
	if err := s.ensureIndex(ctx, s.UsersIndex, usersMapping); err != nil {
		return err
	}
	return s.ensureIndex(ctx, s.EventsIndex, eventsMapping)
}

func (s *SearchIndex) ensureIndex(ctx context.Context, index, mapping string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(c, s.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: index, Body: strings.NewReader(mapping)}.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index %s: %s", index, res.Status())
	}
	return nil
}

func (s *SearchIndex) IndexUser(ctx context.Context, u *entity.User) error {
	return s.index(ctx, s.UsersIndex, u.ID, toUserDoc(u))
}

// IndexEvent uses the title as document id, matching the event key.
func (s *SearchIndex) IndexEvent(ctx context.Context, e *entity.Event) error {
	return s.index(ctx, s.EventsIndex, e.Title, e)
}

func (s *SearchIndex) DeleteEvent(ctx context.Context, title string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: s.EventsIndex, DocumentID: title}
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

func (s *SearchIndex) index(ctx context.Context, index, id string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: strings.NewReader(string(b)), Refresh: "false"}
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"status": res.Status(), "index": index, "id": id}).Warn("es index response error")
		}
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// SearchUsers matches the query anywhere inside username or names.
func (s *SearchIndex) SearchUsers(ctx context.Context, q string, size int) ([]entity.User, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					containsQuery("username.keyword", q),
					containsQuery("first_name.keyword", q),
					containsQuery("last_name.keyword", q),
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []any{map[string]any{"username.keyword": "asc"}},
		"size": size,
	}
	var docs []userDoc
	if err := s.search(ctx, s.UsersIndex, query, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// SearchEvents matches q anywhere inside the title, ignoring case.
func (s *SearchIndex) SearchEvents(ctx context.Context, q string, size int) ([]entity.Event, error) {
	query := map[string]any{
		"query": containsQuery("title.keyword", q),
		"size":  size,
	}
	var out []entity.Event
	if err := s.search(ctx, s.EventsIndex, query, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Event{}
	}
	return out, nil
}

// search decodes the _source of every hit into dest, which must point to a slice.
func (s *SearchIndex) search(ctx context.Context, index string, query map[string]any, dest any) error {
	b, err := json.Marshal(query)
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(index), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return err
	}

	sources := make([]json.RawMessage, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		sources = append(sources, h.Source)
	}
	joined, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	return json.Unmarshal(joined, dest)
}
