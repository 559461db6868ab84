// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/movie-night/auth"
	"github.com/danielhkuo/movie-night/candidates"
	"github.com/danielhkuo/movie-night/cliparse"
	"github.com/danielhkuo/movie-night/db"
	"github.com/danielhkuo/movie-night/election"
	"github.com/danielhkuo/movie-night/models"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file:test.db",
		DatabaseType: "sqlite",
		OMDbAPIKey:   "test-omdb-key",
		CacheSize:    16,
	}
}

// FakeLookup is an in-memory movie source that counts calls.
type FakeLookup struct {
	mu       sync.Mutex
	movies   map[string]models.Candidate
	calls    int
	timeouts int
}

func NewFakeLookup() *FakeLookup {
	return &FakeLookup{movies: make(map[string]models.Candidate)}
}

// Add registers a movie the lookup can find.
func (f *FakeLookup) Add(id, title, year, rating string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies[id] = models.Candidate{
		ID:         id,
		Title:      title,
		Year:       year,
		Plot:       "The plot of " + title,
		IMDbRating: rating,
		Metascore:  "70",
		Poster:     "https://img.example/" + id + ".jpg",
	}
}

// TimeoutNext makes the next n lookups fail with ErrLookupTimeout.
func (f *FakeLookup) TimeoutNext(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeouts = n
}

// Calls returns how many lookups were made.
func (f *FakeLookup) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeLookup) Lookup(ctx context.Context, q models.CandidateQuery) (*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.timeouts > 0 {
		f.timeouts--
		return nil, fmt.Errorf("lookup %s: %w", q, models.ErrLookupTimeout)
	}

	if q.ID != "" {
		if m, ok := f.movies[q.ID]; ok {
			m.FillUnknown()
			return &m, nil
		}
		return nil, fmt.Errorf("lookup %s: %w", q, models.ErrCandidateNotFound)
	}

	for _, m := range f.movies {
		if strings.EqualFold(m.Title, q.Title) && (q.Year == "" || q.Year == m.Year) {
			m.FillUnknown()
			return &m, nil
		}
	}
	return nil, fmt.Errorf("lookup %s: %w", q, models.ErrCandidateNotFound)
}

// TestEnv bundles an engine with its store and fake lookup.
type TestEnv struct {
	DB     *sql.DB
	Store  *db.Store
	Lookup *FakeLookup
	Cache  *candidates.Cache
	Engine *election.Engine
}

// NewTestEnv builds an initialized engine on a fresh database. intn may be
// nil for the default random source.
func NewTestEnv(t *testing.T, intn func(n int) int) *TestEnv {
	t.Helper()

	conn := SetupTestDB(t)
	store := db.NewStore(conn)
	lookup := NewFakeLookup()

	cache, err := candidates.NewCache(lookup, store, 16)
	if err != nil {
		t.Fatalf("Failed to create candidate cache: %v", err)
	}
	cache.SetRetryDelay(0)

	engine := election.NewEngine(store, cache, intn)
	if err := engine.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init engine: %v", err)
	}

	return &TestEnv{DB: conn, Store: store, Lookup: lookup, Cache: cache, Engine: engine}
}

// Nominate registers a movie with the fake lookup and nominates it by title.
func (env *TestEnv) Nominate(t *testing.T, id, title, nominator string) {
	t.Helper()
	env.Lookup.Add(id, title, "2001", "7.0")
	if _, err := env.Engine.Nominate(context.Background(), models.CandidateQuery{Title: title}, nominator); err != nil {
		t.Fatalf("Failed to nominate %s: %v", title, err)
	}
}

// Cast casts a literal ballot and fails the test on error.
func (env *TestEnv) Cast(t *testing.T, voter string, choice int) {
	t.Helper()
	if _, err := env.Engine.Cast(context.Background(), voter, election.Selector{Index: choice}); err != nil {
		t.Fatalf("Failed to cast %s -> %d: %v", voter, choice, err)
	}
}

// NewKeyPair generates an Ed25519 key pair for signing test interactions.
func NewKeyPair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return pub, priv
}

// Command builds a command interaction from user.
func Command(user, name string, options ...models.CommandOption) models.Interaction {
	return models.Interaction{
		Type:   models.InteractionCommand,
		Data:   models.InteractionData{Name: name, Options: options},
		Member: &models.Member{User: models.User{ID: "id-" + user, Username: user}},
	}
}

// SubCommand builds a sub-command option carrying an optional value option.
func SubCommand(name string, values ...models.CommandOption) models.CommandOption {
	return models.CommandOption{Name: name, Type: models.OptionTypeSubCommand, Options: values}
}

// Value builds a string option.
func Value(name, value string) models.CommandOption {
	return models.CommandOption{Name: name, Type: 3, Value: models.OptionValue(value)}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// SignedRequest creates a POST /interactions request signed with key.
func SignedRequest(t *testing.T, key ed25519.PrivateKey, body interface{}) *http.Request {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	timestamp := "1700000000"
	req := httptest.NewRequest("POST", "/interactions", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderTimestamp, timestamp)
	req.Header.Set(auth.HeaderSignature, auth.Sign(key, timestamp, jsonBody))
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
