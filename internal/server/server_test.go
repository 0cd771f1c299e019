package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"sharehope/internal/service"
	"sharehope/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

const testSecret = "test-access-secret"

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

type fakeSubscribers struct {
	mu   sync.Mutex
	rows map[int64]*types.NewsletterSubscriber
	next int64
}

func newFakeSubscribers() *fakeSubscribers {
	return &fakeSubscribers{rows: map[int64]*types.NewsletterSubscriber{}}
}

func (f *fakeSubscribers) find(match func(*types.NewsletterSubscriber) bool) *types.NewsletterSubscriber {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if match(row) {
			c := *row
			return &c
		}
	}
	return nil
}

func (f *fakeSubscribers) SubscriberByEmail(_ context.Context, email string) (*types.NewsletterSubscriber, error) {
	return f.find(func(s *types.NewsletterSubscriber) bool { return s.Email == email }), nil
}

func (f *fakeSubscribers) SubscriberByToken(_ context.Context, token string) (*types.NewsletterSubscriber, error) {
	return f.find(func(s *types.NewsletterSubscriber) bool { return s.UnsubscribeToken == token }), nil
}

func (f *fakeSubscribers) Subscribers(_ context.Context, _ types.SubscriberFilter, page types.PageRequest) (*types.Page[types.NewsletterSubscriber], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := make([]*types.NewsletterSubscriber, 0, len(f.rows))
	for _, row := range f.rows {
		c := *row
		data = append(data, &c)
	}
	return types.NewPage(data, int64(len(data)), page), nil
}

func (f *fakeSubscribers) CreateSubscriber(_ context.Context, s *types.NewsletterSubscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	s.ID = f.next
	c := *s
	f.rows[s.ID] = &c
	return nil
}

func (f *fakeSubscribers) UpdateSubscriber(_ context.Context, s *types.NewsletterSubscriber) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rows[s.ID]; !ok {
		return types.NotFound("newsletter subscriber", s.ID)
	}
	c := *s
	f.rows[s.ID] = &c
	return nil
}

func (f *fakeSubscribers) DeleteSubscriber(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rows[id]; !ok {
		return types.NotFound("newsletter subscriber", id)
	}
	delete(f.rows, id)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestServer(t *testing.T) (*Service, *fakeSubscribers) {
	t.Helper()

	subscribers := newFakeSubscribers()
	s := newTestServerWith(t, Services{
		Newsletter: service.NewNewsletterService(testLogger(), subscribers),
	})

	return s, subscribers
}

func newTestServerWith(t *testing.T, services Services) *Service {
	t.Helper()

	config := &types.Config{
		CookieName:      "session_id",
		CookieHashKey:   base64.StdEncoding.EncodeToString(testHashKey),
		JWTAccessSecret: testSecret,
	}

	s, err := New(config, testLogger(), services)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return s
}

func signToken(t *testing.T, subject, role string, expires time.Time) string {
	t.Helper()

	tok, err := jwt.NewBuilder().
		Subject(subject).
		Claim("role", role).
		IssuedAt(time.Now()).
		Expiration(expires).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), []byte(testSecret)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return string(signed)
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return env.Error
}

func TestWriteErrorMapsKinds(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name    string
		err     error
		status  int
		kind    string
		message string
	}{
		{"not found", types.NotFound("post", 4), http.StatusNotFound, "not_found", "post 4 not found"},
		{"conflict", types.Conflict("category", "slug \"notice\" is already in use"), http.StatusConflict, "conflict", "slug \"notice\" is already in use"},
		{"validation", types.Invalid("title", "title is required"), http.StatusBadRequest, "validation", "title is required"},
		{"wrapped validation", errors.Join(errors.New("ctx"), types.Invalid("email", "bad")), http.StatusBadRequest, "validation", "bad"},
		{"unavailable", types.Unavailable(errors.New("dial tcp: refused")), http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}

			body := decodeError(t, rec)
			if body.Kind != tt.kind || body.Message != tt.message {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestSubscribeAndConflict(t *testing.T) {
	s, subscribers := newTestServer(t)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		s.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"email":" Donor@Example.org "}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "unsubscribeToken") {
		t.Fatalf("token leaked in response: %s", rec.Body)
	}

	stored, _ := subscribers.SubscriberByEmail(context.Background(), "donor@example.org")
	if stored == nil || stored.UnsubscribeToken == "" {
		t.Fatalf("subscriber not stored with token: %+v", stored)
	}

	rec = post(`{"email":"donor@example.org"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = post(`{"email":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Field != "body" {
		t.Fatalf("expected body field, got %+v", body)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/newsletter/"+stored.UnsubscribeToken, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/newsletter/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	s, _ := newTestServer(t)

	cookieValue, err := securecookie.New(testHashKey, nil).Encode("session_id", signToken(t, "1", "ADMIN", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("encode cookie: %v", err)
	}

	tests := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", "", http.StatusUnauthorized},
		{"bad signature", "Bearer " + strings.Repeat("x", 20), "", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, "1", "ADMIN", time.Now().Add(-time.Hour)), "", http.StatusUnauthorized},
		{"non-numeric subject", "Bearer " + signToken(t, "abc", "ADMIN", time.Now().Add(time.Hour)), "", http.StatusUnauthorized},
		{"regular user", "Bearer " + signToken(t, "2", "USER", time.Now().Add(time.Hour)), "", http.StatusForbidden},
		{"admin bearer", "Bearer " + signToken(t, "1", "ADMIN", time.Now().Add(time.Hour)), "", http.StatusOK},
		{"admin cookie", "", cookieValue, http.StatusOK},
		{"tampered cookie", "", cookieValue + "x", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/newsletter", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session_id", Value: tt.cookie})
			}

			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body)
			}
		})
	}
}

func TestAdminIDReachesHandlers(t *testing.T) {
	s, _ := newTestServer(t)

	var got int64
	handler := s.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = adminID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "42", "ADMIN", time.Now().Add(time.Hour)))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != 42 {
		t.Fatalf("expected admin id 42, got %d", got)
	}
}

func TestStripTrailingSlash(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories/?page=2", nil))

	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/categories?page=2" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestDecodeQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/posts?status=published&notice=true&from=2024-01-02&to=2024-02-01T00:00:00Z&page=2&limit=5&q=%EA%B8%B0%EB%8F%84", nil)

	var filter types.PostFilter
	page, err := decodeQuery(req, &filter)
	if err != nil {
		t.Fatalf("decodeQuery: %v", err)
	}

	if page.Page != 2 || page.Limit != 5 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if filter.Status != types.PostStatusPublished || filter.IsNotice == nil || !*filter.IsNotice || filter.Search != "기도" {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if filter.From == nil || !filter.From.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from: %v", filter.From)
	}
	if filter.To == nil || !filter.To.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected to: %v", filter.To)
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/admin/posts?page=two", nil)
	if _, err := decodeQuery(bad, &filter); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPathID(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/newsletter/abc", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "1", "ADMIN", time.Now().Add(time.Hour)))
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Field != "id" {
		t.Fatalf("expected id field, got %+v", body)
	}
}
