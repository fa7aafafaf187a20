package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"livechat/auth"
	"livechat/models"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

type fakeServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recorded
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

var created = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			rec := recorded{
				method: req.Method,
				path:   req.URL.Path,
				query:  req.URL.RawQuery,
				auth:   req.Header.Get("Authorization"),
			}
			if req.Body != nil {
				raw, _ := io.ReadAll(req.Body)
				if len(raw) > 0 {
					_ = json.Unmarshal(raw, &rec.body)
				}
			}
			fs.mu.Lock()
			fs.requests = append(fs.requests, rec)
			fs.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})

	api.HandleFunc("/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.AuthResponse{Token: "tok", ID: "u1", Name: "Alice", CreatedAt: created})
	}).Methods(http.MethodPost)
	api.HandleFunc("/chats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Chat{{ID: "c1", Type: models.ChatTypeGroup, Name: "team", UpdatedAt: created}})
	}).Methods(http.MethodGet)
	api.HandleFunc("/chats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, models.Chat{ID: "c2", Type: models.ChatTypeGroup, Name: "new"})
	}).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Chat{ID: mux.Vars(r)["id"], Type: models.ChatTypeGroup, Name: "renamed"})
	}).Methods(http.MethodPatch, http.MethodGet)
	api.HandleFunc("/chats/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Message{{ID: "m1", Chat: mux.Vars(r)["id"], Content: "hi"}})
	}).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, models.Message{ID: "m2", Chat: mux.Vars(r)["id"], Content: "sent"})
	}).Methods(http.MethodPost)
	api.HandleFunc("/friends/requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Friend request already pending"})
	}).Methods(http.MethodPost)
	api.HandleFunc("/friends/requests/{id}/{action:accept|reject}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	}).Methods(http.MethodPost)
	api.HandleFunc("/user/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "updated", "id": mux.Vars(r)["id"]})
	}).Methods(http.MethodPut)
	api.HandleFunc("/user/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}).Methods(http.MethodGet)

	fs.Server = httptest.NewServer(r)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) count() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

func (fs *fakeServer) last(t *testing.T) recorded {
	t.Helper()
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.requests) == 0 {
		t.Fatalf("expected a request to reach the server")
	}
	return fs.requests[len(fs.requests)-1]
}

func newTestClient(fs *fakeServer, creds auth.CredentialStore) *Client {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(fs.URL+"/api/v1", 5*time.Second, creds, log)
}

func TestSignIn(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs, auth.NewMemoryStore())

	res, err := c.SignIn(context.Background(), models.SignInParams{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Token != "tok" || res.ID != "u1" {
		t.Fatalf("unexpected auth response %+v", res)
	}
	req := fs.last(t)
	if req.auth != "" {
		t.Fatalf("expected unauthenticated sign-in, got %q", req.auth)
	}
	if req.body["username"] != "alice" {
		t.Fatalf("expected username in body, got %v", req.body)
	}
}

func TestListChatsSendsBearerToken(t *testing.T) {
	fs := newFakeServer(t)
	creds := auth.NewMemoryStore()
	_ = creds.SaveToken(context.Background(), "tok")
	c := newTestClient(fs, creds)

	chats, err := c.ListChats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chats) != 1 || chats[0].ID != "c1" || !chats[0].UpdatedAt.Equal(created) {
		t.Fatalf("unexpected chats %+v", chats)
	}
	if got := fs.last(t).auth; got != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", got)
	}
}

func TestGetMessagesQuery(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs, auth.NewMemoryStore())

	msgs, err := c.GetMessages(context.Background(), "c1", models.GetMessagesParams{Before: "m9", Limit: 20})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(msgs) != 1 || msgs[0].Chat != "c1" {
		t.Fatalf("unexpected messages %+v", msgs)
	}
	if got := fs.last(t).query; got != "before=m9&limit=20" {
		t.Fatalf("unexpected query %q", got)
	}

	if _, err := c.GetMessages(context.Background(), "c1", models.GetMessagesParams{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := fs.last(t).query; got != "" {
		t.Fatalf("expected no query, got %q", got)
	}
}

func TestSendMessageDefaultsToText(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs, auth.NewMemoryStore())

	msg, err := c.SendMessage(context.Background(), "c1", models.SendMessageParams{Content: "hello"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.ID != "m2" {
		t.Fatalf("unexpected message %+v", msg)
	}
	req := fs.last(t)
	if req.method != http.MethodPost || req.path != "/api/v1/chats/c1/messages" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	if req.body["type"] != "text" {
		t.Fatalf("expected type text, got %v", req.body["type"])
	}

	before := fs.count()
	if _, err := c.SendMessage(context.Background(), "c1", models.SendMessageParams{}); !errors.Is(err, models.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if fs.count() != before {
		t.Fatalf("expected empty message not to be sent")
	}
}

func TestCreateChatValidatesParams(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs, auth.NewMemoryStore())

	if _, err := c.CreateChat(context.Background(), models.CreateChatParams{Type: models.ChatTypeDirect}); !errors.Is(err, models.ErrInvalidChatParams) {
		t.Fatalf("expected ErrInvalidChatParams, got %v", err)
	}
	if fs.count() != 0 {
		t.Fatalf("expected no request for invalid params")
	}

	chat, err := c.CreateChat(context.Background(), models.CreateChatParams{
		Type:           models.ChatTypeGroup,
		Name:           "new",
		ParticipantIDs: []string{"u2", "u3"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if chat.ID != "c2" {
		t.Fatalf("unexpected chat %+v", chat)
	}
}

func TestUpdateChatAndUser(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs, auth.NewMemoryStore())

	chat, err := c.UpdateChat(context.Background(), "c1", models.UpdateChatParams{Name: "renamed", AddParticipants: []string{"u4"}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if chat.ID != "c1" || chat.Name != "renamed" {
		t.Fatalf("unexpected chat %+v", chat)
	}
	if req := fs.last(t); req.method != http.MethodPatch || req.body["name"] != "renamed" {
		t.Fatalf("unexpected request %+v", req)
	}

	if err := c.UpdateUser(context.Background(), "u1", models.UpdateUserParams{Name: "Alicia"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req := fs.last(t); req.method != http.MethodPut || req.path != "/api/v1/user/update/u1" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestFriendRequestActions(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs, auth.NewMemoryStore())

	if err := c.AcceptFriendRequest(context.Background(), "r1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got := fs.last(t).path; got != "/api/v1/friends/requests/r1/accept" {
		t.Fatalf("unexpected path %q", got)
	}
	if err := c.RejectFriendRequest(context.Background(), "r2"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got := fs.last(t).path; got != "/api/v1/friends/requests/r2/reject" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestServerRejection(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs, auth.NewMemoryStore())

	_, err := c.SendFriendRequest(context.Background(), "u2")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "Friend request already pending" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if fs.last(t).body["toUserId"] != "u2" {
		t.Fatalf("expected toUserId in body")
	}

	_, err = c.SearchUsers(context.Background(), "al")
	if StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", err)
	}
	if !errors.As(err, &apiErr) || apiErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("expected status text fallback, got %v", err)
	}
	if errors.Is(err, ErrTransport) {
		t.Fatalf("server rejection must not be a transport failure")
	}
}

func TestTransportFailure(t *testing.T) {
	fs := newFakeServer(t)
	c := newTestClient(fs, auth.NewMemoryStore())
	fs.Close()

	_, err := c.ListChats(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if StatusCode(err) != 0 {
		t.Fatalf("expected no status code for transport failure")
	}
}

func TestNewWithoutLogger(t *testing.T) {
	fs := newFakeServer(t)
	c := New(fs.URL+"/api/v1", time.Second, auth.NewMemoryStore(), nil)

	chats, err := c.ListChats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(chats) != 1 || chats[0].ID != "c1" {
		t.Fatalf("unexpected chats %+v", chats)
	}
}
