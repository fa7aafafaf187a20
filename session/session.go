// Package session wires the REST client, the realtime connection and the
// local stores into one signed-in user session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"livechat/auth"
	"livechat/handlers"
	"livechat/logging"
	"livechat/models"
	"livechat/realtime"
	"livechat/store"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrTokenExpired     = errors.New("access token expired")
	ErrNotStarted       = errors.New("session not started")
	ErrAlreadyStarted   = errors.New("session already started")
)

// API is the subset of the REST client the session drives. *api.Client satisfies it.
type API interface {
	SignIn(ctx context.Context, params models.SignInParams) (*models.AuthResponse, error)
	SignUp(ctx context.Context, params models.SignUpParams) error

	ListChats(ctx context.Context) ([]models.Chat, error)
	GetChat(ctx context.Context, id string) (*models.Chat, error)
	CreateChat(ctx context.Context, params models.CreateChatParams) (*models.Chat, error)
	UpdateChat(ctx context.Context, id string, params models.UpdateChatParams) (*models.Chat, error)

	GetMessages(ctx context.Context, chatID string, params models.GetMessagesParams) ([]models.Message, error)
	SendMessage(ctx context.Context, chatID string, params models.SendMessageParams) (*models.Message, error)
	MarkMessageRead(ctx context.Context, chatID, messageID string) error

	GetFriends(ctx context.Context) ([]models.User, error)
	GetFriendRequests(ctx context.Context) ([]models.FriendRequest, error)
	SendFriendRequest(ctx context.Context, toUserID string) (*models.FriendRequest, error)
	AcceptFriendRequest(ctx context.Context, id string) error
	RejectFriendRequest(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, q string) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, params models.UpdateUserParams) error
}

// Conn is the realtime connection as seen by the session. *realtime.Conn satisfies it.
type Conn interface {
	handlers.Joiner
	SendMessage(ctx context.Context, chatID string, params models.SendMessageParams) error
	Run(ctx context.Context, bus *realtime.Bus) error
	Close()
}

// Dialer opens a realtime connection authenticated with token
type Dialer func(ctx context.Context, token string) (Conn, error)

type Options struct {
	API         API
	Credentials auth.CredentialStore
	Dial        Dialer
	Chats       *store.Store
	Friends     *store.FriendStore
	Users       *store.UserStore
	Log         *slog.Logger
}

type Session struct {
	api     API
	creds   auth.CredentialStore
	dial    Dialer
	chats   *store.Store
	friends *store.FriendStore
	users   *store.UserStore
	log     *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	conn   Conn
	handle *handlers.Handle
	cancel context.CancelFunc
	done   chan struct{}
	runErr error
}

// New builds a session. Stores left nil in opts are created.
func New(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		api:     opts.API,
		creds:   opts.Credentials,
		dial:    opts.Dial,
		chats:   opts.Chats,
		friends: opts.Friends,
		users:   opts.Users,
		log:     log.With("component", "session"),
		now:     time.Now,
	}
	if s.creds == nil {
		s.creds = auth.NewMemoryStore()
	}
	if s.chats == nil {
		s.chats = store.New(log)
	}
	if s.friends == nil {
		s.friends = store.NewFriendStore(log)
	}
	if s.users == nil {
		s.users = store.NewUserStore(log)
	}
	return s
}

func (s *Session) Chats() *store.Store         { return s.chats }
func (s *Session) Friends() *store.FriendStore { return s.friends }
func (s *Session) Users() *store.UserStore     { return s.users }

// SignIn exchanges credentials for a token and stores it
func (s *Session) SignIn(ctx context.Context, params models.SignInParams) (*models.AuthResponse, error) {
	res, err := s.api.SignIn(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.creds.SaveToken(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("session: save token: %w", err)
	}
	s.log.InfoContext(ctx, "session - sign in - ok", logging.User(res.ID))
	return res, nil
}

// SignUp registers an account. The caller signs in afterwards.
func (s *Session) SignUp(ctx context.Context, params models.SignUpParams) error {
	return s.api.SignUp(ctx, params)
}

// SignOut stops the session, forgets the token and empties the stores
func (s *Session) SignOut(ctx context.Context) error {
	s.Close()
	if err := s.creds.ClearToken(ctx); err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}
	s.chats.SetCurrent(nil)
	s.chats.ReplaceChats(nil)
	s.friends.SetRequests(nil)
	s.friends.SetFriends(nil)
	s.users.SetUsers(nil)
	s.log.InfoContext(ctx, "session - sign out - ok")
	return nil
}

// CurrentUserID decodes the stored token. It fails with ErrNotAuthenticated when nothing
// usable is stored and ErrTokenExpired when the token is past its expiry.
func (s *Session) CurrentUserID(ctx context.Context) (string, error) {
	_, claims, err := s.token(ctx)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}

func (s *Session) token(ctx context.Context) (string, *auth.Claims, error) {
	token, err := s.creds.Token(ctx)
	if errors.Is(err, auth.ErrMissingToken) {
		return "", nil, ErrNotAuthenticated
	}
	if err != nil {
		return "", nil, fmt.Errorf("session: read token: %w", err)
	}
	claims, err := auth.Decode(token)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	if claims.Expired(s.now(), auth.DefaultSkew) {
		return "", nil, ErrTokenExpired
	}
	return token, claims, nil
}

// Start loads chats, friends and requests, then connects to realtime, joins every
// listed chat and applies pushes until Close.
func (s *Session) Start(ctx context.Context) error {
	token, claims, err := s.token(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return ErrAlreadyStarted
	}
	if s.dial == nil {
		return fmt.Errorf("session: no realtime dialer configured")
	}

	if err := s.RefreshChats(ctx); err != nil {
		return err
	}
	if err := s.RefreshFriends(ctx); err != nil {
		return err
	}
	if err := s.RefreshRequests(ctx); err != nil {
		return err
	}

	conn, err := s.dial(ctx, token)
	if err != nil {
		return fmt.Errorf("session: connect realtime: %w", err)
	}
	bus := realtime.NewBus(s.log)
	handle := handlers.Register(bus, handlers.Deps{
		Chats:   s.chats,
		Friends: s.friends,
		Users:   s.users,
		Joiner:  conn,
		Log:     s.log,
	})

	ids := chatIDs(s.chats.Chats())
	if err := conn.JoinChats(ctx, ids); err != nil {
		handle.Close()
		conn.Close()
		return fmt.Errorf("session: join chats: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.conn, s.handle, s.cancel, s.done, s.runErr = conn, handle, cancel, done, nil

	go func() {
		defer close(done)
		err := conn.Run(runCtx, bus)
		if err != nil {
			s.log.Error("session - realtime - connection ended", logging.Err(err))
		}
		s.mu.Lock()
		s.runErr = err
		s.mu.Unlock()
	}()

	s.log.InfoContext(ctx, "session - start - ok", logging.User(claims.UserID()), "chats", len(ids))
	return nil
}

// Close disconnects realtime and waits for the read loop to finish. Safe to call when not started.
func (s *Session) Close() {
	s.mu.Lock()
	conn, handle, cancel, done := s.conn, s.handle, s.cancel, s.done
	s.conn, s.handle, s.cancel = nil, nil, nil
	s.mu.Unlock()

	if conn == nil {
		return
	}
	cancel()
	conn.Close()
	<-done
	handle.Close()
}

// Done is closed when the realtime read loop exits; nil when not started
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the error the last realtime read loop ended with
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

func (s *Session) activeConn() (Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, ErrNotStarted
	}
	return s.conn, nil
}

func chatIDs(chats []models.Chat) []string {
	ids := make([]string, 0, len(chats))
	for _, c := range chats {
		ids = append(ids, c.ID)
	}
	return ids
}
