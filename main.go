package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"livechat/api"
	"livechat/config"
	"livechat/database"
	"livechat/logging"
	"livechat/models"
	"livechat/realtime"
	"livechat/session"
	"livechat/store"
	"livechat/telemetry"
)

func main() {
	cfg := config.Load()
	logger := logging.New(*cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, *cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("main - telemetry - shutdown failed", logging.Err(err))
		}
	}()

	db, err := database.Open(cfg.Credentials.DBPath, logger)
	if err != nil {
		log.Fatalf("Failed to open token database: %v", err)
	}
	defer db.Close()
	tokens := database.NewTokenStore(db, cfg.Credentials.Passphrase, logger)

	client := api.New(cfg.APIURL(), cfg.API.Timeout, tokens, logger,
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst))
	rt := cfg.Realtime
	sess := session.New(session.Options{
		API:         client,
		Credentials: tokens,
		Dial: func(ctx context.Context, token string) (session.Conn, error) {
			conn, err := realtime.Dial(ctx, rt.URL, token, realtime.Options{
				HandshakeTimeout: rt.HandshakeTimeout,
				WriteTimeout:     rt.WriteTimeout,
				ReadLimit:        rt.ReadLimit,
			}, logger)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		Log: logger,
	})

	if err := authenticate(ctx, sess, cfg.Account, logger); err != nil {
		log.Fatalf("Failed to authenticate: %v", err)
	}

	watch(sess, logger)

	if err := sess.Start(ctx); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	defer sess.Close()

	logger.Info("main - livechat client running", "api", cfg.APIURL(), "realtime", rt.URL)

	select {
	case <-ctx.Done():
		logger.Info("main - shutting down")
	case <-sess.Done():
		if err := sess.Err(); err != nil {
			logger.Error("main - realtime connection lost", logging.Err(err))
		}
	}
}

// authenticate reuses a stored token when it is still valid and otherwise signs in
// with the configured account
func authenticate(ctx context.Context, sess *session.Session, acct *config.AccountConfig, logger *slog.Logger) error {
	userID, err := sess.CurrentUserID(ctx)
	if err == nil {
		logger.Info("main - using stored token", logging.User(userID))
		return nil
	}
	if !errors.Is(err, session.ErrNotAuthenticated) && !errors.Is(err, session.ErrTokenExpired) {
		return err
	}
	if acct.Username == "" || acct.Password == "" {
		return errors.New("no valid stored token; set LIVECHAT_USERNAME and LIVECHAT_PASSWORD")
	}
	_, err = sess.SignIn(ctx, models.SignInParams{Username: acct.Username, Password: acct.Password})
	return err
}

// watch logs store changes so the running client shows what it receives
func watch(sess *session.Session, logger *slog.Logger) {
	var (
		mu          sync.Mutex
		lastVersion uint64
	)
	sess.Chats().Subscribe(func(st store.State) {
		mu.Lock()
		defer mu.Unlock()
		if st.Version <= lastVersion {
			return
		}
		lastVersion = st.Version
		attrs := []any{"version", st.Version, "chats", len(st.Chats), "messages", len(st.Messages)}
		if id := st.CurrentChatID(); id != "" {
			attrs = append(attrs, logging.Chat(id))
		}
		if len(st.Chats) > 0 && st.Chats[0].LastMessage != nil {
			attrs = append(attrs, "latest", st.Chats[0].LastMessage.Content)
		}
		logger.Info("main - chats changed", attrs...)
	})
	sess.Friends().Subscribe(func(st store.FriendState) {
		logger.Info("main - friends changed", "friends", len(st.Friends), "requests", len(st.Requests))
	})
}
