package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/dotriacontordle/internal/dependencies/clock"
	"github.com/mcoot/dotriacontordle/internal/dependencies/random"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username and password are required")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Player    model.Player
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles players, credentials and sessions.
// Players live in the KV store; sessions are held in memory.
type Service struct {
	kv     storage.KV
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
	passwordCost    int
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	PasswordCost    int // bcrypt cost
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		PasswordCost:    bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(kv storage.KV, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		kv:              kv,
		clock:           clock,
		random:          random,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
		passwordCost:    cfg.PasswordCost,
	}
}

type playerRecord struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	IsGuest     bool      `json:"isGuest"`
	CreatedAt   time.Time `json:"createdAt"`
}

type credentialRecord struct {
	PlayerID     string    `json:"playerId"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func playerKey(id model.PlayerID) string {
	return "player:" + string(id)
}

func usernameKey(username string) string {
	return "username:" + username
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// CreateGuestPlayer creates an anonymous player and session
func (s *Service) CreateGuestPlayer(ctx context.Context, displayName string) (*Session, error) {
	player := model.Player{
		ID:          s.newPlayerID(),
		DisplayName: strings.TrimSpace(displayName),
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}
	if player.DisplayName == "" {
		player.DisplayName = "Guest"
	}

	if err := s.savePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("guest player created", slog.String("player_id", string(player.ID)))
	return s.createSession(player), nil
}

// RegisterPlayer creates a registered player account and session.
// Usernames are case-insensitive.
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, ErrInvalidUsername
	}

	if _, err := s.getCredentials(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := model.Player{
		ID:          s.newPlayerID(),
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
	}
	if player.DisplayName == "" {
		player.DisplayName = username
	}

	if err := s.savePlayer(ctx, player); err != nil {
		return nil, err
	}
	cred := credentialRecord{
		PlayerID:     string(player.ID),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := storage.SetJSON(ctx, s.kv, usernameKey(username), cred); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username),
	)
	return s.createSession(player), nil
}

// Login authenticates a registered player and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	cred, err := s.getCredentials(ctx, normalizeUsername(username))
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed", slog.String("username", cred.Username))
		return nil, ErrInvalidCredentials
	}

	player, err := s.LookupPlayer(ctx, model.PlayerID(cred.PlayerID))
	if err != nil {
		return nil, err
	}

	return s.createSession(*player), nil
}

// LookupPlayer loads a player by ID
func (s *Service) LookupPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var rec playerRecord
	if err := storage.GetJSON(ctx, s.kv, playerKey(id), &rec); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return &model.Player{
		ID:          model.PlayerID(rec.ID),
		DisplayName: rec.DisplayName,
		IsGuest:     rec.IsGuest,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

// RegisteredPlayer returns the credentials for a username
func (s *Service) RegisteredPlayer(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	cred, err := s.getCredentials(ctx, normalizeUsername(username))
	if err != nil {
		return nil, err
	}
	return &model.RegisteredPlayer{
		PlayerID:     model.PlayerID(cred.PlayerID),
		Username:     cred.Username,
		PasswordHash: cred.PasswordHash,
		CreatedAt:    cred.CreatedAt,
		UpdatedAt:    cred.UpdatedAt,
	}, nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// GetPlayer returns the player for a session token
func (s *Service) GetPlayer(token string) (*model.Player, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	return &session.Player, nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Service) savePlayer(ctx context.Context, player model.Player) error {
	rec := playerRecord{
		ID:          string(player.ID),
		DisplayName: player.DisplayName,
		IsGuest:     player.IsGuest,
		CreatedAt:   player.CreatedAt,
	}
	if err := storage.SetJSON(ctx, s.kv, playerKey(player.ID), rec); err != nil {
		return fmt.Errorf("saving player: %w", err)
	}
	return nil
}

func (s *Service) getCredentials(ctx context.Context, username string) (credentialRecord, error) {
	var cred credentialRecord
	if err := storage.GetJSON(ctx, s.kv, usernameKey(username), &cred); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return cred, model.ErrPlayerNotFound
		}
		return cred, err
	}
	return cred, nil
}

func (s *Service) createSession(player model.Player) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     generateToken(),
		PlayerID:  player.ID,
		Player:    player,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

func (s *Service) newPlayerID() model.PlayerID {
	return model.PlayerID("p_" + s.random.UUID())
}

// generateToken returns an unguessable session token
func generateToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
