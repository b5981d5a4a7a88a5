package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrSessionExpired = errors.New("session expired or unknown")

type SessionConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Sessions exchanges upstream logins for gateway sessions: the upstream
// token pair and user snapshot live in the session store, the browser only
// ever holds a signed session token referencing them.
type Sessions struct {
	auth  AuthGateway
	store SessionStore
	cfg   SessionConfig
}

func NewSessions(auth AuthGateway, store SessionStore, cfg SessionConfig) *Sessions {
	return &Sessions{auth: auth, store: store, cfg: cfg}
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (uc *Sessions) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, tokens, err := uc.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("upstream login: %w", err)
	}
	return uc.establish(ctx, user, tokens)
}

func (uc *Sessions) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	user, tokens, err := uc.auth.Register(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("upstream register: %w", err)
	}
	return uc.establish(ctx, user, tokens)
}

func (uc *Sessions) establish(ctx context.Context, user *domain.User, tokens TokenPair) (*LoginResult, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Tokens:    tokens,
		User:      user,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	signed, err := uc.mint(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &LoginResult{Token: signed, User: user}, nil
}

func (uc *Sessions) mint(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": uc.cfg.Issuer,
		"aud": uc.cfg.Audience,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(uc.cfg.TTL).Unix(),
		"sid": sessionID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
}

// Authenticate verifies a session token and loads the live session.
func (uc *Sessions) Authenticate(ctx context.Context, raw string) (*Session, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(uc.cfg.Secret), nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, ErrSessionExpired
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["iss"] != uc.cfg.Issuer || claims["aud"] != uc.cfg.Audience {
		return nil, ErrSessionExpired
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, ErrSessionExpired
	}
	sess, err := uc.store.Get(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Me refetches the profile and refreshes the session snapshot.
func (uc *Sessions) Me(ctx context.Context, sess *Session) (*domain.User, error) {
	user, err := uc.auth.Me(ctx, sess.Credentials())
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	sess.User = user
	if err := uc.store.Put(ctx, sess); err != nil {
		logging.FromCtx(ctx).Warn("session snapshot not refreshed", "error", err)
	}
	return user, nil
}

// SaveAccess persists a refreshed upstream access token. Wired as the
// upstream client's refresh hook.
func (uc *Sessions) SaveAccess(ctx context.Context, sessionID, access string) error {
	sess, err := uc.store.Get(ctx, sessionID)
	if err != nil || sess == nil {
		return ErrSessionExpired
	}
	sess.Tokens.Access = access
	return uc.store.Put(ctx, sess)
}

func (uc *Sessions) Logout(ctx context.Context, sess *Session) error {
	if err := uc.auth.Logout(ctx, sess.Credentials()); err != nil {
		logging.FromCtx(ctx).Warn("upstream logout failed", "error", err)
	}
	return uc.store.Delete(ctx, sess.ID)
}
