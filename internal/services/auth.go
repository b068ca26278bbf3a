package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/domain/user"
	"github.com/yungbote/coincollector-backend/internal/platform/apierr"
	"github.com/yungbote/coincollector-backend/internal/platform/ctxutil"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

// AuthResult is a freshly opened session for a user.
type AuthResult struct {
	User      *types.User
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	// Logout drops the session carried by the request data in ctx.
	Logout(ctx context.Context) error
	// Authenticate verifies a session token and returns the caller it belongs to.
	Authenticate(ctx context.Context, token string) (*ctxutil.RequestData, error)
	SessionTTL() time.Duration
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type authService struct {
	log        *logger.Logger
	users      aggregates.UserStorage
	sessions   SessionStore
	secret     []byte
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(
	log *logger.Logger,
	users aggregates.UserStorage,
	sessions SessionStore,
	secret string,
	sessionTTL time.Duration,
) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &authService{
		log:        log.With("service", "AuthService"),
		users:      users,
		sessions:   sessions,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (as *authService) SessionTTL() time.Duration { return as.sessionTTL }

func (as *authService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if err := user.ValidateUsername(username); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "validation", err)
	}
	if err := user.ValidatePassword(password); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "validation", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := types.NewUser(username, string(hash))
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "validation", err)
	}
	if err := as.users.Save(dbctx.New(ctx), u); err != nil {
		if domainagg.IsCode(err, domainagg.CodeConflict) {
			return nil, apierr.New(http.StatusConflict, "username_taken", errors.New("username already taken"))
		}
		return nil, err
	}
	as.log.Info("User registered", "user_id", u.ID)
	return as.openSession(ctx, u)
}

func (as *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	invalid := apierr.New(http.StatusBadRequest, "invalid_credentials", errors.New("invalid username or password"))
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid
	}
	u, err := as.users.GetByUsername(dbctx.New(ctx), username)
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		as.log.Debug("Password mismatch", "user_id", u.ID)
		return nil, invalid
	}
	return as.openSession(ctx, u)
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == "" {
		return apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("not logged in"))
	}
	if err := as.sessions.Delete(ctx, rd.SessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (as *authService) Authenticate(ctx context.Context, token string) (*ctxutil.RequestData, error) {
	unauthorized := func(cause error) error {
		return apierr.New(http.StatusUnauthorized, "unauthorized", cause)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, unauthorized(errors.New("missing session"))
	}
	claims := &sessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(as.now),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return as.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, unauthorized(errors.New("invalid session"))
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, unauthorized(errors.New("invalid session"))
	}
	userID, err := as.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, unauthorized(errors.New("session expired"))
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if userID != claims.Subject {
		as.log.Warn("Session subject mismatch", "session_id", claims.SessionID)
		return nil, unauthorized(errors.New("invalid session"))
	}
	return &ctxutil.RequestData{UserID: userID, SessionID: claims.SessionID}, nil
}

func (as *authService) openSession(ctx context.Context, u *types.User) (*AuthResult, error) {
	sess, err := as.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	expiresAt := as.now().Add(as.sessionTTL)
	if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(expiresAt) {
		expiresAt = sess.ExpiresAt
	}
	claims := sessionClaims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(as.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &AuthResult{User: u, Token: signed, ExpiresAt: expiresAt}, nil
}
