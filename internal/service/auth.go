package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/model"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/repository"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/validation"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidToken    = errors.New("invalid or expired login token")
	ErrInvalidSession  = errors.New("invalid or expired session")
	ErrEmailDispatch   = errors.New("failed to send login email")
)

// Claims is the access-token payload. Validity is purely a function of the
// signature and expiry; no database lookup happens on verification. The flip
// side is that logout cannot recall an already-issued access token before its
// expiry - only the refresh path is revocable.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type AuthService struct {
	userRepository    repository.UserRepository
	tokenRepository   repository.TokenRepository
	sessionRepository repository.SessionRepository
	emailSender       LoginLinkSender
	jwtSecret         string
	jwtExpiry         time.Duration
	magicLinkExpiry   time.Duration
	refreshExpiry     time.Duration
	frontendURL       string
	allowedOrigins    []string
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	sessionRepository repository.SessionRepository,
	emailSender LoginLinkSender,
	jwtSecret string,
	jwtExpiry time.Duration,
	magicLinkExpiry time.Duration,
	refreshExpiry time.Duration,
	frontendURL string,
	allowedOrigins []string,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		tokenRepository:   tokenRepository,
		sessionRepository: sessionRepository,
		emailSender:       emailSender,
		jwtSecret:         jwtSecret,
		jwtExpiry:         jwtExpiry,
		magicLinkExpiry:   magicLinkExpiry,
		refreshExpiry:     refreshExpiry,
		frontendURL:       frontendURL,
		allowedOrigins:    allowedOrigins,
	}
}

// RequestLogin creates a magic-link token for an existing active account and
// mails the login URL. The link points at the request's declared origin when
// that origin is allow-listed, so preview deployments get working links
// without extra configuration.
func (s *AuthService) RequestLogin(ctx context.Context, email, clientIP, userAgent, origin string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive() {
		return ErrAccountNotFound
	}

	magicToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.LoginToken{
		Email:     user.Email,
		Token:     magicToken,
		ExpiresAt: time.Now().Add(s.magicLinkExpiry),
		ClientIP:  clientIP,
		UserAgent: userAgent,
	}
	err = s.tokenRepository.Create(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	loginURL := fmt.Sprintf("%s/login?token=%s", s.magicLinkBaseURL(origin), magicToken)

	err = s.emailSender.SendLoginLink(ctx, user.Email, loginURL)
	if err != nil {
		slog.Error("failed to send magic link email", "error", err, "email", user.Email)
		return fmt.Errorf("%w: %v", ErrEmailDispatch, err)
	}

	slog.Info("magic link sent", "email", user.Email, "ip", clientIP)
	return nil
}

// RedeemToken consumes a magic-link token exactly once and opens a session.
// Consumption is a single conditional UPDATE, so a token raced by concurrent
// redemption attempts mints at most one session.
func (s *AuthService) RedeemToken(ctx context.Context, token, clientIP, userAgent string) (*model.User, string, string, error) {
	loginToken, err := s.tokenRepository.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, "", "", ErrInvalidToken
		}
		return nil, "", "", fmt.Errorf("failed to consume token: %w", err)
	}

	user, err := s.userRepository.ByEmail(ctx, loginToken.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", "", ErrAccountNotFound
		}
		return nil, "", "", fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive() {
		return nil, "", "", ErrAccountNotFound
	}

	err = s.userRepository.TouchLastLogin(ctx, user.ID, time.Now())
	if err != nil {
		slog.Warn("failed to update last login", "error", err, "user_id", user.ID)
	}

	refreshToken, err := s.GenerateToken()
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &model.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.refreshExpiry),
		Active:       true,
		ClientIP:     clientIP,
		UserAgent:    userAgent,
	}
	err = s.sessionRepository.Create(ctx, session)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("user logged in via magic link", "user_id", user.ID, "email", user.Email)
	return user, accessToken, refreshToken, nil
}

// Refresh exchanges a usable refresh token for a new access token. The
// refresh token itself is not rotated: the same token stays valid until its
// own expiry or logout. Rotation would buy theft detection at the cost of the
// client having to handle replaced tokens mid-flight; last_used_at keeps
// misuse at least visible in the audit trail.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.User, string, error) {
	session, err := s.sessionRepository.ByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, "", ErrInvalidSession
		}
		return nil, "", fmt.Errorf("failed to get session: %w", err)
	}

	user, err := s.userRepository.ByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrAccountNotFound
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive() {
		return nil, "", ErrAccountNotFound
	}

	err = s.sessionRepository.TouchLastUsed(ctx, session.ID, time.Now())
	if err != nil {
		slog.Warn("failed to update session last used", "error", err, "session_id", session.ID)
	}

	accessToken, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return user, accessToken, nil
}

// Logout revokes the session holding refreshToken. Unknown and already
// revoked tokens are fine; logout never fails visibly to the client.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	err := s.sessionRepository.Revoke(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// CurrentUser resolves a verified identity back to the stored account.
// Accounts deactivated after token issuance stop resolving here even though
// the token itself still verifies.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive() {
		return nil, ErrAccountNotFound
	}
	return user, nil
}

// GenerateToken returns a 256-bit random token, hex-encoded. Used for both
// magic-link tokens and refresh tokens.
func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) VerifyJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// magicLinkBaseURL picks the base for the login URL: the declared origin when
// it is on the CORS allow-list, else the configured frontend URL.
func (s *AuthService) magicLinkBaseURL(origin string) string {
	origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
	for _, o := range s.allowedOrigins {
		if o == origin {
			return origin
		}
	}
	return strings.TrimSuffix(s.frontendURL, "/")
}
