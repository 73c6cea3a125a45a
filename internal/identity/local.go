package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"loadestimator/internal/apperrors"
)

type localUser struct {
	email        string
	passwordHash string
	confirmed    bool
	confirmCode  string
}

// LocalProvider is an in-process identity backend for development and
// tests. It mirrors the hosted provider's contract: accounts must
// confirm a 6-digit code before sign-in succeeds. The code is logged in
// place of email delivery.
type LocalProvider struct {
	mu       sync.Mutex
	users    map[string]*localUser
	secret   []byte
	tokenTTL time.Duration
	logr     *zap.Logger
}

func NewLocalProvider(secret string, tokenTTL time.Duration, logr *zap.Logger) *LocalProvider {
	if secret == "" {
		// ephemeral secret: tokens do not survive a restart
		secret = uuid.New().String()
	}
	return &LocalProvider{
		users:    make(map[string]*localUser),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logr:     logr,
	}
}

func (p *LocalProvider) SignUp(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" {
		return apperrors.InvalidInput("username and email are required")
	}
	if err := checkPasswordPolicy(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[username]; exists {
		return apperrors.InvalidInput("username already exists")
	}

	code := confirmationCode()
	p.users[username] = &localUser{
		email:        email,
		passwordHash: string(hash),
		confirmCode:  code,
	}

	p.logr.Info("confirmation code issued",
		zap.String("username", username),
		zap.String("code", code))
	return nil
}

func (p *LocalProvider) ConfirmSignUp(ctx context.Context, username, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[username]
	if !ok {
		return apperrors.AuthFailure("unknown user")
	}
	if u.confirmed {
		return nil
	}
	if code != u.confirmCode {
		return apperrors.AuthFailure("verification code mismatch")
	}
	u.confirmed = true
	return nil
}

func (p *LocalProvider) SignIn(ctx context.Context, username, password string) (*Session, error) {
	p.mu.Lock()
	u, ok := p.users[username]
	p.mu.Unlock()

	if !ok {
		return nil, apperrors.AuthFailure("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return nil, apperrors.AuthFailure("invalid credentials")
	}
	if !u.confirmed {
		return nil, apperrors.NotConfirmed(username)
	}

	now := time.Now().UTC()
	exp := now.Add(p.tokenTTL)
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"jti": uuid.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Username:    username,
		AccessToken: token,
		ExpiresAt:   exp,
	}, nil
}

func (p *LocalProvider) Authenticate(ctx context.Context, accessToken string) (string, error) {
	token, err := jwt.Parse(accessToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil || !token.Valid {
		return "", apperrors.AuthFailure("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.AuthFailure("invalid token claims")
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return "", apperrors.AuthFailure("token missing subject")
	}
	return username, nil
}

// checkPasswordPolicy matches the pool policy: at least 8 characters
// with one uppercase letter and one digit.
func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return apperrors.InvalidInput("password must be at least 8 characters")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return apperrors.InvalidInput("password must contain an uppercase letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return apperrors.InvalidInput("password must contain a digit")
	}
	return nil
}

func confirmationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
