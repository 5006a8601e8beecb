package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sortmyscene/internal/shared/config"
)

// localProvider implements the Provider contract against the local users
// table for self-contained deployments: bcrypt-hashed passwords and HS256
// token pairs. Sign-out is stateless; tokens simply age out.
type localProvider struct {
	repo   Repository
	config *config.Config
}

// NewLocalProvider returns a Provider backed by the users table.
func NewLocalProvider(repo Repository, cfg *config.Config) Provider {
	return &localProvider{
		repo:   repo,
		config: cfg,
	}
}

// JWTClaims are the local provider's token claims.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Type     string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

func (p *localProvider) SignUp(ctx context.Context, email, password string, profile Profile) (*Session, error) {
	exists, err := p.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &UserRecord{
		Email:    email,
		FullName: profile.FullName,
		Password: string(hashedPassword),
	}
	if err := p.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return p.issueSession(user)
}

func (p *localProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := p.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.issueSession(user)
}

func (p *localProvider) SignOut(ctx context.Context, accessToken string) error {
	// Stateless tokens; nothing to revoke server-side.
	return nil
}

func (p *localProvider) GetUser(ctx context.Context, accessToken string) (*User, error) {
	claims, err := p.parseToken(accessToken, "access")
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	record, err := p.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user := record.toUser()
	return &user, nil
}

func (p *localProvider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := p.parseToken(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	record, err := p.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return p.issueSession(record)
}

func (p *localProvider) issueSession(user *UserRecord) (*Session, error) {
	accessToken, err := p.signToken(user, "access", p.config.Auth.JWTExpiresIn)
	if err != nil {
		return nil, err
	}

	refreshToken, err := p.signToken(user, "refresh", p.config.Auth.RefreshExpiresIn)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(p.config.Auth.JWTExpiresIn.Seconds()),
		User:         user.toUser(),
	}, nil
}

func (p *localProvider) signToken(user *UserRecord, tokenType string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.config.Auth.JWTSecret))
}

func (p *localProvider) parseToken(tokenString, wantType string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(p.config.Auth.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.Type != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
