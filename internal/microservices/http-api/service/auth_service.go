package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/mailer"
	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	msgUsernameTaken = "A user with that username already exists."
	msgEmailTaken    = "A user with that email already exists."
)

// Claims are carried by access tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.SignUpResponse, error)
	IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
	// Authenticate validates the token and loads its user, so role changes
	// apply to tokens already issued.
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codeRepo       repository.ConfirmationCodeRepository
	mailer         mailer.Mailer
	log            *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
	codeTTL        time.Duration
	limits         config.Limits
	email          config.EmailTemplate
	now            func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.ConfirmationCodeRepository,
	m mailer.Mailer,
	cfg *config.Config,
	log *slog.Logger,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codeRepo:       codeRepo,
		mailer:         m,
		log:            log,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
		limits:         cfg.Limits,
		email:          cfg.Email,
		now:            time.Now,
	}
}

// SignUp gets or creates the (username, email) user and mails a fresh
// confirmation code. Signing up again with the same pair replaces the code.
func (s *authService) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.SignUpResponse, error) {
	if err := req.Validate(s.limits); err != nil {
		return nil, err
	}

	user, err := s.getOrCreateUser(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}

	code := auth.NewConfirmationCode()
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}
	now := s.now()
	if err := s.codeRepo.Upsert(ctx, &models.ConfirmationCode{
		UserID:    user.ID,
		CodeHash:  hash,
		ExpiresAt: now.Add(s.codeTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	// delivery failures are logged, never surfaced to the client
	body := fmt.Sprintf(s.email.Body, user.Username, code)
	if err := s.mailer.Send(ctx, user.Email, s.email.Subject, body); err != nil {
		metrics.RecordEmailFailure()
		s.log.ErrorContext(ctx, "failed to send confirmation code", "username", user.Username, "error", err)
	}
	metrics.RecordSignup()

	return &dto.SignUpResponse{Email: user.Email, Username: user.Username}, nil
}

// getOrCreateUser resolves the submitted pair. A username or email that
// belongs to a different account is reported against that field.
func (s *authService) getOrCreateUser(ctx context.Context, username, email string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			return nil, dto.NewFieldError("username", msgUsernameTaken)
		}
		return user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, dto.NewFieldError("email", msgEmailTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &models.User{Username: username, Email: email, Role: models.RoleUser}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent sign-up
		return nil, uniqueUserError(err)
	}
	return user, nil
}

// IssueToken exchanges a confirmation code for an access token. The code is
// consumed on success and kept on failure.
func (s *authService) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordTokenExchange("unknown_user")
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	stored, err := s.codeRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordTokenExchange("invalid")
			return nil, ErrInvalidConfirmationCode
		}
		return nil, err
	}

	if stored.Expired(s.now()) {
		metrics.RecordTokenExchange("invalid")
		return nil, ErrInvalidConfirmationCode
	}
	if err := auth.VerifyCode(stored.CodeHash, req.ConfirmationCode); err != nil {
		if errors.Is(err, auth.ErrCodeMismatch) {
			metrics.RecordTokenExchange("invalid")
			return nil, ErrInvalidConfirmationCode
		}
		return nil, fmt.Errorf("verify confirmation code: %w", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.codeRepo.Delete(ctx, user.ID); err != nil {
		return nil, err
	}
	metrics.RecordTokenExchange("issued")

	return &dto.TokenResponse{Token: token}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Type:     "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != "access" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// deleted after the token was issued
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// uniqueUserError turns a users unique violation into a field error.
func uniqueUserError(err error) error {
	switch {
	case repository.IsUniqueViolation(err, repository.ConstraintUsernameKey):
		return dto.NewFieldError("username", msgUsernameTaken)
	case repository.IsUniqueViolation(err, repository.ConstraintEmailKey):
		return dto.NewFieldError("email", msgEmailTaken)
	}
	return err
}
