// Package services contains server-side business logic. This file implements
// UserService: registration, login with JWT issuance, and profile lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/server/auth"
	"github.com/dmitrijs2005/gallery/internal/server/config"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/repomanager"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegexp    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const pgUniqueViolation = "23505"

// UserService provides authentication-related operations:
//   - Register: validate input and create users
//   - Login: verify credentials and mint an identity token
//   - CurrentUser: load the profile for an authenticated id
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register validates the input in a fixed order (missing fields, username
// shape, password length, email shape, username uniqueness, email
// uniqueness), hashes the password, and inserts the user.
//
// The two point lookups are advisory: they produce the friendlier message
// when a duplicate is visible, but the unique indexes are what actually
// guarantee uniqueness, so a constraint violation from the insert is mapped
// to the same sentinels.
func (s *UserService) Register(ctx context.Context, username, password, email string) error {
	if username == "" || password == "" || email == "" {
		return ErrMissingFields
	}
	if !usernameRegexp.MatchString(username) {
		return ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < 6 {
		return ErrPasswordTooShort
	}
	if !emailRegexp.MatchString(email) {
		return ErrInvalidEmail
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return common.ErrorInternal
	}

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrorInternal
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if _, err := repo.Create(ctx, user); err != nil {
		if sentinel := mapUniqueViolation(err); sentinel != nil {
			return sentinel
		}
		return common.ErrorInternal
	}

	return nil
}

// mapUniqueViolation translates a Postgres unique-constraint error into the
// matching validation sentinel, or returns nil for unrelated errors.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	if pgErr.ConstraintName == "users_email_key" {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// Login verifies the credentials and, on success, returns a signed identity
// token plus the user. An unknown username and a wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// CurrentUser returns the profile for the given user id.
func (s *UserService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
