package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/ananyakrishnan/safarnama-backend/internal/users"
	"github.com/ananyakrishnan/safarnama-backend/pkg/db"
	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
	"github.com/ananyakrishnan/safarnama-backend/pkg/security"
)

// Signup provisions an account and immediately signs the traveler in.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	email, err := s.normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.checkPasswordPolicy(req.Password); err != nil {
		return nil, err
	}

	language := enums.LanguageEnglish
	if strings.TrimSpace(req.Language) != "" {
		parsed, err := enums.ParseLanguage(req.Language)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid language")
		}
		language = parsed
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	passwordHash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  deriveDisplayName(req.DisplayName, email),
		AvatarURL:    avatarURL(s.policy.AvatarBaseURL, email),
		Language:     language,
	})
	if err != nil {
		// Concurrent signups can slip past the lookup above.
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: users.FromModel(user), Tokens: *tokens}, nil
}

// normalizeEmail lowercases and trims the address and enforces the configured
// domain restriction.
func (s *service) normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}

	domain := strings.ToLower(strings.TrimSpace(s.policy.AllowedEmailDomain))
	if domain != "" && email[at+1:] != domain {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("email must be a @%s address", domain))
	}

	return email, nil
}

func (s *service) checkPasswordPolicy(password string) error {
	min := s.policy.MinPasswordLength
	if min <= 0 {
		min = 6
	}
	if len(password) < min {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", min))
	}
	return nil
}

// deriveDisplayName falls back to the email local part when the traveler
// does not pick a name.
func deriveDisplayName(requested, email string) string {
	name := strings.TrimSpace(requested)
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// avatarURL builds a deterministic avatar from the email so the same account
// always renders the same face.
func avatarURL(base, email string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/?")
	if base == "" {
		return ""
	}
	return base + "?seed=" + url.QueryEscape(email)
}
