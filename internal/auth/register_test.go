package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"

	pkgAuth "github.com/ananyakrishnan/safarnama-backend/pkg/auth"
	"github.com/ananyakrishnan/safarnama-backend/pkg/db/models"
	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
	"github.com/ananyakrishnan/safarnama-backend/pkg/security"
)

func TestServiceSignupCreatesAccount(t *testing.T) {
	svc, sessions := buildTestService(t, nil)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email:    "  Ravi.Kumar@Gmail.com ",
		Password: "wander6",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if resp.User.Email != "ravi.kumar@gmail.com" {
		t.Fatalf("expected normalized email, got %q", resp.User.Email)
	}
	if resp.User.DisplayName != "ravi.kumar" {
		t.Fatalf("expected display name from email local part, got %q", resp.User.DisplayName)
	}
	if resp.User.AvatarURL != "https://avatars.test/svg?seed=ravi.kumar%40gmail.com" {
		t.Fatalf("unexpected avatar url %q", resp.User.AvatarURL)
	}
	if resp.User.Language != enums.LanguageEnglish {
		t.Fatalf("expected default language en, got %s", resp.User.Language)
	}
	if resp.User.ID == uuid.Nil {
		t.Fatalf("expected generated user id")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("token minted for %s, user is %s", claims.UserID, resp.User.ID)
	}
	if sessions.generatedFor != claims.ID {
		t.Fatalf("session generated for %q, token jti %q", sessions.generatedFor, claims.ID)
	}
	if resp.Tokens.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
}

func TestServiceSignupStoresVerifiableHash(t *testing.T) {
	repo := &stubUserRepo{}
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		Users:    repo,
		Sessions: sessions,
		JWT:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.Signup(context.Background(), SignupRequest{
		Email:    "ravi@gmail.com",
		Password: "wander6",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if repo.created == nil {
		t.Fatalf("expected user to be persisted")
	}
	if repo.created.PasswordHash == "wander6" {
		t.Fatalf("password stored in the clear")
	}
	ok, err := security.VerifyPassword("wander6", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestServiceSignupHonorsProfileFields(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email:       "meera@gmail.com",
		Password:    "wander6",
		DisplayName: "  Meera  ",
		Language:    "hi",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.User.DisplayName != "Meera" {
		t.Fatalf("expected trimmed display name, got %q", resp.User.DisplayName)
	}
	if resp.User.Language != enums.LanguageHindi {
		t.Fatalf("expected hindi preference, got %s", resp.User.Language)
	}
}

func TestServiceSignupConflict(t *testing.T) {
	existing := &models.User{
		ID:           uuid.New(),
		Email:        "taken@gmail.com",
		PasswordHash: "hash",
	}
	svc, _ := buildTestService(t, existing)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:    "Taken@gmail.com",
		Password: "wander6",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for registered email, got %v", err)
	}
}

func TestServiceSignupRejectsForeignDomain(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:    "ravi@outlook.com",
		Password: "wander6",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for foreign domain, got %v", err)
	}
}

func TestServiceSignupRejectsInvalidLanguage(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:    "ravi@gmail.com",
		Password: "wander6",
		Language: "fr",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for language, got %v", err)
	}
}

func TestDeriveDisplayName(t *testing.T) {
	cases := []struct {
		requested string
		email     string
		want      string
	}{
		{"", "asha@gmail.com", "asha"},
		{"  ", "asha@gmail.com", "asha"},
		{"Asha K", "asha@gmail.com", "Asha K"},
	}
	for _, tc := range cases {
		if got := deriveDisplayName(tc.requested, tc.email); got != tc.want {
			t.Fatalf("deriveDisplayName(%q, %q) = %q, want %q", tc.requested, tc.email, got, tc.want)
		}
	}
}
