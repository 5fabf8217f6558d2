package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ananyakrishnan/safarnama-backend/api/responses"
	"github.com/ananyakrishnan/safarnama-backend/api/validators"
	"github.com/ananyakrishnan/safarnama-backend/internal/users"
	"github.com/ananyakrishnan/safarnama-backend/pkg/db/models"
	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
	"github.com/ananyakrishnan/safarnama-backend/pkg/logger"
)

type profileReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type languageWriter interface {
	profileReader
	UpdateLanguage(ctx context.Context, id uuid.UUID, language enums.Language) error
}

type updateLanguageRequest struct {
	Language string `json:"language" validate:"required,oneof=en hi"`
}

// Me returns the caller's public profile.
func Me(repo profileReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
			return
		}

		responses.WriteSuccess(w, users.FromModel(user))
	}
}

// MeUpdateLanguage stores the caller's journal language preference.
func MeUpdateLanguage(repo languageWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateLanguageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		language, err := enums.ParseLanguage(body.Language)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid language"))
			return
		}

		if err := repo.UpdateLanguage(r.Context(), userID, language); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update language"))
			return
		}

		user, err := repo.FindByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
			return
		}

		responses.WriteSuccess(w, users.FromModel(user))
	}
}
