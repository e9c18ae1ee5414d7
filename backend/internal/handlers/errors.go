package handlers

import (
	stderrors "errors"
	"strings"
	"unicode"

	"github.com/courtside-app/courtside/backend/internal/assistant"
	"github.com/courtside-app/courtside/backend/internal/auth"
	"github.com/courtside-app/courtside/backend/internal/discovery"
	"github.com/courtside-app/courtside/backend/internal/errors"
	"github.com/courtside-app/courtside/backend/internal/feed"
	"github.com/courtside-app/courtside/backend/internal/messaging"
	"github.com/courtside-app/courtside/backend/internal/middleware"
	"github.com/courtside-app/courtside/backend/internal/profile"
	"github.com/courtside-app/courtside/backend/internal/repository"
	"github.com/courtside-app/courtside/backend/internal/settings"
	"github.com/courtside-app/courtside/backend/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps a service error to its API error. Anything unrecognised
// is a 500, counted against component.
func respondError(c *gin.Context, component string, err error) {
	if apiErr := toAPIError(err); apiErr != nil {
		util.RespondWithAPIError(c, apiErr)
		return
	}
	middleware.RecordError("internal", component)
	util.RespondInternalError(c, "failed to process request", err)
}

func toAPIError(err error) *errors.APIError {
	var fieldErr *profile.FieldError
	if stderrors.As(err, &fieldErr) {
		return errors.ValidationError(fieldErr.Field, fieldErr.Message)
	}

	switch {
	case stderrors.Is(err, auth.ErrUserExists):
		return errors.AlreadyExists("email")
	case stderrors.Is(err, auth.ErrUsernameExists):
		return errors.AlreadyExists("username")
	case stderrors.Is(err, auth.ErrInvalidCredentials):
		return errors.Unauthorized("invalid email or password")

	case stderrors.Is(err, auth.ErrUserNotFound),
		stderrors.Is(err, feed.ErrUserNotFound),
		stderrors.Is(err, repository.ErrUserNotFound):
		return errors.NotFound("user")
	case stderrors.Is(err, messaging.ErrRecipientNotFound):
		return errors.NotFound("recipient")
	case stderrors.Is(err, feed.ErrPostNotFound):
		return errors.NotFound("post")
	case stderrors.Is(err, settings.ErrNotFound):
		return errors.NotFound("setting")

	case stderrors.Is(err, feed.ErrNotAuthor):
		return errors.Forbidden(err.Error())

	case stderrors.Is(err, feed.ErrContentRequired), stderrors.Is(err, feed.ErrContentTooLong):
		return errors.ValidationError("content", err.Error())
	case stderrors.Is(err, feed.ErrInvalidPostType):
		return errors.ValidationError("post_type", err.Error())
	case stderrors.Is(err, messaging.ErrSelfMessage):
		return errors.ValidationError("recipient_id", err.Error())
	case stderrors.Is(err, messaging.ErrBodyRequired), stderrors.Is(err, messaging.ErrBodyTooLong):
		return errors.ValidationError("body", err.Error())
	case stderrors.Is(err, discovery.ErrInvalidLocation):
		return errors.ValidationError("lat", err.Error())
	case stderrors.Is(err, discovery.ErrInvalidRadius):
		return errors.ValidationError("radius_km", err.Error())
	case stderrors.Is(err, discovery.ErrInvalidSkill):
		return errors.ValidationError("min_skill", err.Error())
	case stderrors.Is(err, discovery.ErrInvalidRole):
		return errors.ValidationError("role", err.Error())
	case stderrors.Is(err, assistant.ErrMessageRequired), stderrors.Is(err, assistant.ErrMessageTooLong):
		return errors.ValidationError("message", err.Error())
	case stderrors.Is(err, settings.ErrInvalidKey):
		return errors.ValidationError("key", err.Error())
	case stderrors.Is(err, settings.ErrValueTooLong):
		return errors.ValidationError("value", err.Error())

	case stderrors.Is(err, assistant.ErrRateLimited):
		return errors.RateLimited(err.Error())
	case stderrors.Is(err, assistant.ErrUnavailable):
		return errors.ServiceUnavailable("assistant")
	}
	return nil
}

// bindJSON decodes the body into dst. Malformed JSON is a 400; binding tag
// failures are a 422 naming the first bad field.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		util.RespondValidation(c, snakeCase(fe.Field()), fe.Field()+" failed "+fe.Tag()+" validation")
		return false
	}
	util.RespondBadRequest(c, "invalid request body")
	return false
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
