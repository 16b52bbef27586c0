package services

import (
	"regexp"
	"strings"

	"github.com/shopfront/backend/internal/models"
)

// Registration field limits
const (
	minAccountLength  = 4
	maxAccountLength  = 20
	minPasswordLength = 4
	maxPasswordLength = 20
)

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// accountRegex validates account characters: letters and digits only
var accountRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ValidateRegistration normalizes req in place and checks it field by field.
// The password is checked in plaintext, so it must run before hashing.
// The returned error is a *models.ValidationError describing the first failing field.
func ValidateRegistration(req *models.RegisterRequest) error {
	req.Account = strings.TrimSpace(req.Account)
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	switch {
	case req.Account == "":
		return models.NewValidationError("account", "account is required")
	case len(req.Account) < minAccountLength || len(req.Account) > maxAccountLength:
		return models.NewValidationError("account", "account must be 4 to 20 characters long")
	case !accountRegex.MatchString(req.Account):
		return models.NewValidationError("account", "account may contain only letters and digits")
	}

	switch {
	case req.Password == "":
		return models.NewValidationError("password", "password is required")
	case len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength:
		return models.NewValidationError("password", "password must be 4 to 20 characters long")
	}

	switch {
	case req.Email == "":
		return models.NewValidationError("email", "email is required")
	case !emailRegex.MatchString(req.Email):
		return models.NewValidationError("email", "invalid email format")
	}

	if req.Name == "" {
		return models.NewValidationError("name", "name is required")
	}

	return nil
}
