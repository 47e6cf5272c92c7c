package services

import "errors"

// Validation sentinels carry the exact user-facing message; the HTTP layer
// maps them to the 400 envelope verbatim. First failing check wins, there is
// no aggregation.
var (
	ErrMissingFields    = errors.New("username, password and email are required")
	ErrInvalidUsername  = errors.New("username must be 3-20 characters of letters, digits or underscores")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already registered")

	ErrMissingCredentials = errors.New("username and password are required")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so the response does not reveal which field was wrong.
	ErrInvalidCredentials = errors.New("username or password incorrect")

	ErrMissingUploadFields = errors.New("title, description and image are required")
	ErrTitleTooLong        = errors.New("title must not exceed 100 characters")
	ErrInvalidDescription  = errors.New("description must be between 10 and 2000 characters")
	ErrNotAnImage          = errors.New("only image files can be uploaded")
	ErrImageTooLarge       = errors.New("image must not exceed 10MB")
)

// IsValidationError reports whether err is one of the input-validation
// sentinels above.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrMissingFields, ErrInvalidUsername, ErrPasswordTooShort, ErrInvalidEmail,
		ErrUsernameTaken, ErrEmailTaken, ErrMissingCredentials, ErrInvalidCredentials,
		ErrMissingUploadFields, ErrTitleTooLong, ErrInvalidDescription, ErrNotAnImage,
		ErrImageTooLarge,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
