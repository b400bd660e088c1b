package auth

import "BrailleVoice/pkg/response"

var (
	ErrInvalidCredentials    = response.NewError(401, "invalid username or password")
	ErrOperatorNotFound      = response.NewError(404, "operator not found")
	ErrOperatorAlreadyExists = response.NewError(409, "operator already exists")
	ErrPasswordTooLong       = response.NewError(400, "password must be at most 72 bytes")
)
