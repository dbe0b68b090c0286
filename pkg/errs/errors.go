package errs

import (
	"errors"
	"net/http"
)

var (
	ErrInternalServer = errors.New("Something went wrong")
	ErrClient         = errors.New("Bad request")

	ErrInvalidCredentials = errors.New("Email or password is incorrect")
	ErrInvalidToken       = errors.New("Invalid or expired token")
	ErrRefreshWindow      = errors.New("The refresh window for this token has passed")
	ErrNoPermission       = errors.New("You don't have authority to access this route")

	ErrEmailAlreadyUsed = errors.New("Email has already been used")
	ErrRoleNameTaken    = errors.New("A role with this name already exists")
	ErrBookNameTaken    = errors.New("A book with this name already exists")

	ErrRoleNotFound = errors.New("No role found with this id")
	ErrBookNotFound = errors.New("No book found with this id")
	ErrUserNotFound = errors.New("No user found with this id")

	ErrRoleInUse      = errors.New("One or more users are associated with this role")
	ErrBookIsBorrowed = errors.New("This book is currently borrowed and can not be deleted")

	ErrBookAlreadyBorrowedByYou = errors.New("You have already borrowed this book")
	ErrBookBorrowedByAnother    = errors.New("This book is already borrowed by another user")
	ErrBookNotBorrowed          = errors.New("No one has borrowed this book yet")
	ErrInvalidBorrowRecord      = errors.New("Invalid borrow id or book id")
	ErrBorrowAlreadyReturned    = errors.New("This borrow record has already been returned")
	ErrNotTheBorrower           = errors.New("You haven't borrowed this book")
)

// ValidationError carries the first failing field message of a request payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

var errorMap = map[error]int{
	ErrInternalServer: http.StatusInternalServerError,
	ErrClient:         http.StatusBadRequest,

	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrRefreshWindow:      http.StatusUnauthorized,
	ErrNoPermission:       http.StatusForbidden,

	ErrEmailAlreadyUsed: http.StatusPreconditionFailed,
	ErrRoleNameTaken:    http.StatusPreconditionFailed,
	ErrBookNameTaken:    http.StatusPreconditionFailed,

	ErrRoleNotFound: http.StatusNotFound,
	ErrBookNotFound: http.StatusNotFound,
	ErrUserNotFound: http.StatusNotFound,

	ErrRoleInUse:      http.StatusPreconditionFailed,
	ErrBookIsBorrowed: http.StatusPreconditionFailed,

	ErrBookAlreadyBorrowedByYou: http.StatusBadRequest,
	ErrBookBorrowedByAnother:    http.StatusBadRequest,
	ErrBookNotBorrowed:          http.StatusBadRequest,
	ErrInvalidBorrowRecord:      http.StatusBadRequest,
	ErrBorrowAlreadyReturned:    http.StatusBadRequest,
	ErrNotTheBorrower:           http.StatusBadRequest,
}

func GetErrorStatusCode(err error) int {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusPreconditionFailed
	}

	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = http.StatusInternalServerError
	}
	return errStatusCode
}
