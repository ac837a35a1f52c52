// Package errors defines the error taxonomy shared by the core, the shell and
// the HTTP transport.
//
// AppError carries a type (VALIDATION, NOT_FOUND, PARSING, STORAGE, CONFIG,
// PRECONDITION) and an optional cause, so callers can branch with
// errors.Is / errors.As on the cause or with IsType on the category.
// ErrorHandler renders any error as an RFC 7807 problem document.
package errors
