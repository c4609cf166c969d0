// Package apperr описывает таксономию ошибок бизнес-уровня и единое место,
// где ошибки хранилища и токенов переводятся в эту таксономию.
package apperr

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adarsh1278/HSass-backend/internal/lib/jwt"
)

// Kind — класс ошибки, определяющий HTTP статус ответа.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

// pgUniqueViolation — SQLSTATE нарушения уникального индекса.
const pgUniqueViolation = "23505"

// HTTPStatus возвращает HTTP статус для класса ошибки.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error — ошибка с классом и сообщением, безопасным для клиента.
// Err хранит исходную причину и в ответ клиенту не попадает.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap возвращает копию ошибки с причиной cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

func BadRequest(msg string) *Error      { return &Error{Kind: KindBadRequest, Message: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }

// From переводит произвольную ошибку в *Error.
//
// Порядок важен: уже классифицированная ошибка возвращается как есть, затем
// распознаются ошибки PostgreSQL, отсутствие записи и ошибки токенов.
// Всё остальное становится KindInternal.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return Conflict("duplicate field value entered").Wrap(err)
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NotFound("record not found").Wrap(err)
	case errors.Is(err, jwt.ErrExpiredToken):
		return Unauthenticated("token expired").Wrap(err)
	case errors.Is(err, jwt.ErrInvalidToken):
		return Unauthenticated("invalid token").Wrap(err)
	}

	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением уникального индекса.
// Если constraint не пуст, дополнительно сверяется имя ограничения.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// KindOf возвращает класс ошибки после перевода через From.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	return From(err).Kind
}
