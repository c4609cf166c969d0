// Package response содержит единый формат JSON-ответов HTTP-обработчиков:
// {success, data, message}. Ошибки переводятся в HTTP статус через apperr.
package response

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/adarsh1278/HSass-backend/internal/lib/apperr"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
)

// Response описывает стандартную структуру JSON-ответа сервера.
// Stack заполняется только для ошибок и только вне production.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"invalid credentials"`
}

// OK возвращает успешный Response с данными и сообщением.
func OK(data any, message string) Response {
	return Response{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// Fail возвращает Response с ошибкой.
func Fail(message string) Response {
	return Response{Message: message}
}

type debugKey struct{}

// WithStack включает вывод цепочки ошибки в поле stack для всех запросов.
func WithStack(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), debugKey{}, enabled)))
		})
	}
}

func stackEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(debugKey{}).(bool)
	return enabled
}

// JSON пишет успешный ответ со статусом status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	render.Status(r, status)
	render.JSON(w, r, OK(data, message))
}

// Message пишет ответ с ошибкой и заданным статусом.
func Message(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, Fail(message))
}

// Error переводит err в HTTP статус и безопасное сообщение.
// Неклассифицированные ошибки дают 500 "internal server error".
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)
	resp := Fail(appErr.Message)
	if stackEnabled(r.Context()) {
		resp.Stack = err.Error()
	}
	render.Status(r, appErr.Kind.HTTPStatus())
	render.JSON(w, r, resp)
}

// ValidationError формирует Response на основе ошибок валидации.
// Каждое нарушение превращается в человеко-читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s characters long", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters long", err.Field(), err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than or equal to %s", err.Field(), err.Param()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Fail(strings.Join(errsMsgs, ", "))
}

// Bind декодирует JSON тело запроса в dst и проверяет его валидатором.
// При ошибке ответ 400 уже записан и Bind возвращает false.
func Bind(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		if errors.Is(err, io.EOF) {
			log.Error("request body is empty")
			Message(w, r, http.StatusBadRequest, "empty request")
			return false
		}
		log.Error("failed to decode request body", sl.Err(err))
		Message(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			log.Error("validation failed", sl.Err(err))
			Message(w, r, http.StatusBadRequest, "invalid request body")
			return false
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ValidationError(validateErrs))
		return false
	}
	return true
}
