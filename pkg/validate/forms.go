package validate

import (
	"errors"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
)

// ErrInvalidForm — базовая (sentinel error) ошибка валидации формы.
var ErrInvalidForm = errors.New("form validation failed")

const (
	maxNameLen     = 120
	maxLocationLen = 200
	minPasswordLen = 6
)

// FieldErrors — ошибки по полям формы. Ключ — имя поля, значение — текст
// для показа рядом с полем. Пустая карта означает валидную форму.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return ErrInvalidForm.Error() + ": " + strings.Join(fields, ", ")
}

func (e FieldErrors) Unwrap() error { return ErrInvalidForm }

// CreateOrder — проверка формы нового заказа до обращения к бэкенду.
func CreateOrder(req domain.CreateOrder) FieldErrors {
	errs := FieldErrors{}

	checkRequired(errs, "senderName", req.SenderName, maxNameLen)
	checkRequired(errs, "recipientName", req.RecipientName, maxNameLen)
	checkRequired(errs, "origin", req.Origin, maxLocationLen)
	checkRequired(errs, "destination", req.Destination, maxLocationLen)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Credentials — проверка формы входа.
func Credentials(creds domain.Credentials) FieldErrors {
	errs := FieldErrors{}

	checkEmail(errs, creds.Email)
	if creds.Password == "" {
		errs["password"] = "password is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Registration — проверка формы регистрации.
func Registration(reg domain.Registration) FieldErrors {
	errs := FieldErrors{}

	checkEmail(errs, reg.Email)
	checkRequired(errs, "name", reg.Name, maxNameLen)
	switch {
	case reg.Password == "":
		errs["password"] = "password is required"
	case utf8.RuneCountInString(reg.Password) < minPasswordLen:
		errs["password"] = "password must be at least 6 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkRequired(errs FieldErrors, field, value string, maxLen int) {
	switch {
	case strings.TrimSpace(value) == "":
		errs[field] = field + " is required"
	case utf8.RuneCountInString(value) > maxLen:
		errs[field] = field + " is too long"
	}
}

func checkEmail(errs FieldErrors, email string) {
	if email == "" {
		errs["email"] = "email is required"
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "email is invalid"
	}
}
