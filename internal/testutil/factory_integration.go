//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeSession — валидная сессия для тестов хранилища.
func MakeSession(opts ...func(*domain.Session)) domain.Session {
	id := "u-" + UniqSuffix()

	s := domain.Session{
		Token: "jwt-" + UniqSuffix(),
		User: domain.User{
			ID:    id,
			Email: id + "@example.com",
			Name:  "Test User",
			Role:  domain.RoleCustomer,
		},
	}

	for _, fn := range opts {
		fn(&s)
	}
	return s
}

func WithRole(role domain.Role) func(*domain.Session) {
	return func(s *domain.Session) { s.User.Role = role }
}

func WithToken(token string) func(*domain.Session) {
	return func(s *domain.Session) { s.Token = token }
}

// MakeAuditEvent — валидное событие аудита для тестов публикации.
func MakeAuditEvent(action string) ports.AuditEvent {
	return ports.AuditEvent{
		ID:             "ev-" + UniqSuffix(),
		Actor:          "user-" + UniqSuffix() + "@example.com",
		Action:         action,
		OrderID:        "o-" + UniqSuffix(),
		TrackingNumber: "TRK-" + UniqSuffix(),
		At:             time.Now().UTC().Truncate(time.Second),
	}
}
