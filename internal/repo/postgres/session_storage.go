package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
)

// Проверка, что SessionStorage удовлетворяет порту.
var _ ports.SessionStorage = (*SessionStorage)(nil)

// SessionStorage — долговременное хранилище сессии в Postgres.
// Шлюз держит ровно одну сессию, поэтому таблица однорядная
// (slot = 1 закреплён CHECK-ограничением).
type SessionStorage struct {
	pool *pgxpool.Pool
}

// NewSessionStorage — конструктор.
func NewSessionStorage(pool *pgxpool.Pool) *SessionStorage { return &SessionStorage{pool: pool} }

// Load — вернуть оба слота; отсутствие строки — пустая сессия, не ошибка.
func (s *SessionStorage) Load(ctx context.Context) (string, []byte, error) {
	var (
		token   string
		rawUser []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT token, user_data FROM gateway_session WHERE slot = 1
	`).Scan(&token, &rawUser)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("select session: %w", err)
	}
	return token, rawUser, nil
}

// Save — идемпотентный upsert единственной строки.
func (s *SessionStorage) Save(ctx context.Context, token string, rawUser []byte) error {
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO gateway_session (slot, token, user_data, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET
			token = EXCLUDED.token,
			user_data = EXCLUDED.user_data,
			updated_at = now()
	`, token, rawUser); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Clear — удалить строку; повторный вызов безопасен.
func (s *SessionStorage) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM gateway_session WHERE slot = 1`); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
