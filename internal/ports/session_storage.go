package ports

import "context"

// SessionStorage — долговременное хранилище сессии: два слота,
// token (непрозрачная строка) и user (сериализованная запись).
// Валидное состояние — оба слота заполнены или оба пусты;
// контроль этого инварианта лежит на session.Store, не на хранилище.
type SessionStorage interface {
	// Load — вернуть содержимое обоих слотов; отсутствующий слот — пустое значение, не ошибка.
	Load(ctx context.Context) (token string, rawUser []byte, err error)

	// Save — атомарно записать оба слота.
	Save(ctx context.Context, token string, rawUser []byte) error

	// Clear — очистить оба слота; идемпотентна.
	Clear(ctx context.Context) error
}
