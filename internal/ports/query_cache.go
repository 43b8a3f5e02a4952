package ports

import "context"

// QueryLoader — функция загрузки значения для ключа (сетевой вызов к бэкенду).
type QueryLoader func(ctx context.Context) (any, error)

// QueryCache — кэш серверных чтений, адресуемый ключом «операция + параметры».
// Требования к реализации:
//   - параллельные Fetch по одному ключу объединяются в один in-flight вызов load,
//     все ожидающие получают общий результат;
//   - свежая запись отдаётся без вызова load;
//   - ошибка load ничего не кэширует и возвращается всем ожидающим;
//   - Invalidate по семейству удаляет все ключи семейства — следующий Fetch перезагрузит.
type QueryCache interface {
	// Fetch — вернуть значение по ключу; families — семейства сущностей,
	// от которых зависит ключ (используются при инвалидации).
	Fetch(ctx context.Context, key string, families []string, load QueryLoader) (any, error)

	// Invalidate — сбросить все ключи перечисленных семейств.
	Invalidate(ctx context.Context, families ...string)
}
