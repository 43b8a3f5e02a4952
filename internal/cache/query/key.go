package query

import (
	"fmt"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
)

// Семейства сущностей для инвалидации: каждый ключ кэша помечается
// семействами, от которых зависит, мутация сбрасывает семейства целиком.
const FamilyOrdersList = "orders-list"

// FamilyOrder — семейство конкретного заказа.
func FamilyOrder(id string) string { return "order:" + id }

// ListKey — ключ списка заказов: операция + полный кортеж параметров.
// Любое отличие страницы, размера или фильтров даёт отдельный ключ.
func ListKey(q domain.ListQuery) string {
	return fmt.Sprintf("orders-list|p=%d|l=%d|s=%s|sn=%s|rn=%s",
		q.Page, q.Limit, q.Status, q.SenderName, q.RecipientName)
}

// OrderKey — ключ одиночного заказа.
func OrderKey(id string) string { return "order-by-id|" + id }
