package domain

import "time"

// OrderStatus — статус заказа на стороне бэкенда.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusInTransit OrderStatus = "IN_TRANSIT"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCanceled  OrderStatus = "CANCELED"
)

// KnownStatuses — допустимые значения статуса (для валидации фильтров и форм).
var KnownStatuses = []OrderStatus{StatusPending, StatusInTransit, StatusDelivered, StatusCanceled}

// EditableStatuses — статусы, которые можно выставить вручную.
// CANCELED выставляется только операцией отмены.
var EditableStatuses = []OrderStatus{StatusPending, StatusInTransit, StatusDelivered}

// IsValid — true, если значение входит в известный набор статусов.
func (s OrderStatus) IsValid() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal — true для терминальных статусов: дальнейшие изменения в UI недоступны.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// Order — заказ доставки. Мастер-копия живёт на бэкенде,
// здесь всегда кэшированная read-through копия.
type Order struct {
	ID             string      `json:"id"`
	TrackingNumber string      `json:"trackingNumber"`
	SenderName     string      `json:"senderName"`
	RecipientName  string      `json:"recipientName"`
	Origin         string      `json:"origin"`
	Destination    string      `json:"destination"`
	Status         OrderStatus `json:"status"`
	User           *User       `json:"user,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// CanCancel — отмена доступна только для PENDING.
func (o *Order) CanCancel() bool {
	return o != nil && o.Status == StatusPending
}

// CreateOrder — данные формы создания заказа.
type CreateOrder struct {
	SenderName    string `json:"senderName"`
	RecipientName string `json:"recipientName"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
}

// PageMeta — метаданные пагинации из ответа бэкенда.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// OrderPage — страница списка заказов.
type OrderPage struct {
	Orders []Order  `json:"data"`
	Meta   PageMeta `json:"meta"`
}
