package domain

// AllowedLimits — допустимые размеры страницы списка заказов.
var AllowedLimits = []int{10, 20, 50}

const DefaultLimit = 10

// ListQuery — параметры списка заказов: страница, размер и фильтры.
// Полный кортеж параметров образует ключ кэша списка.
type ListQuery struct {
	Page          int
	Limit         int
	Status        OrderStatus // пустое значение — без фильтра
	SenderName    string      // подстрока
	RecipientName string      // подстрока
}

// Normalize — приводит параметры к допустимым значениям:
// page >= 1, limit из AllowedLimits (иначе дефолт), неизвестный статус сбрасывается.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if !limitAllowed(q.Limit) {
		q.Limit = DefaultLimit
	}
	if q.Status != "" && !q.Status.IsValid() {
		q.Status = ""
	}
	return q
}

// WithPage — копия запроса с другой страницей.
func (q ListQuery) WithPage(page int) ListQuery {
	q.Page = page
	return q
}

func limitAllowed(limit int) bool {
	for _, allowed := range AllowedLimits {
		if limit == allowed {
			return true
		}
	}
	return false
}
