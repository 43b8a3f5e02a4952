package validate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxTrackingLen соответствует ограничению бэкенда на длину трек-номера.
const maxTrackingLen = 64

// TrackingNumber — проверка формата трек-номера: непустой, без пробелов,
// только латиница, цифры и дефис.
func TrackingNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%w: tracking number is required", ErrInvalidForm)
	}
	if len(s) > maxTrackingLen {
		return fmt.Errorf("%w: tracking number is too long", ErrInvalidForm)
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return fmt.Errorf("%w: tracking number contains invalid character %q", ErrInvalidForm, r)
		}
	}
	return nil
}

// TrackingListResult — статистика чтения списка трек-номеров.
type TrackingListResult struct {
	Numbers      []string
	SkippedCount int
}

// ReadTrackingList — читает трек-номера из reader'а построчно.
// Пустые строки и строки-комментарии (#) пропускаются без учёта,
// строки с невалидным форматом считаются в SkippedCount.
func ReadTrackingList(r io.Reader) (TrackingListResult, error) {
	var res TrackingListResult

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := TrackingNumber(line); err != nil {
			res.SkippedCount++
			continue
		}
		res.Numbers = append(res.Numbers, line)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read tracking list: %w", err)
	}
	return res, nil
}
