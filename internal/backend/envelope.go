package backend

import "encoding/json"

// Контракт конверта ответов бэкенда:
//   успех:  { "success": true,  "data": T, "timestamp": ..., "path": ... }
//   ошибка: { "success": false, "error": { "statusCode", "message", "error", "path", "timestamp" } }
// Поле message бывает строкой или списком строк; часть ручек бэкенда
// кладёт message на верхний уровень конверта — учитываем оба варианта.

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *errorBody      `json:"error"`
	Message   messageList     `json:"message"`
	Timestamp string          `json:"timestamp"`
	Path      string          `json:"path"`
}

type errorBody struct {
	StatusCode int         `json:"statusCode"`
	Message    messageList `json:"message"`
	Kind       string      `json:"error"`
	Path       string      `json:"path"`
	Timestamp  string      `json:"timestamp"`
}

// messageList — строка или массив строк в JSON, всегда срез после разбора.
type messageList []string

func (m *messageList) UnmarshalJSON(raw []byte) error {
	if len(raw) == 0 || string(raw) == "null" {
		*m = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			*m = nil
		} else {
			*m = messageList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return err
	}
	*m = messageList(many)
	return nil
}
