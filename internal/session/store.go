// Пакет session — состояние аутентификации шлюза: не более одной активной
// сессии, гидратация из долговременного хранилища на старте, подписка на
// изменения для зависимых компонентов.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
	"github.com/makbarsyahwana/logistic-gateway/pkg/metrics"
)

// ErrInvalidAuthResponse — ответ бэкенда на login/register без токена или
// пользователя. Прерывает вход, прежнее состояние сессии не меняется.
var ErrInvalidAuthResponse = errors.New("invalid authentication response: missing token or user")

// State — фаза жизни хранилища сессии. Читатели обязаны обрабатывать
// StateHydrating до различения «сессии нет» / «сессия есть».
type State int

const (
	StateHydrating State = iota
	StateAnonymous
	StateAuthenticated
)

// authClient — минимальный контракт бэкенда для аутентификации.
type authClient interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error)
}

// Store — хранилище сессии: память + долговременные слоты token/user.
type Store struct {
	auth    authClient
	storage ports.SessionStorage
	log     ports.Logger

	mu      sync.RWMutex
	state   State
	session *domain.Session
	subs    map[int]chan struct{}
	nextSub int
}

// NewStore — конструктор. До вызова Hydrate состояние — StateHydrating.
func NewStore(auth authClient, storage ports.SessionStorage, log ports.Logger) *Store {
	return &Store{
		auth:    auth,
		storage: storage,
		log:     log,
		state:   StateHydrating,
		subs:    make(map[int]chan struct{}),
	}
}

// Hydrate — восстановление сессии из долговременного хранилища.
// Сессия восстанавливается только если заполнены оба слота и запись
// пользователя разбирается как валидная структура; любая другая комбинация
// зачищает оба слота (fail-closed — никогда не работаем с полусессией).
// Сбой гидратации пользователю не показывается.
func (s *Store) Hydrate(ctx context.Context) {
	token, rawUser, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Warnf(ctx, "session hydrate: load failed, wiping: %v", err)
		s.wipe(ctx, "hydrate_wiped")
		return
	}

	switch {
	case token == "" && len(rawUser) == 0:
		metrics.SessionOps.WithLabelValues("hydrate_empty").Inc()
		s.setState(StateAnonymous, nil)

	case token == "" || len(rawUser) == 0:
		// Заполнен ровно один слот — запускаться с полусессией нельзя.
		s.log.Warnf(ctx, "session hydrate: half-present durable state, wiping")
		s.wipe(ctx, "hydrate_wiped")

	default:
		var user domain.User
		if unmarshalErr := json.Unmarshal(rawUser, &user); unmarshalErr != nil || user.ID == "" {
			s.log.Warnf(ctx, "session hydrate: corrupted user record, wiping: %v", unmarshalErr)
			s.wipe(ctx, "hydrate_wiped")
			return
		}
		metrics.SessionOps.WithLabelValues("hydrate_ok").Inc()
		s.setState(StateAuthenticated, &domain.Session{Token: token, User: user})
		s.log.Infof(ctx, "session hydrated user=%s role=%s", user.Email, user.Role)
	}
}

// Login — вход. Успех сохраняет token+user в хранилище и в памяти;
// любая ошибка оставляет прежнее состояние (включая «сессии нет») нетронутым.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) error {
	res, err := s.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	if err := s.establish(ctx, res); err != nil {
		return err
	}
	metrics.SessionOps.WithLabelValues("login").Inc()
	s.log.Infof(ctx, "login ok user=%s", res.User.Email)
	return nil
}

// Register — регистрация; контракт и гарантии те же, что у Login.
func (s *Store) Register(ctx context.Context, reg domain.Registration) error {
	res, err := s.auth.Register(ctx, reg)
	if err != nil {
		return err
	}
	if err := s.establish(ctx, res); err != nil {
		return err
	}
	metrics.SessionOps.WithLabelValues("register").Inc()
	s.log.Infof(ctx, "register ok user=%s", res.User.Email)
	return nil
}

// Logout — безусловная зачистка памяти и хранилища; идемпотентен.
func (s *Store) Logout(ctx context.Context) {
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warnf(ctx, "logout: durable clear failed: %v", err)
	}
	metrics.SessionOps.WithLabelValues("logout").Inc()
	s.setState(StateAnonymous, nil)
}

// State — текущая фаза хранилища.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current — активный пользователь; (nil, false) вне StateAuthenticated.
func (s *Store) Current() (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.session == nil {
		return nil, false
	}
	user := s.session.User
	return &user, true
}

// Token — bearer-токен активной сессии, пустая строка без сессии.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// Subscribe — подписка на изменения состояния (observer).
// Возвращает канал уведомлений (ёмкость 1, уведомления схлопываются)
// и функцию отписки.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// establish — общий путь Login/Register: проверка формы ответа,
// затем хранилище, затем память. Порядок гарантирует «всё или ничего».
func (s *Store) establish(ctx context.Context, res *domain.AuthResult) error {
	if res == nil || res.AccessToken == "" || res.User == nil {
		return ErrInvalidAuthResponse
	}

	rawUser, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.storage.Save(ctx, res.AccessToken, rawUser); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.setState(StateAuthenticated, &domain.Session{Token: res.AccessToken, User: *res.User})
	return nil
}

func (s *Store) wipe(ctx context.Context, metric string) {
	if err := s.storage.Clear(ctx); err != nil {
		s.log.Warnf(ctx, "session wipe failed: %v", err)
	}
	metrics.SessionOps.WithLabelValues(metric).Inc()
	s.setState(StateAnonymous, nil)
}

func (s *Store) setState(state State, session *domain.Session) {
	s.mu.Lock()
	s.state = state
	s.session = session
	subs := make([]chan struct{}, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default: // подписчик ещё не прочитал прошлое уведомление
		}
	}
}
