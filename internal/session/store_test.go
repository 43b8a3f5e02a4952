package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
	"github.com/makbarsyahwana/logistic-gateway/internal/ports/mocks"
	"github.com/makbarsyahwana/logistic-gateway/internal/session"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var testUser = domain.User{ID: "u-1", Email: "user@example.com", Name: "User", Role: domain.RoleCustomer}

func rawTestUser(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(testUser)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	return raw
}

func TestHydrate_BothSlotsValid(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := mocks.NewMockBackendClient(ctrl)
	storage := mocks.NewMockSessionStorage(ctrl)

	storage.EXPECT().Load(gomock.Any()).Return("tok-1", rawTestUser(t), nil)

	store := session.NewStore(auth, storage, noopLogger{})
	if store.State() != session.StateHydrating {
		t.Fatalf("want StateHydrating before Hydrate")
	}

	store.Hydrate(context.Background())

	if store.State() != session.StateAuthenticated {
		t.Fatalf("want StateAuthenticated, got %v", store.State())
	}
	user, ok := store.Current()
	if !ok || user.ID != "u-1" || user.Email != "user@example.com" {
		t.Fatalf("wrong hydrated user: %+v ok=%v", user, ok)
	}
	if store.Token() != "tok-1" {
		t.Fatalf("wrong token: %q", store.Token())
	}
}

func TestHydrate_BothSlotsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := mocks.NewMockBackendClient(ctrl)
	storage := mocks.NewMockSessionStorage(ctrl)

	storage.EXPECT().Load(gomock.Any()).Return("", nil, nil)
	storage.EXPECT().Clear(gomock.Any()).Times(0)

	store := session.NewStore(auth, storage, noopLogger{})
	store.Hydrate(context.Background())

	if store.State() != session.StateAnonymous {
		t.Fatalf("want StateAnonymous, got %v", store.State())
	}
	if _, ok := store.Current(); ok {
		t.Fatalf("want no current user")
	}
}

// Заполнен ровно один слот или запись пользователя битая —
// зачищаем оба слота и стартуем без сессии (fail-closed).
func TestHydrate_WipesInvalidDurableState(t *testing.T) {
	cases := []struct {
		name    string
		token   string
		rawUser []byte
		loadErr error
	}{
		{name: "token only", token: "tok-1"},
		{name: "user only", rawUser: []byte(`{"id":"u-1"}`)},
		{name: "corrupted user json", token: "tok-1", rawUser: []byte(`{"id":`)},
		{name: "user json null", token: "tok-1", rawUser: []byte(`null`)},
		{name: "user without id", token: "tok-1", rawUser: []byte(`{"email":"x@y.z"}`)},
		{name: "load error", loadErr: errors.New("disk gone")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			auth := mocks.NewMockBackendClient(ctrl)
			storage := mocks.NewMockSessionStorage(ctrl)

			storage.EXPECT().Load(gomock.Any()).Return(tc.token, tc.rawUser, tc.loadErr)
			storage.EXPECT().Clear(gomock.Any()).Return(nil)

			store := session.NewStore(auth, storage, noopLogger{})
			store.Hydrate(context.Background())

			if store.State() != session.StateAnonymous {
				t.Fatalf("want StateAnonymous, got %v", store.State())
			}
			if store.Token() != "" {
				t.Fatalf("want empty token, got %q", store.Token())
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := mocks.NewMockBackendClient(ctrl)
	storage := mocks.NewMockSessionStorage(ctrl)

	creds := domain.Credentials{Email: "user@example.com", Password: "secret"}
	auth.EXPECT().Login(gomock.Any(), creds).
		Return(&domain.AuthResult{AccessToken: "tok-new", User: &testUser}, nil)
	storage.EXPECT().Save(gomock.Any(), "tok-new", rawTestUser(t)).Return(nil)

	store := session.NewStore(auth, storage, noopLogger{})

	if err := store.Login(context.Background(), creds); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if store.State() != session.StateAuthenticated || store.Token() != "tok-new" {
		t.Fatalf("session not established: state=%v token=%q", store.State(), store.Token())
	}
}

// Ответ без токена или без пользователя прерывает вход,
// прежнее состояние (включая «сессии нет») не меняется.
func TestLogin_InvalidResponseShape(t *testing.T) {
	cases := []struct {
		name string
		res  *domain.AuthResult
	}{
		{name: "missing token", res: &domain.AuthResult{User: &testUser}},
		{name: "missing user", res: &domain.AuthResult{AccessToken: "tok"}},
		{name: "empty payload", res: &domain.AuthResult{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			auth := mocks.NewMockBackendClient(ctrl)
			storage := mocks.NewMockSessionStorage(ctrl)

			auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(tc.res, nil)
			storage.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			store := session.NewStore(auth, storage, noopLogger{})

			err := store.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "p"})
			if !errors.Is(err, session.ErrInvalidAuthResponse) {
				t.Fatalf("want ErrInvalidAuthResponse, got %v", err)
			}
			if store.State() != session.StateHydrating {
				t.Fatalf("prior state must be untouched, got %v", store.State())
			}
		})
	}
}

func TestLogin_BackendErrorKeepsExistingSession(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := mocks.NewMockBackendClient(ctrl)
	storage := mocks.NewMockSessionStorage(ctrl)

	// Сначала валидная гидратация.
	storage.EXPECT().Load(gomock.Any()).Return("tok-old", rawTestUser(t), nil)

	store := session.NewStore(auth, storage, noopLogger{})
	store.Hydrate(context.Background())

	boom := errors.New("401 invalid credentials")
	auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, boom)

	err := store.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "bad"})
	if !errors.Is(err, boom) {
		t.Fatalf("want backend error, got %v", err)
	}
	if store.Token() != "tok-old" {
		t.Fatalf("existing session must survive failed login, token=%q", store.Token())
	}
}

func TestLogin_PersistFailureLeavesStateUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := mocks.NewMockBackendClient(ctrl)
	storage := mocks.NewMockSessionStorage(ctrl)

	auth.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(&domain.AuthResult{AccessToken: "tok", User: &testUser}, nil)
	storage.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	store := session.NewStore(auth, storage, noopLogger{})

	if err := store.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "p"}); err == nil {
		t.Fatalf("want persist error")
	}
	if store.Token() != "" {
		t.Fatalf("in-memory session must not be established, token=%q", store.Token())
	}
}

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := mocks.NewMockBackendClient(ctrl)
	storage := mocks.NewMockSessionStorage(ctrl)

	reg := domain.Registration{Email: "user@example.com", Password: "secret", Name: "User"}
	auth.EXPECT().Register(gomock.Any(), reg).
		Return(&domain.AuthResult{AccessToken: "tok-reg", User: &testUser}, nil)
	storage.EXPECT().Save(gomock.Any(), "tok-reg", rawTestUser(t)).Return(nil)

	store := session.NewStore(auth, storage, noopLogger{})

	if err := store.Register(context.Background(), reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if store.State() != session.StateAuthenticated {
		t.Fatalf("want StateAuthenticated, got %v", store.State())
	}
}

func TestLogout_IsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := mocks.NewMockBackendClient(ctrl)
	storage := mocks.NewMockSessionStorage(ctrl)

	storage.EXPECT().Load(gomock.Any()).Return("tok", rawTestUser(t), nil)
	storage.EXPECT().Clear(gomock.Any()).Return(nil).Times(2)

	store := session.NewStore(auth, storage, noopLogger{})
	store.Hydrate(context.Background())

	store.Logout(context.Background())
	store.Logout(context.Background())

	if store.State() != session.StateAnonymous || store.Token() != "" {
		t.Fatalf("want anonymous after logout, state=%v token=%q", store.State(), store.Token())
	}
}

func TestSubscribe_NotifiesOnStateChange(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := mocks.NewMockBackendClient(ctrl)
	storage := mocks.NewMockSessionStorage(ctrl)

	storage.EXPECT().Load(gomock.Any()).Return("", nil, nil)

	store := session.NewStore(auth, storage, noopLogger{})

	ch, unsubscribe := store.Subscribe()
	defer unsubscribe()

	store.Hydrate(context.Background())

	select {
	case <-ch:
	default:
		t.Fatalf("want notification after hydration")
	}
}
