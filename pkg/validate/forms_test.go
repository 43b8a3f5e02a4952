package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
	"github.com/makbarsyahwana/logistic-gateway/pkg/validate"
)

func validCreateOrder() domain.CreateOrder {
	return domain.CreateOrder{
		SenderName:    "Ann Sender",
		RecipientName: "Bob Recipient",
		Origin:        "Oslo",
		Destination:   "Bergen",
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		if errs := validate.CreateOrder(validCreateOrder()); errs != nil {
			t.Fatalf("expected valid form, got: %v", errs)
		}
	})

	type testCase struct {
		name     string
		makeForm func() domain.CreateOrder
		field    string
	}

	cases := []testCase{
		{
			name: "empty sender",
			makeForm: func() domain.CreateOrder {
				f := validCreateOrder()
				f.SenderName = ""
				return f
			},
			field: "senderName",
		},
		{
			name: "whitespace-only recipient",
			makeForm: func() domain.CreateOrder {
				f := validCreateOrder()
				f.RecipientName = "   "
				return f
			},
			field: "recipientName",
		},
		{
			name: "empty origin",
			makeForm: func() domain.CreateOrder {
				f := validCreateOrder()
				f.Origin = ""
				return f
			},
			field: "origin",
		},
		{
			name: "destination too long",
			makeForm: func() domain.CreateOrder {
				f := validCreateOrder()
				f.Destination = strings.Repeat("x", 201)
				return f
			},
			field: "destination",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validate.CreateOrder(tc.makeForm())
			if errs == nil {
				t.Fatalf("expected error for field %q", tc.field)
			}
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error for field %q, got: %v", tc.field, errs)
			}
			if !errors.Is(errs, validate.ErrInvalidForm) {
				t.Fatalf("FieldErrors must unwrap to ErrInvalidForm, got: %v", errs)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	tests := []struct {
		name      string
		creds     domain.Credentials
		wantField string
	}{
		{"valid", domain.Credentials{Email: "user@example.com", Password: "secret"}, ""},
		{"empty email", domain.Credentials{Password: "secret"}, "email"},
		{"malformed email", domain.Credentials{Email: "not-an-email", Password: "secret"}, "email"},
		{"empty password", domain.Credentials{Email: "user@example.com"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate.Credentials(tt.creds)
			if tt.wantField == "" {
				if errs != nil {
					t.Fatalf("expected valid credentials, got: %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected error for field %q, got: %v", tt.wantField, errs)
			}
		})
	}
}

func TestRegistration(t *testing.T) {
	valid := domain.Registration{Email: "user@example.com", Password: "secret1", Name: "User"}

	t.Run("valid", func(t *testing.T) {
		if errs := validate.Registration(valid); errs != nil {
			t.Fatalf("expected valid registration, got: %v", errs)
		}
	})

	t.Run("short password", func(t *testing.T) {
		reg := valid
		reg.Password = "12345"
		errs := validate.Registration(reg)
		if _, ok := errs["password"]; !ok {
			t.Fatalf("expected password error, got: %v", errs)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		reg := valid
		reg.Name = ""
		errs := validate.Registration(reg)
		if _, ok := errs["name"]; !ok {
			t.Fatalf("expected name error, got: %v", errs)
		}
	})
}
