package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	token, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := m.Validate(token); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	m := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	good, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "tampered", token: good + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate(%q) = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	a := NewJWTManager("secret-a", time.Hour)
	b := NewJWTManager("secret-b", time.Hour)

	token, err := a.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := b.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate with wrong secret = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate expired = %v, want ErrInvalidToken", err)
	}
}

func TestGateCheck(t *testing.T) {
	gate, err := NewGateFromPassword("hunter2")
	if err != nil {
		t.Fatalf("NewGateFromPassword failed: %v", err)
	}

	if err := gate.Check("hunter2"); err != nil {
		t.Errorf("Check correct password = %v", err)
	}
	if err := gate.Check("wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Check wrong password = %v, want ErrInvalidPassword", err)
	}
	if err := gate.Check(""); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Check empty password = %v, want ErrInvalidPassword", err)
	}
}
