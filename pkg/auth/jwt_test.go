package auth

import (
	"testing"
	"time"
)

func TestSignAndParse(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	tok, err := s.CreateAccessToken("user-1", "RENTER", "a@b.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	c, err := s.ParseValidate(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Sub != "user-1" || c.Role != "RENTER" || c.Email != "a@b.com" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParseRejectsForgedToken(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	other := NewSigner("other-secret", time.Hour)
	tok, err := other.CreateAccessToken("user-1", "ADMIN", "a@b.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.ParseValidate(tok); err == nil {
		t.Fatal("token signed with a different secret must not validate")
	}
	if _, err := s.ParseValidate("not-a-token"); err == nil {
		t.Fatal("garbage must not validate")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	s := NewSigner("secret", -time.Minute)
	tok, err := s.CreateAccessToken("user-1", "RENTER", "a@b.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.ParseValidate(tok); err == nil {
		t.Fatal("expired token must not validate")
	}
}
