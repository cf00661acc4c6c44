package security

import "testing"

func TestCSRFTokenRoundTrip(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	token, err := g.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken returned empty token")
	}

	if !g.ValidateToken("session-123", token) {
		t.Error("valid token rejected")
	}
	if g.ValidateToken("session-456", token) {
		t.Error("token accepted for a different session")
	}
	if g.ValidateToken("session-123", token+"x") {
		t.Error("tampered token accepted")
	}
}

func TestCSRFTokenDeterministic(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	first, _ := g.GenerateToken("session-123")
	second, _ := g.GenerateToken("session-123")
	if first != second {
		t.Error("same session produced different tokens")
	}
}

func TestCSRFTokenSecretBound(t *testing.T) {
	token, _ := NewCSRFGenerator("secret-a").GenerateToken("session-123")
	if NewCSRFGenerator("secret-b").ValidateToken("session-123", token) {
		t.Error("token minted under one secret validated under another")
	}
}

func TestCSRFTokenEmptyInputs(t *testing.T) {
	g := NewCSRFGenerator("test-secret")

	if _, err := g.GenerateToken(""); err == nil {
		t.Error("GenerateToken accepted empty session ID")
	}
	if g.ValidateToken("", "token") {
		t.Error("ValidateToken accepted empty session ID")
	}
	if g.ValidateToken("session-123", "") {
		t.Error("ValidateToken accepted empty token")
	}
}
