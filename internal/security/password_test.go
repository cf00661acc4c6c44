package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attempt  string
		want     bool
	}{
		{"correct password", "sunny-dragon", "sunny-dragon", true},
		{"wrong password", "sunny-dragon", "sunny-drag0n", false},
		{"case sensitive", "Pin1234", "pin1234", false},
		{"empty attempt", "1234", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if err != nil {
				t.Fatalf("HashPassword: %v", err)
			}
			if hash == tt.password {
				t.Error("hash equals plaintext")
			}
			if got := CheckPassword(tt.attempt, hash); got != tt.want {
				t.Errorf("CheckPassword(%q) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestGenerateSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateSessionID()
		if id == "" {
			t.Fatal("empty session ID")
		}
		if seen[id] {
			t.Fatalf("duplicate session ID %q", id)
		}
		seen[id] = true
	}
}
