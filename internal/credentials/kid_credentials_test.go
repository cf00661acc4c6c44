package credentials

import (
	"strings"
	"testing"
)

func TestGenerateKidUsername(t *testing.T) {
	for i := 0; i < 50; i++ {
		username, err := GenerateKidUsername()
		if err != nil {
			t.Fatalf("GenerateKidUsername: %v", err)
		}

		parts := strings.Split(username, "-")
		if len(parts) != 2 {
			t.Fatalf("username %q is not adjective-noun", username)
		}
		if !contains(adjectives, parts[0]) {
			t.Errorf("unknown adjective %q", parts[0])
		}
		if !contains(nouns, parts[1]) {
			t.Errorf("unknown noun %q", parts[1])
		}
	}
}

func TestGenerateKidPassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		password, err := GenerateKidPassword()
		if err != nil {
			t.Fatalf("GenerateKidPassword: %v", err)
		}
		if len(password) != 4 {
			t.Fatalf("password %q length = %d, want 4", password, len(password))
		}
		for _, c := range password {
			if strings.ContainsRune("lo01", c) {
				t.Errorf("password %q contains ambiguous character %q", password, c)
			}
		}
	}
}

func contains(slice []string, value string) bool {
	for _, s := range slice {
		if s == value {
			return true
		}
	}
	return false
}
