package users

import (
	"os"
	"path/filepath"
	"testing"
)

func writeUsersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write users file: %v", err)
	}
	return path
}

func TestLoad_StripsCommentsAndBlanks(t *testing.T) {
	path := writeUsersFile(t, "alice\n# a full-line comment\nbob # trailing comment\n\n   \ncarol\n")

	logins, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{"alice", "bob", "carol"}
	if len(logins) != len(expected) {
		t.Fatalf("Expected %d logins, got %d: %v", len(expected), len(logins), logins)
	}
	for i, login := range expected {
		if logins[i] != login {
			t.Errorf("Expected login %q at index %d, got %q", login, i, logins[i])
		}
	}
}

func TestLoad_CollapsesDuplicates(t *testing.T) {
	path := writeUsersFile(t, "alice\nbob\nalice\n")

	logins, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(logins) != 2 {
		t.Fatalf("Expected 2 logins, got %d: %v", len(logins), logins)
	}
	if logins[0] != "alice" || logins[1] != "bob" {
		t.Errorf("Expected [alice bob], got %v", logins)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/users.txt"); err == nil {
		t.Error("Expected error for missing users file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeUsersFile(t, "# only comments\n\n")

	logins, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(logins) != 0 {
		t.Errorf("Expected no logins, got %v", logins)
	}
}
