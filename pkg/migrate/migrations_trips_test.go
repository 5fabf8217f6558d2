package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTripsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_trips.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no trips migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS trips",
		"REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (visibility IN ('private', 'public'))",
		"CHECK (status IN ('active', 'completed'))",
		"days jsonb NOT NULL DEFAULT '[]'::jsonb",
		"DROP TABLE IF EXISTS trips",
	}
	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Fatalf("trips migration missing %q", check)
		}
	}
}

func TestUsersMigrationEnforcesEmailUniqueness(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_users.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no users migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	for _, check := range []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email",
		"CHECK (language IN ('en', 'hi'))",
	} {
		if !strings.Contains(content, check) {
			t.Fatalf("users migration missing %q", check)
		}
	}
}
