package groupkit

import (
	"strings"
	"testing"
)

// TestMigrations tests that migrations are properly defined
func TestMigrations(t *testing.T) {
	ms := NewMigrationService(&Service{})
	migrations := ms.Migrations()

	if len(migrations) == 0 {
		t.Error("Expected at least one migration")
	}

	seen := make(map[string]bool)
	for _, m := range migrations {
		if m.ID == "" {
			t.Error("Migration ID should not be empty")
		}
		if m.Description == "" {
			t.Error("Migration description should not be empty")
		}
		if m.SQL == "" {
			t.Error("Migration SQL should not be empty")
		}
		if seen[m.ID] {
			t.Errorf("Duplicate migration ID: %s", m.ID)
		}
		seen[m.ID] = true
	}
}

// TestMigrationsMembershipConstraint tests that the schema carries the unique
// constraint RequestJoin depends on
func TestMigrationsMembershipConstraint(t *testing.T) {
	ms := NewMigrationService(&Service{})

	var membershipsSQL string
	for _, m := range ms.Migrations() {
		if strings.Contains(m.SQL, "CREATE TABLE IF NOT EXISTS memberships") {
			membershipsSQL = m.SQL
		}
	}

	if membershipsSQL == "" {
		t.Fatal("No migration creates the memberships table")
	}
	if !strings.Contains(membershipsSQL, "UNIQUE (user_id, group_id)") {
		t.Error("memberships table must be unique per (user_id, group_id)")
	}
	if !strings.Contains(membershipsSQL, "ON DELETE CASCADE") {
		t.Error("memberships must cascade on group deletion")
	}
}
