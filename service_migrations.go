package groupkit

import (
	"github.com/fernandezvara/dbkit"
)

// MigrationService provides migration management functionality as an extension to Service
type MigrationService struct {
	*Service
}

// NewMigrationService creates a new migration service extension
func NewMigrationService(service *Service) *MigrationService {
	return &MigrationService{Service: service}
}

// MigrationStatus summarizes which migrations have been applied.
type MigrationStatus struct {
	Applied []string
	Pending []string
}

// Migrations returns all database migrations required for GroupKit.
// Use db.Migrate(ctx, service.Migrations()) to run migrations.
//
// The UNIQUE(user_id, group_id) constraint on memberships is load-bearing:
// RequestJoin relies on it to collapse concurrent duplicate join requests
// into a single row. The ON DELETE CASCADE references implement group
// ownership of memberships and posts.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "groupkit-001",
			Description: "Create groups table",
			SQL: `
                CREATE TABLE IF NOT EXISTS groups (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    name TEXT NOT NULL,
                    description TEXT,
                    visibility TEXT NOT NULL,
                    creator_id TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "groupkit-002",
			Description: "Create memberships table",
			SQL: `
                CREATE TABLE IF NOT EXISTS memberships (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    user_id TEXT NOT NULL,
                    group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
                    status TEXT NOT NULL,
                    is_creator BOOLEAN NOT NULL DEFAULT false,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    UNIQUE (user_id, group_id)
                )`,
		},
		{
			ID:          "groupkit-003",
			Description: "Create posts table",
			SQL: `
                CREATE TABLE IF NOT EXISTS posts (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
                    author_id TEXT NOT NULL,
                    title TEXT NOT NULL,
                    description TEXT,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "groupkit-004",
			Description: "Index memberships by group and status for pending request listings",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_memberships_group_status
                    ON memberships (group_id, status, created_at)`,
		},
	}
}
