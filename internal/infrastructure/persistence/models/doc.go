// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: Record and VersionedRecord shared by every table
//   - identity.go: institutions, admin_accounts, user_roles
//   - academy.go: classes, students
//
// Schema changes are owned by the SQL files under migrations/; the gorm tags here
// only describe column types for AutoMigrate in tests.
package models
