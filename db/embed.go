// Package db embeds the PostgreSQL schema applied on startup.
package db

import _ "embed"

// Schema is the DDL executed by RunMigrations. Statements are idempotent so
// the schema can be re-applied on every boot.
//
//go:embed migrations/001_schema.sql
var Schema string
