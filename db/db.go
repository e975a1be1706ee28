package db

import "embed"

// Migrations holds one goose migration directory per supported driver:
// migrations/sqlite and migrations/postgres.
//
//go:embed migrations
var Migrations embed.FS
