// Package data embeds the SQL migration scripts run by the migrate
// command.
package data

import (
	_ "embed"
)

//go:embed migrations/001-sop-schema.sql
var SopSchema string

//go:embed migrations/001-sop-schema-rollback.sql
var SopSchemaRollback string
