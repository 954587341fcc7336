// Package data embeds the database init scripts used to seed container databases.
package data

import (
	_ "embed"
)

// InitdbMariaDBTables creates the barrio schema
//
//go:embed initdb/mariadb/002-ddl-tables.sql
var InitdbMariaDBTables string

// InitdbMariaDBPrivileges grants the service account access to the schema
//
//go:embed initdb/mariadb/003-ddl-privileges.sql
var InitdbMariaDBPrivileges string
