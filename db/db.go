// Package db exposes the SQL schema so integration tests and bootstrap
// tooling apply the same DDL.
package db

import _ "embed"

//go:embed schema.sql
var Schema string
