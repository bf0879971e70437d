package migrations

import "embed"

// FS holds the escrow schema migrations, applied through the iofs driver.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the service runs against. Version 2 moves
// event sequence numbers to the commit-ordered event_seq counter.
const Version = 2
