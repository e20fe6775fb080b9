package sqlstore

import "github.com/dtroode/taskboard-server/database"

// Dialect holds the driver name and statements for one SQL engine.
type Dialect struct {
	Driver  string
	Goose   string
	get     string
	set     string
	delete  string
	exists  string
	maxConn int
}

// Postgres talks to PostgreSQL through the pgx database/sql driver.
var Postgres = Dialect{
	Driver: "pgx",
	Goose:  database.DialectPostgres,
	get:    `SELECT value FROM kv WHERE key = $1`,
	set: `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
		  ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	delete: `DELETE FROM kv WHERE key = $1`,
	exists: `SELECT EXISTS (SELECT 1 FROM kv WHERE key = $1)`,
}

// SQLite uses the pure Go modernc driver. Writers are serialised through a
// single connection.
var SQLite = Dialect{
	Driver: "sqlite",
	Goose:  database.DialectSQLite,
	get:    `SELECT value FROM kv WHERE key = ?`,
	set: `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		  ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	delete:  `DELETE FROM kv WHERE key = ?`,
	exists:  `SELECT EXISTS (SELECT 1 FROM kv WHERE key = ?)`,
	maxConn: 1,
}
