// Package fixture opens and seeds the SQLite database used by the sqlpc
// tests and the CLI.
package fixture

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver used throughout the project.
const DriverName = "sqlite"

// MemoryDSN is an in-memory database. It lives as long as the single
// connection Open keeps around.
const MemoryDSN = ":memory:"

var statements = []string{
	"drop table if exists T_ADDRESS",
	"drop table if exists T_BEAN",
	"create table T_BEAN (ID integer primary key, NAME varchar(50) not null)",
	"create table T_ADDRESS (ID integer primary key, BEAN_ID integer, VALUE varchar(50) not null, " +
		"constraint FK_BEAN_ADDRESS foreign key (BEAN_ID) references T_BEAN(ID) on delete cascade)",
	"insert into T_BEAN (ID, NAME) values (0, 'Ben Hale')",
	"insert into T_ADDRESS (ID, BEAN_ID, VALUE) values (0, 0, 'Melbourne')",
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens dsn, pins the pool to one connection so an in-memory database
// survives between statements, and turns on foreign key enforcement.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	// SQLite leaves foreign keys off per connection; the pool holds just one.
	if _, err := db.ExecContext(ctx, "pragma foreign_keys = on"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// Populate recreates the T_BEAN and T_ADDRESS tables with one row each.
func Populate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("populating database: %q: %w", stmt, err)
		}
	}
	return nil
}

// CountRows returns the number of rows in table.
func CountRows(ctx context.Context, db *sql.DB, table string) (int, error) {
	if !tableName.MatchString(table) {
		return 0, fmt.Errorf("invalid table name %q", table)
	}
	var n int
	if err := db.QueryRowContext(ctx, "select count(*) from "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", table, err)
	}
	return n, nil
}
