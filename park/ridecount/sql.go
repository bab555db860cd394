package ridecount

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectMySQL
)

// SQL is a Counter backed by a relational database, either an embedded SQLite
// file or a shared MySQL server.
type SQL struct {
	db *sql.DB
	d  dialect
}

// OpenSQLite opens a Counter stored in an SQLite database file, creating the
// file and table as needed.
func OpenSQLite(path string) (*SQL, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open ride count database: %w", err)
	}
	// The sqlite driver does not serialise writers itself. A single
	// connection avoids SQLITE_BUSY churn under concurrent flushes.
	db.SetMaxOpenConns(1)
	c := &SQL{db: db, d: dialectSQLite}
	if err := c.createTable(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// OpenMySQL opens a Counter in the MySQL database at dsn, creating the table
// as needed. Counts in MySQL are shared across every node using the same
// database.
func OpenMySQL(dsn string) (*SQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ride count database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to ride count database: %w", err)
	}
	c := &SQL{db: db, d: dialectMySQL}
	if err := c.createTable(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQL) createTable() error {
	stmt := `CREATE TABLE IF NOT EXISTS ride_counts (
		player TEXT NOT NULL,
		name TEXT NOT NULL,
		ride TEXT NOT NULL,
		server TEXT NOT NULL,
		total INTEGER NOT NULL,
		PRIMARY KEY (player, ride, server)
	)`
	if c.d == dialectMySQL {
		stmt = `CREATE TABLE IF NOT EXISTS ride_counts (
			player VARCHAR(36) NOT NULL,
			name VARCHAR(32) NOT NULL,
			ride VARCHAR(64) NOT NULL,
			server VARCHAR(32) NOT NULL,
			total BIGINT NOT NULL,
			PRIMARY KEY (player, ride, server)
		)`
	}
	if _, err := c.db.Exec(stmt); err != nil {
		return fmt.Errorf("create ride count table: %w", err)
	}
	return nil
}

// Add ...
func (c *SQL) Add(ctx context.Context, player uuid.UUID, name, ride, server string) error {
	stmt := `INSERT INTO ride_counts (player, name, ride, server, total) VALUES (?, ?, ?, ?, 1)
		ON CONFLICT (player, ride, server) DO UPDATE SET total = total + 1, name = excluded.name`
	if c.d == dialectMySQL {
		stmt = `INSERT INTO ride_counts (player, name, ride, server, total) VALUES (?, ?, ?, ?, 1)
			ON DUPLICATE KEY UPDATE total = total + 1, name = VALUES(name)`
	}
	if _, err := c.db.ExecContext(ctx, stmt, player.String(), name, ride, ServerBase(server)); err != nil {
		return fmt.Errorf("add ride count: %w", err)
	}
	return nil
}

// Count ...
func (c *SQL) Count(ctx context.Context, player uuid.UUID, ride string) (int64, error) {
	var total int64
	err := c.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total), 0) FROM ride_counts WHERE player = ? AND ride = ?",
		player.String(), ride,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count rides: %w", err)
	}
	return total, nil
}

// Top ...
func (c *SQL) Top(ctx context.Context, ride string, limit int) ([]Row, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT player, MAX(name), SUM(total) AS combined FROM ride_counts
			WHERE ride = ? GROUP BY player ORDER BY combined DESC, MAX(name) ASC LIMIT ?`,
		ride, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query ride leaderboard: %w", err)
	}
	defer rows.Close()

	var top []Row
	for rows.Next() {
		var (
			id   string
			name string
			n    int64
		)
		if err := rows.Scan(&id, &name, &n); err != nil {
			return nil, fmt.Errorf("scan ride leaderboard: %w", err)
		}
		player, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse ride leaderboard player: %w", err)
		}
		top = append(top, Row{Player: player, Name: name, Total: n})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ride leaderboard: %w", err)
	}
	return top, nil
}

// Close ...
func (c *SQL) Close() error {
	return c.db.Close()
}
