package db

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/monadclick/monad_clicker/internal/errors"
	"github.com/monadclick/monad_clicker/pkg/logger"
)

// PostgresStore implements UserStore on a relational backend.
type PostgresStore struct {
	db *sql.DB
}

// DBOperations abstracts the open/migrate steps so tests can substitute a
// mock connection.
type DBOperations interface {
	Open(driverName, dataSourceName string) (*sql.DB, error)
	RunMigrations(db *sql.DB, migrationsPath string) error
}

// DefaultOperations opens real connections and runs file-based migrations.
type DefaultOperations struct{}

func (DefaultOperations) Open(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

func (DefaultOperations) RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return &errors.DatabaseError{Operation: "create postgres driver", Err: err}
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return &errors.DatabaseError{Operation: "create migrate instance", Err: err}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return &errors.DatabaseError{Operation: "sync database schema", Err: err}
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// NewPostgresStore opens the database, verifies connectivity and brings the
// schema up to date.
func NewPostgresStore(ops DBOperations, connStr, migrationsPath string) (*PostgresStore, error) {
	db, err := ops.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := ops.RunMigrations(db, migrationsPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) GetUser(id string) (User, error) {
	var u User
	err := s.db.QueryRow(`
		SELECT id, username, score, clicks, multiplier, autoclick, crit_chance,
		       nfts, total_earned, daily_mints, last_mint_date
		FROM users
		WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Score, &u.Clicks, &u.Boosters.Multiplier,
			&u.Boosters.Autoclick, &u.Boosters.CritChance, &u.NFTs,
			&u.TotalEarned, &u.DailyMints, &u.LastMintDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, &errors.NotFoundError{Resource: "user", Identifier: id}
		}
		return User{}, &errors.DatabaseError{Operation: "get user", Err: err}
	}
	return u, nil
}

func (s *PostgresStore) CreateUser(u User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, username, score, clicks, multiplier, autoclick,
		                   crit_chance, nfts, total_earned, daily_mints, last_mint_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Username, u.Score, u.Clicks, u.Boosters.Multiplier,
		u.Boosters.Autoclick, u.Boosters.CritChance, u.NFTs, u.TotalEarned,
		u.DailyMints, u.LastMintDate)
	if err != nil {
		return &errors.DatabaseError{Operation: "create user", Err: err}
	}
	return nil
}

func (s *PostgresStore) SetUsername(id, username string) error {
	_, err := s.db.Exec(`UPDATE users SET username = $2, updated_at = NOW() WHERE id = $1`, id, username)
	if err != nil {
		return &errors.DatabaseError{Operation: "set username", Err: err}
	}
	return nil
}

func (s *PostgresStore) ResetDailyMints(id, date string) error {
	_, err := s.db.Exec(`UPDATE users SET daily_mints = 0, last_mint_date = $2, updated_at = NOW() WHERE id = $1`, id, date)
	if err != nil {
		return &errors.DatabaseError{Operation: "reset daily mints", Err: err}
	}
	return nil
}

// SaveClickResult persists the new score/clicks/totalEarned and upserts both
// leaderboard projections in one transaction.
func (s *PostgresStore) SaveClickResult(u User) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &errors.DatabaseError{Operation: "begin click transaction", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE users
		SET score = $2, clicks = $3, total_earned = $4, updated_at = NOW()
		WHERE id = $1`, u.ID, u.Score, u.Clicks, u.TotalEarned)
	if err != nil {
		return &errors.DatabaseError{Operation: "update user after click", Err: err}
	}

	if err := upsertLeaderboard(tx, "leaderboard_current", "score", u.ID, u.Username, u.Score); err != nil {
		return err
	}
	if err := upsertLeaderboard(tx, "leaderboard_alltime", "total_earned", u.ID, u.Username, u.TotalEarned); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &errors.DatabaseError{Operation: "commit click transaction", Err: err}
	}
	return nil
}

func (s *PostgresStore) SaveBoosterPurchase(u User) error {
	_, err := s.db.Exec(`
		UPDATE users
		SET nfts = $2, multiplier = $3, autoclick = $4, crit_chance = $5, updated_at = NOW()
		WHERE id = $1`,
		u.ID, u.NFTs, u.Boosters.Multiplier, u.Boosters.Autoclick, u.Boosters.CritChance)
	if err != nil {
		return &errors.DatabaseError{Operation: "save booster purchase", Err: err}
	}
	return nil
}

// SaveMintResult persists the post-mint balances and upserts the
// current-score leaderboard in one transaction. The all-time projection is
// untouched: spending never changes lifetime earnings.
func (s *PostgresStore) SaveMintResult(u User) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &errors.DatabaseError{Operation: "begin mint transaction", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE users
		SET score = $2, nfts = $3, daily_mints = $4, last_mint_date = $5, updated_at = NOW()
		WHERE id = $1`, u.ID, u.Score, u.NFTs, u.DailyMints, u.LastMintDate)
	if err != nil {
		return &errors.DatabaseError{Operation: "update user after mint", Err: err}
	}

	if err := upsertLeaderboard(tx, "leaderboard_current", "score", u.ID, u.Username, u.Score); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &errors.DatabaseError{Operation: "commit mint transaction", Err: err}
	}
	return nil
}

func upsertLeaderboard(tx *sql.Tx, table, valueCol, id, username string, value int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, username, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			%s = EXCLUDED.%s,
			updated_at = NOW()`, table, valueCol, valueCol, valueCol)
	if _, err := tx.Exec(query, id, username, value); err != nil {
		return &errors.DatabaseError{Operation: "upsert " + table, Err: err}
	}
	return nil
}

func (s *PostgresStore) GetLeaderboard(kind LeaderboardKind, limit int) ([]LeaderboardEntry, error) {
	var query string
	switch kind {
	case LeaderboardAlltime:
		query = `SELECT id, username, total_earned FROM leaderboard_alltime ORDER BY total_earned DESC LIMIT $1`
	case LeaderboardCurrent:
		query = `SELECT id, username, score FROM leaderboard_current ORDER BY score DESC LIMIT $1`
	default:
		return nil, &errors.ValidationError{Field: "leaderboard kind", Reason: string(kind)}
	}

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "query leaderboard", Err: err}
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Value); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan leaderboard entry", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate leaderboard rows", Err: err}
	}

	return entries, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
