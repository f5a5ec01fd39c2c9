package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/quizforge/quizforge/internal/campaign"
)

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations.
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS answer_keys (
			quiz_id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			mode TEXT NOT NULL,
			entries_json TEXT NOT NULL,
			expires_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ledgers (
			user_id TEXT PRIMARY KEY,
			current_floor INTEGER NOT NULL DEFAULT 1,
			highest_floor INTEGER NOT NULL DEFAULT 0,
			total_questions INTEGER NOT NULL DEFAULT 0,
			total_correct INTEGER NOT NULL DEFAULT 0,
			floor_attempts_json TEXT NOT NULL DEFAULT '{}',
			perfect_floors_json TEXT NOT NULL DEFAULT '{}',
			category_stats_json TEXT NOT NULL DEFAULT '{}',
			version INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			quiz_id TEXT NOT NULL,
			floor_number INTEGER NOT NULL,
			category TEXT,
			boss_categories_json TEXT,
			is_mini_boss INTEGER NOT NULL DEFAULT 0,
			difficulty TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			is_perfect INTEGER NOT NULL,
			duration_sec INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			UNIQUE (user_id, quiz_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_created ON attempts(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user_floor ON attempts(user_id, floor_number)`,
		`CREATE TABLE IF NOT EXISTS achievements (
			user_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			floor_earned INTEGER NOT NULL DEFAULT 0,
			earned_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_stats (
			user_id TEXT PRIMARY KEY,
			total_questions INTEGER NOT NULL DEFAULT 0,
			total_correct INTEGER NOT NULL DEFAULT 0
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SaveAnswerKey stores the canonical answers for a quiz with its expiry.
func (s *SQLiteDB) SaveAnswerKey(key *campaign.AnswerKey) error {
	if key.QuizID == "" {
		key.QuizID = uuid.New().String()
	}

	entries, err := json.Marshal(key.Entries)
	if err != nil {
		return fmt.Errorf("marshal answer key: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO answer_keys (quiz_id, seed, mode, entries_json, expires_at) VALUES (?, ?, ?, ?, ?)`,
		key.QuizID, key.Seed, key.Mode, string(entries), key.ExpiresAt.UTC(),
	)
	return err
}

// GetAnswerKey fetches a key. Missing and expired are the same condition:
// ErrQuizNotFound. Expired rows are deleted on the way out.
func (s *SQLiteDB) GetAnswerKey(quizID string) (*campaign.AnswerKey, error) {
	var key campaign.AnswerKey
	var entriesJSON string

	err := s.db.QueryRow(
		`SELECT quiz_id, seed, mode, entries_json, expires_at FROM answer_keys WHERE quiz_id = ?`,
		quizID,
	).Scan(&key.QuizID, &key.Seed, &key.Mode, &entriesJSON, &key.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}

	if !key.ExpiresAt.After(time.Now()) {
		s.db.Exec(`DELETE FROM answer_keys WHERE quiz_id = ?`, quizID)
		return nil, ErrQuizNotFound
	}

	if err := json.Unmarshal([]byte(entriesJSON), &key.Entries); err != nil {
		return nil, fmt.Errorf("unmarshal answer key: %w", err)
	}
	return &key, nil
}

// PurgeExpiredKeys removes expired answer keys and returns how many went.
func (s *SQLiteDB) PurgeExpiredKeys(now time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM answer_keys WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ApplyAttempt records a floor attempt and folds it into the user's ledger
// in a single transaction. The ledger read-modify-write is serialized per
// user by the transaction plus an optimistic version check; a duplicate
// (user, quiz) submission changes nothing and returns the current ledger
// with duplicate=true.
func (s *SQLiteDB) ApplyAttempt(att *campaign.FloorAttempt) (*campaign.Ledger, bool, error) {
	if att.ID == "" {
		att.ID = uuid.New().String()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	// Idempotency guard: a committed attempt for this quiz means the client
	// is retrying. Nothing to re-apply.
	var existing int
	err = tx.QueryRow(`SELECT COUNT(*) FROM attempts WHERE user_id = ? AND quiz_id = ?`, att.UserID, att.QuizID).Scan(&existing)
	if err != nil {
		return nil, false, err
	}
	if existing > 0 {
		ledger, err := ledgerInTx(tx, att.UserID)
		if err != nil {
			return nil, false, err
		}
		return ledger, true, nil
	}

	bossCategories, err := json.Marshal(att.BossCategories)
	if err != nil {
		return nil, false, err
	}
	_, err = tx.Exec(
		`INSERT INTO attempts (id, user_id, quiz_id, floor_number, category, boss_categories_json,
			is_mini_boss, difficulty, score, total, passed, is_perfect, duration_sec, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		att.ID, att.UserID, att.QuizID, att.FloorNumber, att.Category, string(bossCategories),
		boolToInt(att.IsMiniBoss), att.Difficulty, att.Score, att.Total,
		boolToInt(att.Passed), boolToInt(att.IsPerfect), att.DurationSec, att.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, false, err
	}

	ledger, err := ledgerInTx(tx, att.UserID)
	if err != nil {
		return nil, false, err
	}
	expectedVersion := ledger.Version
	ledger.Apply(att)
	ledger.Version = expectedVersion + 1

	if err := writeLedgerInTx(tx, ledger, expectedVersion); err != nil {
		return nil, false, err
	}

	// Campaign answers also feed the lifetime aggregates.
	if err := addQuizStatsInTx(tx, att.UserID, att.Total, att.Score); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return ledger, false, nil
}

// GetLedger loads a user's ledger, returning a fresh one for a first-time
// user.
func (s *SQLiteDB) GetLedger(userID string) (*campaign.Ledger, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ledger, err := ledgerInTx(tx, userID)
	if err != nil {
		return nil, err
	}
	return ledger, tx.Commit()
}

func ledgerInTx(tx *sql.Tx, userID string) (*campaign.Ledger, error) {
	ledger := campaign.NewLedger(userID)
	var floorAttempts, perfectFloors, categoryStats string

	err := tx.QueryRow(
		`SELECT current_floor, highest_floor, total_questions, total_correct,
			floor_attempts_json, perfect_floors_json, category_stats_json, version
		FROM ledgers WHERE user_id = ?`,
		userID,
	).Scan(&ledger.CurrentFloor, &ledger.HighestFloor, &ledger.TotalQuestions, &ledger.TotalCorrect,
		&floorAttempts, &perfectFloors, &categoryStats, &ledger.Version)
	if err == sql.ErrNoRows {
		return ledger, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(floorAttempts), &ledger.FloorAttempts); err != nil {
		return nil, fmt.Errorf("unmarshal floor attempts: %w", err)
	}
	if err := json.Unmarshal([]byte(perfectFloors), &ledger.PerfectFloors); err != nil {
		return nil, fmt.Errorf("unmarshal perfect floors: %w", err)
	}
	if err := json.Unmarshal([]byte(categoryStats), &ledger.CategoryStats); err != nil {
		return nil, fmt.Errorf("unmarshal category stats: %w", err)
	}
	return ledger, nil
}

func writeLedgerInTx(tx *sql.Tx, ledger *campaign.Ledger, expectedVersion int64) error {
	floorAttempts, err := json.Marshal(ledger.FloorAttempts)
	if err != nil {
		return err
	}
	perfectFloors, err := json.Marshal(ledger.PerfectFloors)
	if err != nil {
		return err
	}
	categoryStats, err := json.Marshal(ledger.CategoryStats)
	if err != nil {
		return err
	}

	if expectedVersion == 0 {
		res, err := tx.Exec(
			`INSERT INTO ledgers (user_id, current_floor, highest_floor, total_questions, total_correct,
				floor_attempts_json, perfect_floors_json, category_stats_json, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				current_floor = excluded.current_floor,
				highest_floor = excluded.highest_floor,
				total_questions = excluded.total_questions,
				total_correct = excluded.total_correct,
				floor_attempts_json = excluded.floor_attempts_json,
				perfect_floors_json = excluded.perfect_floors_json,
				category_stats_json = excluded.category_stats_json,
				version = excluded.version
			WHERE ledgers.version = 0`,
			ledger.UserID, ledger.CurrentFloor, ledger.HighestFloor, ledger.TotalQuestions, ledger.TotalCorrect,
			string(floorAttempts), string(perfectFloors), string(categoryStats), ledger.Version,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrConflict
		}
		return nil
	}

	res, err := tx.Exec(
		`UPDATE ledgers SET current_floor = ?, highest_floor = ?, total_questions = ?, total_correct = ?,
			floor_attempts_json = ?, perfect_floors_json = ?, category_stats_json = ?, version = ?
		WHERE user_id = ? AND version = ?`,
		ledger.CurrentFloor, ledger.HighestFloor, ledger.TotalQuestions, ledger.TotalCorrect,
		string(floorAttempts), string(perfectFloors), string(categoryStats), ledger.Version,
		ledger.UserID, expectedVersion,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// GetAttemptByQuiz fetches the committed attempt for a (user, quiz) pair.
func (s *SQLiteDB) GetAttemptByQuiz(userID, quizID string) (*campaign.FloorAttempt, error) {
	row := s.db.QueryRow(
		attemptSelect+` WHERE user_id = ? AND quiz_id = ?`,
		userID, quizID,
	)
	att, err := scanAttempt(row)
	if err == sql.ErrNoRows {
		return nil, ErrQuizNotFound
	}
	return att, err
}

// RecentAttempts returns the user's attempts newest first, bounded by limit.
func (s *SQLiteDB) RecentAttempts(userID string, limit int) ([]*campaign.FloorAttempt, error) {
	rows, err := s.db.Query(
		attemptSelect+` WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*campaign.FloorAttempt
	for rows.Next() {
		att, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, att)
	}
	return attempts, rows.Err()
}

// BestScoreForFloor returns the user's best score on a floor, zero if never
// attempted.
func (s *SQLiteDB) BestScoreForFloor(userID string, floorNumber int) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(score) FROM attempts WHERE user_id = ? AND floor_number = ?`,
		userID, floorNumber,
	).Scan(&best)
	if err != nil {
		return 0, err
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

const attemptSelect = `SELECT id, user_id, quiz_id, floor_number, category, boss_categories_json,
	is_mini_boss, difficulty, score, total, passed, is_perfect, duration_sec, created_at
	FROM attempts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*campaign.FloorAttempt, error) {
	var att campaign.FloorAttempt
	var category sql.NullString
	var bossCategories sql.NullString
	var isMiniBoss, passed, isPerfect int

	err := row.Scan(&att.ID, &att.UserID, &att.QuizID, &att.FloorNumber, &category, &bossCategories,
		&isMiniBoss, &att.Difficulty, &att.Score, &att.Total, &passed, &isPerfect, &att.DurationSec, &att.CreatedAt)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		att.Category = category.String
	}
	if bossCategories.Valid && bossCategories.String != "" && bossCategories.String != "null" {
		if err := json.Unmarshal([]byte(bossCategories.String), &att.BossCategories); err != nil {
			return nil, fmt.Errorf("unmarshal boss categories: %w", err)
		}
	}
	att.IsMiniBoss = isMiniBoss == 1
	att.Passed = passed == 1
	att.IsPerfect = isPerfect == 1
	return &att, nil
}

// EarnedAchievements returns the set of achievement ids the user holds.
func (s *SQLiteDB) EarnedAchievements(userID string) (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT achievement_id FROM achievements WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	earned := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		earned[id] = true
	}
	return earned, rows.Err()
}

// Award inserts an achievement row at most once per (user, achievement).
// Re-awarding is a no-op that leaves earned_at and floor_earned untouched.
func (s *SQLiteDB) Award(userID, achievementID string, floorEarned int, earnedAt time.Time) (bool, error) {
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO achievements (user_id, achievement_id, floor_earned, earned_at) VALUES (?, ?, ?, ?)`,
		userID, achievementID, floorEarned, earnedAt.UTC(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListAchievements returns the user's earned achievements, oldest first.
func (s *SQLiteDB) ListAchievements(userID string) ([]EarnedAchievement, error) {
	rows, err := s.db.Query(
		`SELECT achievement_id, floor_earned, earned_at FROM achievements WHERE user_id = ? ORDER BY earned_at, achievement_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earned []EarnedAchievement
	for rows.Next() {
		var a EarnedAchievement
		if err := rows.Scan(&a.AchievementID, &a.FloorEarned, &a.EarnedAt); err != nil {
			return nil, err
		}
		earned = append(earned, a)
	}
	return earned, rows.Err()
}

// AddQuizStats bumps the lifetime aggregates for any game mode.
func (s *SQLiteDB) AddQuizStats(userID string, questions, correct int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := addQuizStatsInTx(tx, userID, questions, correct); err != nil {
		return err
	}
	return tx.Commit()
}

func addQuizStatsInTx(tx *sql.Tx, userID string, questions, correct int) error {
	_, err := tx.Exec(
		`INSERT INTO quiz_stats (user_id, total_questions, total_correct) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			total_questions = total_questions + excluded.total_questions,
			total_correct = total_correct + excluded.total_correct`,
		userID, questions, correct,
	)
	return err
}

// LifetimeCorrect returns total correct answers across all game modes.
func (s *SQLiteDB) LifetimeCorrect(userID string) (int, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(`SELECT total_correct FROM quiz_stats WHERE user_id = ?`, userID).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

// CountClutchPasses counts passes with exactly the minimum passing score.
func (s *SQLiteDB) CountClutchPasses(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM attempts WHERE user_id = ? AND passed = 1 AND score = ?`,
		userID, campaign.PassingScore,
	).Scan(&count)
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
