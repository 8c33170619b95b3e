package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IanScripts/Learnbot-AiTutor/internal/domain"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the SQLite database at dbPath,
// applies pragmas and initializes the schema.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id              TEXT PRIMARY KEY,
		owner           TEXT NOT NULL,
		title           TEXT NOT NULL,
		topic           TEXT NOT NULL,
		grade_level     TEXT NOT NULL,
		mode            TEXT NOT NULL,
		difficulty      TEXT NOT NULL,
		persona         TEXT NOT NULL,
		created_at      INTEGER NOT NULL,
		turns_json      TEXT NOT NULL DEFAULT '[]',
		current_problem TEXT NOT NULL DEFAULT '',
		steps_json      TEXT NOT NULL DEFAULT '[]',
		step_index      INTEGER NOT NULL DEFAULT 0,
		quiz_question   TEXT NOT NULL DEFAULT '',
		quiz_answer     TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_owner_mode
		ON sessions(owner, mode, created_at);

	CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms    INTEGER NOT NULL,
		cost_usd      REAL NOT NULL,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateSession persists a new session record.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *domain.Session) error {
	turns, steps, err := marshalCollections(sess)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, owner, title, topic, grade_level, mode, difficulty, persona,
			created_at, turns_json, current_problem, steps_json, step_index,
			quiz_question, quiz_answer
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Owner, sess.Title, sess.Topic, sess.GradeLevel,
		string(sess.Mode), string(sess.Difficulty), string(sess.Persona),
		sess.CreatedAt.UnixNano(), turns, sess.CurrentProblem, steps,
		sess.StepIndex, sess.QuizQuestion, sess.QuizAnswer,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession returns the session with the given id, or nil if absent.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, title, topic, grade_level, mode, difficulty, persona,
		       created_at, turns_json, current_problem, steps_json, step_index,
		       quiz_question, quiz_answer
		FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	return sess, nil
}

// UpdateSession overwrites the stored record for sess.ID.
func (s *SQLiteStore) UpdateSession(ctx context.Context, sess *domain.Session) error {
	turns, steps, err := marshalCollections(sess)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE sessions SET
			title = ?, topic = ?, grade_level = ?, mode = ?, difficulty = ?,
			persona = ?, turns_json = ?, current_problem = ?, steps_json = ?,
			step_index = ?, quiz_question = ?, quiz_answer = ?
		WHERE id = ?`,
		sess.Title, sess.Topic, sess.GradeLevel, string(sess.Mode),
		string(sess.Difficulty), string(sess.Persona), turns,
		sess.CurrentProblem, steps, sess.StepIndex,
		sess.QuizQuestion, sess.QuizAnswer, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// DeleteSession removes the record. Returns whether a row was deleted.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListSessions returns an owner's sessions in the given mode, newest-first.
func (s *SQLiteStore) ListSessions(ctx context.Context, owner string, mode domain.Mode) ([]*domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, title, topic, grade_level, mode, difficulty, persona,
		       created_at, turns_json, current_problem, steps_json, step_index,
		       quiz_question, quiz_answer
		FROM sessions
		WHERE owner = ? AND mode = ?
		ORDER BY created_at DESC`, owner, string(mode))
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// AppendLLMRequest records a single generation-client call.
func (s *SQLiteStore) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	success := 0
	if data.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_events (
			timestamp, provider, model, purpose, input_tokens, output_tokens,
			latency_ms, cost_usd, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UnixNano(), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.CostUSD,
		success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("insert llm event: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner abstracts *sql.Row and *sql.Rows for scanSession.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*domain.Session, error) {
	var (
		sess                   domain.Session
		mode, difficulty, pers string
		createdAt              int64
		turnsJSON, stepsJSON   string
	)

	err := sc.Scan(
		&sess.ID, &sess.Owner, &sess.Title, &sess.Topic, &sess.GradeLevel,
		&mode, &difficulty, &pers, &createdAt, &turnsJSON,
		&sess.CurrentProblem, &stepsJSON, &sess.StepIndex,
		&sess.QuizQuestion, &sess.QuizAnswer,
	)
	if err != nil {
		return nil, err
	}

	sess.Mode = domain.Mode(mode)
	sess.Difficulty = domain.Difficulty(difficulty)
	sess.Persona = domain.Persona(pers)
	sess.CreatedAt = time.Unix(0, createdAt)

	if err := json.Unmarshal([]byte(turnsJSON), &sess.Turns); err != nil {
		return nil, fmt.Errorf("decode turns: %w", err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &sess.Steps); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}
	return &sess, nil
}

func marshalCollections(sess *domain.Session) (turns, steps string, err error) {
	t := sess.Turns
	if t == nil {
		t = []domain.Turn{}
	}
	tb, err := json.Marshal(t)
	if err != nil {
		return "", "", fmt.Errorf("encode turns: %w", err)
	}

	st := sess.Steps
	if st == nil {
		st = []string{}
	}
	sb, err := json.Marshal(st)
	if err != nil {
		return "", "", fmt.Errorf("encode steps: %w", err)
	}
	return string(tb), string(sb), nil
}
