package photostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bodywise/internal/config"
)

const recordColumns = "pose_id, image_data, is_correct, feedback, width, height, captured_at, updated_at"

// Store manages photo-set persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the photo database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "photos.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Read fetches the record for a pose. Returns the empty record when the
// pose has never been written.
func (s *Store) Read(ctx context.Context, poseID string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM photo_records WHERE pose_id = ?`, poseID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Empty(poseID), nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("read record: %w", err)
	}
	return record, nil
}

// Write upserts the record for a pose.
func (s *Store) Write(ctx context.Context, record Record) error {
	if record.PoseID == "" {
		return errors.New("record pose id is empty")
	}
	record.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO photo_records (`+recordColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(pose_id) DO UPDATE SET
             image_data = excluded.image_data,
             is_correct = excluded.is_correct,
             feedback = excluded.feedback,
             width = excluded.width,
             height = excluded.height,
             captured_at = excluded.captured_at,
             updated_at = excluded.updated_at`,
		record.PoseID,
		record.ImageData,
		nullableBool(record.IsCorrect),
		nullableString(record.Feedback),
		record.Width,
		record.Height,
		nullableTime(record.CapturedAt),
		record.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// List returns all stored records ordered by pose id.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM photo_records ORDER BY pose_id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Reset returns a single pose's record to its empty form.
func (s *Store) Reset(ctx context.Context, poseID string) error {
	return s.Write(ctx, Empty(poseID))
}

// ResetAll removes every stored record.
func (s *Store) ResetAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM photo_records`); err != nil {
		return fmt.Errorf("reset records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		record     Record
		isCorrect  sql.NullBool
		feedback   sql.NullString
		capturedAt sql.NullString
		updatedAt  string
	)
	err := row.Scan(
		&record.PoseID,
		&record.ImageData,
		&isCorrect,
		&feedback,
		&record.Width,
		&record.Height,
		&capturedAt,
		&updatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if isCorrect.Valid {
		value := isCorrect.Bool
		record.IsCorrect = &value
	}
	if feedback.Valid {
		record.Feedback = feedback.String
	}
	if capturedAt.Valid && capturedAt.String != "" {
		parsed, err := time.Parse(time.RFC3339Nano, capturedAt.String)
		if err != nil {
			return Record{}, fmt.Errorf("parse captured_at: %w", err)
		}
		record.CapturedAt = &parsed
	}
	parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse updated_at: %w", err)
	}
	record.UpdatedAt = parsed
	return record, nil
}

func nullableBool(value *bool) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}
