package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
)

// PostgresStore persists history in Postgres through a pgx pool. Writes are
// idempotent via unique constraints, so replaying an overlapping message
// window never duplicates rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tables when they do not exist yet. Full schema
// management is owned by the deployment; this only bootstraps a dev database.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS fences (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			city TEXT NOT NULL DEFAULT 'unknown'
		);
		CREATE TABLE IF NOT EXISTS messages (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			source TEXT NOT NULL,
			text TEXT NOT NULL,
			ts TIMESTAMPTZ NOT NULL,
			hash TEXT NOT NULL,
			UNIQUE (hash, ts)
		);
		CREATE TABLE IF NOT EXISTS fence_status (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			fence_id BIGINT NOT NULL REFERENCES fences(id),
			status TEXT NOT NULL,
			message_time TIMESTAMPTZ NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			message_id BIGINT NOT NULL DEFAULT 0,
			UNIQUE (fence_id, message_time)
		);
		CREATE TABLE IF NOT EXISTS predictions (
			ts TIMESTAMPTZ NOT NULL,
			fence_id BIGINT NOT NULL,
			fence_name TEXT NOT NULL,
			status TEXT NOT NULL,
			wait_minutes INT NOT NULL,
			model_version TEXT NOT NULL,
			PRIMARY KEY (ts, fence_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetOrCreateFence(ctx context.Context, f fence.Fence) (fence.Fence, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO fences (name, latitude, longitude, city)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`, f.Name, f.Latitude, f.Longitude, f.City)
	if err != nil {
		return fence.Fence{}, fmt.Errorf("insert fence %q: %w", f.Name, err)
	}

	var got fence.Fence
	err = s.pool.QueryRow(ctx, `
		SELECT id, name, latitude, longitude, city FROM fences WHERE name = $1
	`, f.Name).Scan(&got.ID, &got.Name, &got.Latitude, &got.Longitude, &got.City)
	if err != nil {
		return fence.Fence{}, fmt.Errorf("select fence %q: %w", f.Name, err)
	}
	return got, nil
}

func (s *PostgresStore) Fences(ctx context.Context) ([]fence.Fence, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, latitude, longitude, city FROM fences ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query fences: %w", err)
	}
	defer rows.Close()

	var fences []fence.Fence
	for rows.Next() {
		var f fence.Fence
		if err := rows.Scan(&f.ID, &f.Name, &f.Latitude, &f.Longitude, &f.City); err != nil {
			return nil, fmt.Errorf("scan fence: %w", err)
		}
		fences = append(fences, f)
	}
	return fences, rows.Err()
}

func (s *PostgresStore) Append(ctx context.Context, e Event) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO fence_status (fence_id, status, message_time, image, message_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fence_id, message_time) DO NOTHING
	`, e.FenceID, string(e.Status), e.Time, e.Image, e.MessageID)
	if err != nil {
		return false, fmt.Errorf("append event fence=%d: %w", e.FenceID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) Query(ctx context.Context, filter Filter) ([]Event, error) {
	query := `
		SELECT id, fence_id, status, message_time, image, message_id
		FROM fence_status
		WHERE ($1 = 0 OR fence_id = $1)
		  AND ($2::timestamptz IS NULL OR message_time >= $2)
		  AND ($3::timestamptz IS NULL OR message_time < $3)
		ORDER BY message_time ASC, id ASC
	`
	from := nullableTime(filter.From)
	to := nullableTime(filter.To)
	rows, err := s.pool.Query(ctx, query, filter.FenceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var st string
		if err := rows.Scan(&e.ID, &e.FenceID, &st, &e.Time, &e.Image, &e.MessageID); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Status = statusLabel(st)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) LatestStatuses(ctx context.Context) ([]LatestStatus, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (fs.fence_id)
			f.id, f.name, f.latitude, f.longitude, f.city, fs.status, fs.message_time
		FROM fence_status fs
		JOIN fences f ON f.id = fs.fence_id
		ORDER BY fs.fence_id, fs.message_time DESC, fs.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query latest statuses: %w", err)
	}
	defer rows.Close()

	var latest []LatestStatus
	for rows.Next() {
		var ls LatestStatus
		var st string
		err := rows.Scan(&ls.Fence.ID, &ls.Fence.Name, &ls.Fence.Latitude,
			&ls.Fence.Longitude, &ls.Fence.City, &st, &ls.Time)
		if err != nil {
			return nil, fmt.Errorf("scan latest status: %w", err)
		}
		ls.Status = statusLabel(st)
		latest = append(latest, ls)
	}
	return latest, rows.Err()
}

func (s *PostgresStore) SaveMessage(ctx context.Context, m Message) (int64, error) {
	if m.ID != 0 {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO messages (id, source, text, ts, hash)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, m.ID, m.Source, m.Text, m.Time, m.Hash)
		if err != nil {
			return 0, fmt.Errorf("save message %d: %w", m.ID, err)
		}
		return m.ID, nil
	}
	// No upstream id: dedupe on (hash, ts) and hand back the existing row's
	// id on re-ingest. The no-op update makes RETURNING always yield a row.
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (source, text, ts, hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hash, ts) DO UPDATE SET source = EXCLUDED.source
		RETURNING id
	`, m.Source, m.Text, m.Time, m.Hash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save message: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) VerifyIntegrity(ctx context.Context) ([]IntegrityViolation, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, text, hash FROM messages`)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var violations []IntegrityViolation
	for rows.Next() {
		var id int64
		var text, storedHash string
		if err := rows.Scan(&id, &text, &storedHash); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if computed := HashText(text); computed != storedHash {
			violations = append(violations, IntegrityViolation{
				MessageID:    id,
				StoredHash:   storedHash,
				ComputedHash: computed,
			})
		}
	}
	return violations, rows.Err()
}

func (s *PostgresStore) SavePrediction(ctx context.Context, p Prediction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO predictions (ts, fence_id, fence_name, status, wait_minutes, model_version)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ts, fence_id) DO UPDATE SET
			wait_minutes = EXCLUDED.wait_minutes,
			model_version = EXCLUDED.model_version
	`, p.Time, p.FenceID, p.FenceName, string(p.Status), p.WaitMinutes, p.ModelVersion)
	if err != nil {
		return fmt.Errorf("save prediction fence=%d: %w", p.FenceID, err)
	}
	return nil
}
