package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shadowshield/internal/dbx"
	"github.com/dmitrijs2005/shadowshield/internal/server/models"
)

// PostgresRepository keeps the profile in the behavior_profiles table as the
// single row with id 1. Update locks that row for the duration of the
// transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Ensure(ctx context.Context) error {
	return ensureRow(ctx, r.db)
}

func (r *PostgresRepository) Get(ctx context.Context) (models.BehaviorProfile, error) {
	query :=
		`SELECT last_login_hour, hold_baseline, flight_baseline FROM behavior_profiles
		 WHERE id = 1
		 `

	p, err := scanProfile(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return models.BehaviorProfile{}, nil
	}
	return p, err
}

func (r *PostgresRepository) Update(ctx context.Context, fn func(p *models.BehaviorProfile) error) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := ensureRow(ctx, tx); err != nil {
			return err
		}

		query :=
			`SELECT last_login_hour, hold_baseline, flight_baseline FROM behavior_profiles
			 WHERE id = 1
			 FOR UPDATE
			 `

		p, err := scanProfile(tx.QueryRowContext(ctx, query))
		if err != nil {
			return err
		}
		if err := fn(&p); err != nil {
			return err
		}
		return writeProfile(ctx, tx, p)
	})
}

func ensureRow(ctx context.Context, db dbx.DBTX) error {
	query :=
		`INSERT INTO behavior_profiles (id) VALUES (1)
		 ON CONFLICT (id) DO NOTHING
		 `

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanProfile(row *sql.Row) (models.BehaviorProfile, error) {
	var (
		p      models.BehaviorProfile
		hour   sql.NullInt32
		hold   []byte
		flight []byte
	)

	if err := row.Scan(&hour, &hold, &flight); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("db error: %w", err)
	}

	if hour.Valid {
		p.SetHour(int(hour.Int32))
	}
	var err error
	if p.HoldBaseline, err = decodeVector(hold); err != nil {
		return p, err
	}
	if p.FlightBaseline, err = decodeVector(flight); err != nil {
		return p, err
	}
	return p, nil
}

func writeProfile(ctx context.Context, tx dbx.DBTX, p models.BehaviorProfile) error {
	query :=
		`UPDATE behavior_profiles
		 SET last_login_hour = $1, hold_baseline = $2, flight_baseline = $3, updated_at = now()
		 WHERE id = 1
		 `

	var hour sql.NullInt32
	if p.LastLoginHour != nil {
		hour = sql.NullInt32{Int32: int32(*p.LastLoginHour), Valid: true}
	}
	hold, err := encodeVector(p.HoldBaseline)
	if err != nil {
		return err
	}
	flight, err := encodeVector(p.FlightBaseline)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, query, hour, hold, flight); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Vectors are stored as JSONB arrays; NULL means absent.
func encodeVector(v []float64) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode vector: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeVector(b []byte) ([]float64, error) {
	if b == nil {
		return nil, nil
	}
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	return v, nil
}
