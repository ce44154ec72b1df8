package keys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/dbx"
)

// PostgresRepository keeps the key in the vault_keys table as the row with
// id 1.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) ([]byte, error) {
	query :=
		`SELECT key_material FROM vault_keys
		 WHERE id = 1
		 `

	var key []byte
	if err := r.db.QueryRowContext(ctx, query).Scan(&key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return key, nil
}

func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, key []byte) ([]byte, error) {
	query :=
		`INSERT INTO vault_keys (id, key_material) VALUES (1, $1)
		 ON CONFLICT (id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx)
}
