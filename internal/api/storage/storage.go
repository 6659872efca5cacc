package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/quackapp/staffing-be/internal/api/domain"
	"github.com/quackapp/staffing-be/internal/api/service"
	"github.com/quackapp/staffing-be/shared/postgresql"
)

// Storage is the Postgres implementation of service.Store plus the read
// surfaces the handlers query directly. A Storage is either bound to the
// connection pool or, inside WithinTx, to a single transaction.
type Storage struct {
	db     *sqlx.DB
	q      sqlx.ExtContext
	logger *slog.Logger
}

func NewStorage(pg *postgresql.Client, logger *slog.Logger) *Storage {
	db := pg.GetDB()
	return &Storage{
		db:     db,
		q:      db,
		logger: logger,
	}
}

// WithinTx runs fn against a transaction-bound Storage. Calls made on an
// already transaction-bound Storage join the open transaction.
func (s *Storage) WithinTx(ctx context.Context, fn func(service.Store) error) error {
	if _, ok := s.q.(*sqlx.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &Storage{db: s.db, q: tx, logger: s.logger}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("Failed to roll back transaction",
				slog.Any("error", rbErr),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTenant resolves a user code to its owning User or Company account in a
// single lookup.
func (s *Storage) GetTenant(ctx context.Context, userCode string) (*domain.Tenant, error) {
	query := `
		SELECT user_code, kind, name, email, phone,
		       COALESCE(push_token, '') AS push_token, created_at
		FROM tenants
		WHERE user_code = $1
	`

	var tenant domain.Tenant
	if err := sqlx.GetContext(ctx, s.q, &tenant, query, userCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}
