package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// Row lock strengths. Membership writers take lockForWrite; the attendance
// recorder takes lockForRead, which still excludes concurrent writers.
const (
	lockForWrite = "FOR NO KEY UPDATE"
	lockForRead  = "FOR SHARE"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// inTx runs fn in a read committed transaction bounded by the configured
// transaction timeout. Any error from fn rolls the whole transaction back.
//
// Lock order inside every transaction: invitations, then persons, then
// departments, then teams; rows of one table are locked in ascending id order.
func (p *Postgres) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	if p.cfg.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TxTimeout)
		defer cancel()
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		p.log.Errorw("commit failed", "op", op, "error", err)
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// uniqueConstraint returns the violated constraint name when err is a unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func sortedUnique(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	slices.Sort(res)
	return res
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
