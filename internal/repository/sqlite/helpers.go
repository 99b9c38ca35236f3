package sqlite

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/bidouilles/multimaster/internal/logger"
)

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// encodeTables stores a table set as a comma-joined string, e.g. "3,7".
func encodeTables(tables []int) string {
	if len(tables) == 0 {
		return ""
	}
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ",")
}

func decodeTables(s string) []int {
	if s == "" {
		return nil
	}
	var tables []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			tables = append(tables, n)
		}
	}
	return tables
}

// tableMembershipPattern builds the LIKE pattern matching sessions whose
// comma-joined tables column contains table.
func tableMembershipPattern(table int) string {
	return "%," + strconv.Itoa(table) + ",%"
}
