package checkers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Pool is the part of *pgxpool.Pool the checker uses.
type Pool interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tables the service cannot run without; they come from the goose migrations.
var requiredTables = []string{"users", "resumes", "user_info"}

// PostgresChecker reports ready once the database answers and every
// migrated table exists.
type PostgresChecker struct {
	pool Pool
}

func NewPostgresChecker(pool Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return err
	}
	var missing []string
	for _, table := range requiredTables {
		var exists bool
		if err := c.pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, "public."+table).Scan(&exists); err != nil {
			return fmt.Errorf("look up table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return errors.New("schema not migrated, missing tables: " + strings.Join(missing, ", "))
	}
	return nil
}
