package cockroach

import (
	"context"
	"embed"
	"strings"

	"github.com/cockroachdb/cockroach-go/v2/crdb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nicolasparada/go-db"
)

//go:embed migrations/*.sql
var MigrationsFS embed.FS

type Cockroach struct {
	db *db.DB
}

func New(pool *pgxpool.Pool) *Cockroach {
	return &Cockroach{
		db: db.New(pool),
	}
}

type ctxKeyTx struct{}

// RunTx runs fn in a transaction, retrying the whole of it on
// serialization failures. Calls nested inside fn join the outer
// transaction.
func (c *Cockroach) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(ctxKeyTx{}) != nil {
		return fn(ctx)
	}

	return crdb.Execute(func() error {
		return c.db.RunTx(ctx, func(ctx context.Context) error {
			return fn(context.WithValue(ctx, ctxKeyTx{}, true))
		})
	})
}

func where(filters []string) string {
	if len(filters) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(filters, " AND ") + " "
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
