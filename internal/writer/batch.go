package writer

import (
	"context"

	"github.com/rickgao/xiv-marketboard/internal/database"
)

// table describes an insert target.
type table struct {
	name    string
	columns []string
	keys    []string // Conflict target for Update mode
}

func (t table) statement(d database.Dialect, mode ConflictMode, rows int) string {
	if mode == Update {
		return d.Upsert(t.name, t.columns, t.keys, rows)
	}
	return d.InsertIgnore(t.name, t.columns, rows)
}

// ChunkSize returns how many rows of the given width fit in one statement.
func ChunkSize(bindLimit, fields int) int {
	if fields < 1 {
		return 1
	}
	n := bindLimit / fields
	if n < 1 {
		return 1
	}
	return n
}

// effectiveBindLimit applies the configured cap to the dialect maximum.
func effectiveBindLimit(d database.Dialect, configured int) int {
	limit := d.BindLimit()
	if configured > 0 && configured < limit {
		return configured
	}
	return limit
}

// insertChunked writes rows in chunks of at most bindLimit/len(columns) rows.
// chunkDone is called after each successful statement.
func insertChunked[T any](
	ctx context.Context,
	db database.DB,
	t table,
	mode ConflictMode,
	bindLimit int,
	rows []T,
	values func(T) []any,
	chunkDone func(Result),
) (Result, error) {
	var total Result
	size := ChunkSize(bindLimit, len(t.columns))

	for chunk, offset := 0, 0; offset < len(rows); chunk, offset = chunk+1, offset+size {
		end := min(offset+size, len(rows))
		part := rows[offset:end]

		args := make([]any, 0, len(part)*len(t.columns))
		for _, r := range part {
			args = append(args, values(r)...)
		}

		affected, err := db.Exec(ctx, t.statement(db.Dialect(), mode, len(part)), args...)
		if err != nil {
			return total, &PersistenceError{
				Table:  t.name,
				Chunk:  chunk,
				Offset: offset,
				Rows:   len(part),
				Err:    err,
			}
		}

		res := chunkResult(mode, len(part), affected)
		total.Add(res)
		if chunkDone != nil {
			chunkDone(res)
		}
	}

	return total, nil
}

func chunkResult(mode ConflictMode, rows int, affected int64) Result {
	if mode == Update || affected > int64(rows) {
		return Result{Inserted: int64(rows)}
	}
	return Result{Inserted: affected, Ignored: int64(rows) - affected}
}
