package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLite is a Backend persisting each collection in its own table. Records
// live in a JSON "data" column and are filtered with json_extract.
type SQLite struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open creates a SQLite backend connected to the database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", withConnPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	migrate, err := schema.NewMigrate(drv)
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	if err := migrate.Create(context.Background(), tables()...); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &SQLite{db: db, drv: drv}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.drv.Close()
}

// tables describes one table per collection.
func tables() []*schema.Table {
	var ts []*schema.Table
	for _, name := range Collections() {
		t := schema.NewTable(name).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
			AddColumn(&schema.Column{Name: "data", Type: field.TypeJSON}).
			AddColumn(&schema.Column{Name: "created_at", Type: field.TypeTime}).
			AddColumn(&schema.Column{Name: "updated_at", Type: field.TypeTime})
		ts = append(ts, t)
	}
	return ts
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// withConnPragmas adds the per-connection pragmas to dsn so every pooled
// connection enforces them, not only the one applyPragmas ran on.
func withConnPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// jsonPath returns the json_extract expression for a validated field name.
func jsonPath(field string) string {
	if field == IDField {
		return "id"
	}
	return fmt.Sprintf("json_extract(data, '$.%s')", field)
}

// sqlValue maps a normalized JSON value to what json_extract yields.
func sqlValue(v any) any {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return x
	}
}

func predicate(c Condition) *entsql.Predicate {
	path := jsonPath(c.Field)
	want := normalize(c.Value)

	switch c.Op {
	case OpEQ:
		if want == nil {
			return entsql.ExprP(path + " IS NULL")
		}
		return entsql.ExprP(path+" = ?", sqlValue(want))
	case OpNE:
		if want == nil {
			return entsql.ExprP(path + " IS NOT NULL")
		}
		return entsql.ExprP("("+path+" IS NULL OR "+path+" <> ?)", sqlValue(want))
	case OpIn:
		list, _ := want.([]any)
		if len(list) == 0 {
			return entsql.ExprP("1 = 0")
		}
		args := make([]any, len(list))
		for i, v := range list {
			args[i] = sqlValue(v)
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(list)), ", ")
		return entsql.ExprP(path+" IN ("+marks+")", args...)
	}

	op := map[Operator]string{OpLT: "<", OpLTE: "<=", OpGT: ">", OpGTE: ">="}[c.Op]
	return entsql.ExprP(fmt.Sprintf("%s %s ?", path, op), sqlValue(want))
}

func (s *SQLite) Fetch(ctx context.Context, collection string, q Query) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}

	b := builder()
	sel := b.Select("data").From(b.Table(collection))
	if len(q.Where) > 0 {
		preds := make([]*entsql.Predicate, len(q.Where))
		for i, c := range q.Where {
			preds[i] = predicate(c)
		}
		sel.Where(entsql.And(preds...))
	}
	for _, o := range q.OrderBy {
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		sel.OrderExpr(entsql.Expr(jsonPath(o.Field) + dir))
	}
	sel.OrderBy("id")
	switch {
	case q.Limit > 0:
		sel.Limit(q.Limit)
	case q.Offset > 0:
		// SQLite requires LIMIT before OFFSET; -1 means unbounded.
		sel.Limit(-1)
	}
	if q.Offset > 0 {
		sel.Offset(q.Offset)
	}

	query, args := sel.Query()
	return s.queryDocs(ctx, query, args)
}

func (s *SQLite) FetchByID(ctx context.Context, collection string, id int) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	b := builder()
	query, args := b.Select("data").From(b.Table(collection)).
		Where(entsql.EQ("id", id)).
		Query()
	docs, err := s.queryDocs(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s %d: %w", collection, id, ErrNotFound)
	}
	return docs[0], nil
}

func (s *SQLite) queryDocs(ctx context.Context, query string, args []any) ([]json.RawMessage, error) {
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// withTx runs fn inside a transaction, committing on success.
func (s *SQLite) withTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLite) Create(ctx context.Context, collection string, records []json.RawMessage) ([]ItemResult, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	results := make([]ItemResult, len(records))
	for i, raw := range records {
		results[i] = s.createOne(ctx, collection, raw)
	}
	return results, nil
}

// createOne inserts a single record in its own transaction so one failure
// leaves the other items of the batch intact.
func (s *SQLite) createOne(ctx context.Context, collection string, raw json.RawMessage) ItemResult {
	doc, err := decodeDocument(raw)
	if err != nil {
		return ItemResult{Message: err.Error()}
	}

	var out json.RawMessage
	err = s.withTx(ctx, func(tx dialect.Tx) error {
		now := time.Now().UTC()
		id := doc.id()
		if id > 0 {
			data, err := doc.encode()
			if err != nil {
				return err
			}
			query, args := builder().Insert(collection).
				Columns("id", "data", "created_at", "updated_at").
				Values(id, string(data), now, now).
				Query()
			if err := tx.Exec(ctx, query, args, nil); err != nil {
				return fmt.Errorf("insert id %d: %w", id, err)
			}
			out = data
			return nil
		}

		query, args := builder().Insert(collection).
			Columns("data", "created_at", "updated_at").
			Values("{}", now, now).
			Query()
		var res sql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		doc.setID(int(newID))
		data, err := doc.encode()
		if err != nil {
			return err
		}
		query, args = builder().Update(collection).
			Set("data", string(data)).
			Where(entsql.EQ("id", newID)).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("store id %d: %w", newID, err)
		}
		out = data
		return nil
	})
	if err != nil {
		return ItemResult{Message: err.Error()}
	}
	return ItemResult{Success: true, Data: out}
}

func (s *SQLite) Update(ctx context.Context, collection string, records []json.RawMessage) ([]ItemResult, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	results := make([]ItemResult, len(records))
	for i, raw := range records {
		results[i] = s.updateOne(ctx, collection, raw)
	}
	return results, nil
}

func (s *SQLite) updateOne(ctx context.Context, collection string, raw json.RawMessage) ItemResult {
	patch, err := decodeDocument(raw)
	if err != nil {
		return ItemResult{Message: err.Error()}
	}
	id := patch.id()

	var out json.RawMessage
	err = s.withTx(ctx, func(tx dialect.Tx) error {
		b := builder()
		query, args := b.Select("data").From(b.Table(collection)).
			Where(entsql.EQ("id", id)).
			Query()
		var rows entsql.Rows
		if err := tx.Query(ctx, query, args, &rows); err != nil {
			return fmt.Errorf("load id %d: %w", id, err)
		}
		var current []byte
		found := rows.Next()
		if found {
			if err := rows.Scan(&current); err != nil {
				rows.Close()
				return fmt.Errorf("scan id %d: %w", id, err)
			}
		}
		rows.Close()
		if !found {
			return fmt.Errorf("id %d: %w", id, ErrNotFound)
		}

		existing, err := decodeDocument(current)
		if err != nil {
			return err
		}
		existing.merge(patch)
		data, err := existing.encode()
		if err != nil {
			return err
		}
		query, args = builder().Update(collection).
			Set("data", string(data)).
			Set("updated_at", time.Now().UTC()).
			Where(entsql.EQ("id", id)).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("update id %d: %w", id, err)
		}
		out = data
		return nil
	})
	if err != nil {
		return ItemResult{Message: err.Error()}
	}
	return ItemResult{Success: true, Data: out}
}

func (s *SQLite) Delete(ctx context.Context, collection string, ids []int) ([]ItemResult, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	results := make([]ItemResult, len(ids))
	for i, id := range ids {
		data, err := s.FetchByID(ctx, collection, id)
		if err != nil {
			results[i] = ItemResult{Message: err.Error()}
			continue
		}
		query, args := builder().Delete(collection).Where(entsql.EQ("id", id)).Query()
		if err := s.drv.Exec(ctx, query, args, nil); err != nil {
			results[i] = ItemResult{Message: fmt.Sprintf("delete id %d: %v", id, err)}
			continue
		}
		results[i] = ItemResult{Success: true, Data: data}
	}
	return results, nil
}
