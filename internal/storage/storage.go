package storage

import (
	"context"
	_ "embed"
	"fmt"
	"reflect"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"subtracker/internal/infra/sqlite3"
)

//go:embed schema.sql
var schema string

type storageImpl struct {
	db     *sqlx.DB
	withTx sqlite3.TxManager
	now    func() time.Time
}

func New(db *sqlx.DB) *storageImpl {
	return &storageImpl{
		db:     db,
		withTx: sqlite3.WithTx(db, nil),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates missing tables and indexes. It is safe to run on every start.
func (s *storageImpl) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *storageImpl) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *storageImpl) stmpBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// fields lists the db-tagged columns of a row struct, comma separated.
func fields(data any) string {
	var s string
	r := reflect.TypeOf(data)
	for i := 0; i < r.NumField(); i++ {
		tag := r.Field(i).Tag.Get("db")
		if tag != "" {
			s += tag + ","
		}
	}
	return s[:len(s)-1]
}

// prefixWithTable qualifies each column with a table alias for joins.
func prefixWithTable(prefix string, fields string) string {
	strs := strings.Split(fields, ",")

	var strBuilder strings.Builder
	strBuilder.Grow(len(fields) + len(strs)*(len(prefix)+1))
	for i := 0; i < len(strs); i++ {
		strBuilder.WriteString(fmt.Sprintf("%s.%s,", prefix, strs[i]))
	}
	s := strBuilder.String()
	return s[:len(s)-1]
}
