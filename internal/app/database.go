package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute
	dbPingTimeout     = 5 * time.Second

	// Ball ledger inserts are wide; anything past this is cut in span attributes.
	tracedStatementLimit = 384
)

// databaseTarget is the resolved connection string plus the name reported on spans.
type databaseTarget struct {
	DSN  string
	Name string
}

func parseDatabaseTarget(raw string, disablePreparedBinary bool) databaseTarget {
	raw = strings.TrimSpace(raw)
	target := databaseTarget{DSN: raw}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		target.Name = keywordDBName(raw)
		return target
	}

	target.Name = strings.Trim(parsed.Path, "/ ")
	if !disablePreparedBinary {
		return target
	}
	q := parsed.Query()
	if _, set := q["disable_prepared_binary_result"]; !set {
		q.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = q.Encode()
		target.DSN = parsed.String()
	}
	return target
}

// keywordDBName reads dbname out of a "host=... dbname=..." style DSN.
func keywordDBName(dsn string) string {
	for _, field := range strings.Fields(dsn) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key != "dbname" {
			continue
		}
		return strings.Trim(value, `"'`)
	}
	return ""
}

func openDatabase(ctx context.Context, target databaseTarget) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", target.DSN,
		otelsql.WithDBName(target.Name),
		otelsql.WithQueryFormatter(traceStatement),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db (%s): %w", target.Name, err)
	}
	return db, nil
}

var (
	statementSpaces       = regexp.MustCompile(`\s+`)
	statementPlaceholders = regexp.MustCompile(`\(\s*\$\d+(\s*,\s*\$\d+)+\s*\)`)
	statementLiterals     = regexp.MustCompile(`'(?:[^']|'')*'`)
)

// traceStatement turns a query into a span-safe summary. Placeholder tuples
// from multi-row inserts collapse to ($n...) and string literals are masked
// so commentary text never lands in traces.
func traceStatement(query string) string {
	out := strings.TrimSpace(statementSpaces.ReplaceAllString(query, " "))
	out = statementLiterals.ReplaceAllString(out, "'?'")
	out = statementPlaceholders.ReplaceAllString(out, "($n...)")
	if len(out) > tracedStatementLimit {
		out = out[:tracedStatementLimit] + "..."
	}
	return out
}
