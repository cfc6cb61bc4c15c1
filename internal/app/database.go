package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-tournament/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTracedQueryLength = 512
	// IN lists longer than this are shortened in traces.
	maxTracedInArgs = 3
)

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	queryValuesRegex     = regexp.MustCompile(`(?i)\bVALUES (\([^()]*\))((?:, ?\([^()]*\))+)`)
	queryTupleRegex      = regexp.MustCompile(`\([^()]*\)`)
	queryInListRegex     = regexp.MustCompile(`(?i)\b(IN) \((\$\d+(?:, ?\$\d+)+)\)`)
)

// dbTarget is the connection string handed to lib/pq plus the parts worth
// logging. Credentials never leave dsn.
type dbTarget struct {
	dsn  string
	name string
	host string
}

// resolveDBTarget fills in the driver options this service relies on. Both
// URL and keyword/value connection strings are accepted; values the operator
// set explicitly are kept.
func resolveDBTarget(cfg config.Config) dbTarget {
	raw := strings.TrimSpace(cfg.DBURL)
	options := make([][2]string, 0, 2)
	if cfg.DBDisablePreparedBinary {
		options = append(options, [2]string{"disable_prepared_binary_result", "yes"})
	}
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		options = append(options, [2]string{"application_name", name})
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		for _, opt := range options {
			if query.Get(opt[0]) == "" {
				query.Set(opt[0], opt[1])
			}
		}
		parsed.RawQuery = query.Encode()
		return dbTarget{
			dsn:  parsed.String(),
			name: strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")),
			host: parsed.Hostname(),
		}
	}

	keywords := keywordValues(raw)
	dsn := raw
	for _, opt := range options {
		if _, ok := keywords[opt[0]]; !ok {
			dsn += " " + opt[0] + "=" + quoteKeywordValue(opt[1])
		}
	}
	return dbTarget{
		dsn:  strings.TrimSpace(dsn),
		name: keywords["dbname"],
		host: keywords["host"],
	}
}

func keywordValues(raw string) map[string]string {
	out := make(map[string]string)
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return out
}

func quoteKeywordValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}

func openDB(ctx context.Context, cfg config.Config, target dbTarget) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", target.dsn,
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("server.address", target.host),
		),
		otelsql.WithDBName(target.name),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres %s/%s: %w", target.host, target.name, err)
	}
	return db, nil
}

// formatDBQueryForTrace flattens a query onto one line. Multi-row inserts
// keep their first tuple and long IN lists keep their first placeholders,
// so chunked team writes and batch lookups stay readable in traces.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = queryValuesRegex.ReplaceAllStringFunc(normalized, func(m string) string {
		parts := queryValuesRegex.FindStringSubmatch(m)
		rows := 1 + len(queryTupleRegex.FindAllString(parts[2], -1))
		return "VALUES " + parts[1] + " /* " + strconv.Itoa(rows) + " rows */"
	})
	normalized = queryInListRegex.ReplaceAllStringFunc(normalized, func(m string) string {
		parts := queryInListRegex.FindStringSubmatch(m)
		args := strings.Split(parts[2], ",")
		if len(args) <= maxTracedInArgs {
			return m
		}
		kept := make([]string, 0, maxTracedInArgs)
		for _, arg := range args[:maxTracedInArgs] {
			kept = append(kept, strings.TrimSpace(arg))
		}
		return parts[1] + " (" + strings.Join(kept, ", ") + ", ... /* " + strconv.Itoa(len(args)) + " args */)"
	})

	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
