package app

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/gridiron-loader/internal/config"
	"github.com/riskibarqy/gridiron-loader/internal/usecase"
)

const maxTracedQueryLength = 512

var (
	sqlLineComment = regexp.MustCompile(`--[^\n]*`)
	sqlWhitespace  = regexp.MustCompile(`\s+`)
)

func openRegistryDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := registryDSN(cfg.DBURL, cfg.DBApplicationName, cfg.DBPingTimeout)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(databaseName(dsn)),
		otelsql.WithQueryFormatter(traceableQuery),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open registry database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Mark(crerr.Wrap(err, "ping registry database"), usecase.ErrDependencyUnavailable)
	}
	return db, nil
}

// registryDSN fills application_name and connect_timeout unless the DSN
// already sets them. Both URL and key=value forms are accepted.
func registryDSN(raw, appName string, connectTimeout time.Duration) string {
	raw = strings.TrimSpace(raw)
	params := map[string]string{}
	if appName != "" {
		params["application_name"] = appName
	}
	if seconds := int(connectTimeout / time.Second); seconds > 0 {
		params["connect_timeout"] = strconv.Itoa(seconds)
	}
	if len(params) == 0 {
		return raw
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		for name, value := range params {
			if query.Get(name) == "" {
				query.Set(name, value)
			}
		}
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	present := dsnParams(raw)
	out := raw
	for _, name := range []string{"application_name", "connect_timeout"} {
		value, ok := params[name]
		if !ok {
			continue
		}
		if _, set := present[name]; set {
			continue
		}
		out += " " + name + "=" + quoteDSNValue(value)
	}
	return strings.TrimSpace(out)
}

func databaseName(dsn string) string {
	if parsed, err := url.Parse(strings.TrimSpace(dsn)); err == nil && parsed.Scheme != "" {
		return strings.TrimPrefix(parsed.Path, "/")
	}
	return dsnParams(dsn)["dbname"]
}

func dsnParams(dsn string) map[string]string {
	out := map[string]string{}
	for _, token := range strings.Fields(dsn) {
		name, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		out[name] = strings.Trim(value, `'"`)
	}
	return out
}

func quoteDSNValue(value string) string {
	if strings.ContainsAny(value, ` '\`) {
		return "'" + strings.ReplaceAll(strings.ReplaceAll(value, `\`, `\\`), "'", `\'`) + "'"
	}
	return value
}

// traceableQuery strips line comments, collapses whitespace and truncates on a
// rune boundary.
func traceableQuery(query string) string {
	query = sqlLineComment.ReplaceAllString(query, "")
	query = strings.TrimSpace(sqlWhitespace.ReplaceAllString(query, " "))
	if len(query) <= maxTracedQueryLength {
		return query
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut] + "..."
}
