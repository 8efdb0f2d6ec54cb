package db

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// CookieJar is an http.CookieJar whose contents survive between CLI runs.
// Cookies are kept in memory by a cookiejar.Jar and mirrored to the cookies
// table on every SetCookies call.
type CookieJar struct {
	db     *sql.DB
	logger *zap.Logger

	mu  sync.Mutex
	jar *cookiejar.Jar
}

func newMemoryJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// OpenCookieJar loads unexpired cookies from sqldb. A nil logger is allowed.
func OpenCookieJar(sqldb *sql.DB, logger *zap.Logger) (*CookieJar, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	jar, err := newMemoryJar()
	if err != nil {
		return nil, err
	}
	j := &CookieJar{db: sqldb, logger: logger, jar: jar}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := sqldb.Exec(`DELETE FROM cookies WHERE expires_at IS NOT NULL AND expires_at <= ?`, now); err != nil {
		return nil, fmt.Errorf("purge expired cookies: %w", err)
	}
	rows, err := sqldb.Query(`
SELECT origin, domain, path, name, value, expires_at, secure, http_only
FROM cookies
ORDER BY origin`)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	defer rows.Close()

	byOrigin := map[string][]*http.Cookie{}
	var origins []string
	for rows.Next() {
		var origin, domain, path, name, value string
		var expiresAt sql.NullString
		var secure, httpOnly int
		if err := rows.Scan(&origin, &domain, &path, &name, &value, &expiresAt, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("scan cookie: %w", err)
		}
		c := &http.Cookie{Name: name, Value: value, Domain: domain, Path: path, Secure: secure == 1, HttpOnly: httpOnly == 1}
		if expiresAt.Valid {
			t, err := time.Parse(time.RFC3339, expiresAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse cookie %s expiry: %w", name, err)
			}
			c.Expires = t
		}
		if _, ok := byOrigin[origin]; !ok {
			origins = append(origins, origin)
		}
		byOrigin[origin] = append(byOrigin[origin], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cookies: %w", err)
	}

	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil {
			return nil, fmt.Errorf("parse cookie origin %q: %w", origin, err)
		}
		jar.SetCookies(u, byOrigin[origin])
	}
	return j, nil
}

func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// SetCookies stores cookies in memory and persists them. Persistence errors
// are logged since the http.CookieJar interface has no error return.
func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar.SetCookies(u, cookies)
	if err := j.persist(u, cookies); err != nil {
		j.logger.Warn("persist cookies", zap.String("host", u.Host), zap.Error(err))
	}
}

func (j *CookieJar) persist(u *url.URL, cookies []*http.Cookie) error {
	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
	now := time.Now()

	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cookie tx: %w", err)
	}
	for _, c := range cookies {
		path := c.Path
		if path == "" {
			path = "/"
		}
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!expires.IsZero() && !expires.After(now)) {
			if _, err := tx.Exec(`DELETE FROM cookies WHERE origin = ? AND domain = ? AND path = ? AND name = ?`, origin, c.Domain, path, c.Name); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("delete cookie %s: %w", c.Name, err)
			}
			continue
		}

		var expiresAt any
		if !expires.IsZero() {
			expiresAt = expires.UTC().Format(time.RFC3339)
		}
		_, err := tx.Exec(`
INSERT INTO cookies(origin, domain, path, name, value, expires_at, secure, http_only, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(origin, domain, path, name) DO UPDATE SET
  value = excluded.value,
  expires_at = excluded.expires_at,
  secure = excluded.secure,
  http_only = excluded.http_only,
  updated_at = CURRENT_TIMESTAMP`,
			origin, c.Domain, path, c.Name, c.Value, expiresAt, boolToInt(c.Secure), boolToInt(c.HttpOnly),
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert cookie %s: %w", c.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cookies: %w", err)
	}
	return nil
}

// Clear drops every stored cookie, in memory and on disk.
func (j *CookieJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.db.Exec(`DELETE FROM cookies`); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	jar, err := newMemoryJar()
	if err != nil {
		return err
	}
	j.jar = jar
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
