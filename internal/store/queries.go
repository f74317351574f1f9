package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionRow is the persisted top level deck state for one profile.
type SessionRow struct {
	Profile  string
	Mode     string
	FocusURL string
	Width    int
	Height   int
	SavedOn  time.Time
	Columns  []ColumnRow
}

// ColumnRow is one persisted column, ordered by Position.
type ColumnRow struct {
	Position        int
	URL             string
	AutoRefresh     bool
	IntervalSeconds int
}

// CookieRow mirrors the fields of an http.Cookie we care to persist.
type CookieRow struct {
	Host     string
	Name     string
	Value    string
	Path     string
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
}

// HistoryRow is a single recorded visit.
type HistoryRow struct {
	URL       string
	VisitedOn time.Time
}

// Store wraps the database with the application queries.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveSession replaces the stored session and columns for the profile.
func (s *Store) SaveSession(ctx context.Context, session SessionRow) error {
	tx, errTx := s.db.BeginTx(ctx, nil)
	if errTx != nil {
		return errors.Join(errTx, ErrQuery)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	const upsert = `
		INSERT INTO session (profile, mode, focus_url, width, height, saved_on)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (profile) DO UPDATE SET
			mode = excluded.mode, focus_url = excluded.focus_url,
			width = excluded.width, height = excluded.height, saved_on = excluded.saved_on`

	if _, errExec := tx.ExecContext(ctx, upsert,
		session.Profile, session.Mode, session.FocusURL,
		session.Width, session.Height, session.SavedOn); errExec != nil {
		return errors.Join(errExec, ErrQuery)
	}

	if _, errDel := tx.ExecContext(ctx, `DELETE FROM deck_column WHERE profile = ?`, session.Profile); errDel != nil {
		return errors.Join(errDel, ErrQuery)
	}

	for _, column := range session.Columns {
		if _, errCol := tx.ExecContext(ctx, `
			INSERT INTO deck_column (profile, position, url, auto_refresh, interval_seconds)
			VALUES (?, ?, ?, ?, ?)`,
			session.Profile, column.Position, column.URL, column.AutoRefresh, column.IntervalSeconds); errCol != nil {
			return errors.Join(errCol, ErrQuery)
		}
	}

	if errCommit := tx.Commit(); errCommit != nil {
		return errors.Join(errCommit, ErrQuery)
	}

	return nil
}

// Session loads the stored session for the profile, columns included.
// A profile that has never been saved returns ErrNotFound.
func (s *Store) Session(ctx context.Context, profile string) (SessionRow, error) {
	var session SessionRow

	row := s.db.QueryRowContext(ctx, `
		SELECT profile, mode, focus_url, width, height, saved_on
		FROM session WHERE profile = ?`, profile)
	if errScan := row.Scan(&session.Profile, &session.Mode, &session.FocusURL,
		&session.Width, &session.Height, &session.SavedOn); errScan != nil {
		if errors.Is(errScan, sql.ErrNoRows) {
			return session, ErrNotFound
		}

		return session, errors.Join(errScan, ErrQuery)
	}

	rows, errRows := s.db.QueryContext(ctx, `
		SELECT position, url, auto_refresh, interval_seconds
		FROM deck_column WHERE profile = ? ORDER BY position`, profile)
	if errRows != nil {
		return session, errors.Join(errRows, ErrQuery)
	}

	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var column ColumnRow
		if errScan := rows.Scan(&column.Position, &column.URL, &column.AutoRefresh, &column.IntervalSeconds); errScan != nil {
			return session, errors.Join(errScan, ErrQuery)
		}
		session.Columns = append(session.Columns, column)
	}

	if errRows := rows.Err(); errRows != nil {
		return session, errors.Join(errRows, ErrQuery)
	}

	return session, nil
}

// SaveCookies replaces the stored cookie jar contents for the profile.
func (s *Store) SaveCookies(ctx context.Context, profile string, cookies []CookieRow) error {
	tx, errTx := s.db.BeginTx(ctx, nil)
	if errTx != nil {
		return errors.Join(errTx, ErrQuery)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if _, errDel := tx.ExecContext(ctx, `DELETE FROM cookie WHERE profile = ?`, profile); errDel != nil {
		return errors.Join(errDel, ErrQuery)
	}

	for _, cookie := range cookies {
		// Session cookies carry no expiry and store NULL.
		expires := sql.NullTime{Time: cookie.Expires, Valid: !cookie.Expires.IsZero()}
		if _, errExec := tx.ExecContext(ctx, `
			INSERT INTO cookie (profile, host, name, value, path, expires, secure, http_only)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			profile, cookie.Host, cookie.Name, cookie.Value, cookie.Path,
			expires, cookie.Secure, cookie.HTTPOnly); errExec != nil {
			return errors.Join(errExec, ErrQuery)
		}
	}

	if errCommit := tx.Commit(); errCommit != nil {
		return errors.Join(errCommit, ErrQuery)
	}

	return nil
}

// Cookies loads the stored cookies for the profile, expired ones skipped.
func (s *Store) Cookies(ctx context.Context, profile string) ([]CookieRow, error) {
	rows, errRows := s.db.QueryContext(ctx, `
		SELECT host, name, value, path, expires, secure, http_only
		FROM cookie WHERE profile = ?`, profile)
	if errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	defer func() {
		_ = rows.Close()
	}()

	var cookies []CookieRow

	now := time.Now()
	for rows.Next() {
		var cookie CookieRow
		var expires sql.NullTime
		if errScan := rows.Scan(&cookie.Host, &cookie.Name, &cookie.Value, &cookie.Path,
			&expires, &cookie.Secure, &cookie.HTTPOnly); errScan != nil {
			return nil, errors.Join(errScan, ErrQuery)
		}
		if expires.Valid {
			if expires.Time.Before(now) {
				continue
			}
			cookie.Expires = expires.Time
		}
		cookies = append(cookies, cookie)
	}

	if errRows := rows.Err(); errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	return cookies, nil
}

// AddHistory records a visit for the profile.
func (s *Store) AddHistory(ctx context.Context, profile string, url string, visitedOn time.Time) error {
	if _, errExec := s.db.ExecContext(ctx, `
		INSERT INTO history (profile, url, visited_on) VALUES (?, ?, ?)`,
		profile, url, visitedOn); errExec != nil {
		return errors.Join(errExec, ErrQuery)
	}

	return nil
}

// RecentHistory returns the most recent visits for the profile, newest first.
func (s *Store) RecentHistory(ctx context.Context, profile string, limit int) ([]HistoryRow, error) {
	rows, errRows := s.db.QueryContext(ctx, `
		SELECT url, visited_on FROM history
		WHERE profile = ? ORDER BY visited_on DESC, history_id DESC LIMIT ?`, profile, limit)
	if errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	defer func() {
		_ = rows.Close()
	}()

	var visits []HistoryRow

	for rows.Next() {
		var visit HistoryRow
		if errScan := rows.Scan(&visit.URL, &visit.VisitedOn); errScan != nil {
			return nil, errors.Join(errScan, ErrQuery)
		}
		visits = append(visits, visit)
	}

	if errRows := rows.Err(); errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	return visits, nil
}

// Profiles lists every profile with a stored session.
func (s *Store) Profiles(ctx context.Context) ([]string, error) {
	rows, errRows := s.db.QueryContext(ctx, `SELECT profile FROM session ORDER BY profile`)
	if errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	defer func() {
		_ = rows.Close()
	}()

	var profiles []string

	for rows.Next() {
		var profile string
		if errScan := rows.Scan(&profile); errScan != nil {
			return nil, errors.Join(errScan, ErrQuery)
		}
		profiles = append(profiles, profile)
	}

	if errRows := rows.Err(); errRows != nil {
		return nil, errors.Join(errRows, ErrQuery)
	}

	return profiles, nil
}
