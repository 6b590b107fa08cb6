package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed-width so that text comparison in SQL orders like time.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the database at path and applies the embedded migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListLists(ctx context.Context) ([]List, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, position, created_at, last_reset_at, mode, reset_hour, reset_minute, reset_weekday, reset_day_of_month, carry_over
		FROM lists ORDER BY position ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	out := make([]List, 0)
	for rows.Next() {
		item, scanErr := scanList(rows)
		if scanErr != nil {
			_ = rows.Close()
			return nil, scanErr
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range out {
		tasks, err := r.listTasks(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Tasks = tasks
	}
	return out, nil
}

func (r *SQLiteRepository) listTasks(ctx context.Context, listID string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, note, checked, priority, tags, created_at
		FROM tasks WHERE list_id = ? ORDER BY position ASC`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveList(ctx context.Context, in List) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return saveList(ctx, tx, in)
	})
}

func saveList(ctx context.Context, tx execer, in List) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO lists (id, name, position, created_at, last_reset_at, mode, reset_hour, reset_minute, reset_weekday, reset_day_of_month, carry_over)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position,
			last_reset_at = excluded.last_reset_at,
			mode = excluded.mode,
			reset_hour = excluded.reset_hour,
			reset_minute = excluded.reset_minute,
			reset_weekday = excluded.reset_weekday,
			reset_day_of_month = excluded.reset_day_of_month,
			carry_over = excluded.carry_over`,
		in.ID, in.Name, in.Position, mustTime(in.CreatedAt), mustTime(in.LastResetAt), in.Mode,
		in.ResetHour, in.ResetMinute, in.ResetWeekday, in.ResetDayOfMonth, boolInt(in.CarryOver),
	)
	if err != nil {
		return fmt.Errorf("upsert list %s: %w", in.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE list_id = ?`, in.ID); err != nil {
		return fmt.Errorf("clear tasks of %s: %w", in.ID, err)
	}
	for i, t := range in.Tasks {
		tags, err := encodeJSON(t.Tags)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (id, list_id, position, title, note, checked, priority, tags, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, in.ID, i, t.Title, t.Note, boolInt(t.Checked), t.Priority, tags, mustTime(t.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteList(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) CommitResets(ctx context.Context, lists []List, snapshots []Snapshot) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, l := range lists {
			if err := saveList(ctx, tx, l); err != nil {
				return err
			}
		}
		return insertSnapshotsNewestFirst(ctx, tx, snapshots)
	})
}

// insertSnapshotsNewestFirst stores snapshots given newest first. Rows are
// written in reverse so that ties on ended_at read back in the same order.
func insertSnapshotsNewestFirst(ctx context.Context, tx execer, snapshots []Snapshot) error {
	for i := len(snapshots) - 1; i >= 0; i-- {
		if err := insertSnapshot(ctx, tx, snapshots[i]); err != nil {
			return err
		}
	}
	return nil
}

func insertSnapshot(ctx context.Context, tx execer, s Snapshot) error {
	tasks, err := encodeJSON(s.Tasks)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, list_id, list_name, started_at, ended_at, total, completed, percent, tasks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ListID, s.ListName, mustTime(s.StartedAt), mustTime(s.EndedAt), s.Total, s.Completed, s.Percent, tasks,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListSnapshots(ctx context.Context, filter SnapshotListFilter) ([]Snapshot, error) {
	query := `SELECT id, list_id, list_name, started_at, ended_at, total, completed, percent, tasks FROM snapshots`
	args := make([]any, 0, 3)
	if filter.ListID != "" {
		query += ` WHERE list_id = ?`
		args = append(args, filter.ListID)
	}
	query += ` ORDER BY ended_at DESC, rowid DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Snapshot, 0)
	for rows.Next() {
		item, scanErr := scanSnapshot(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteSnapshots(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) CreateTemplate(ctx context.Context, in Template) error {
	return insertTemplate(ctx, r.db, in)
}

func insertTemplate(ctx context.Context, tx execer, in Template) error {
	tasks, err := encodeJSON(in.Tasks)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO templates (id, name, tasks, created_at) VALUES (?, ?, ?, ?)`,
		in.ID, in.Name, tasks, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, tasks, created_at FROM templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Template, 0)
	for rows.Next() {
		item, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) PutSetting(ctx context.Context, key, value string) error {
	return putSetting(ctx, r.db, key, value)
}

func putSetting(ctx context.Context, tx execer, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, dump Dump) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"tasks", "lists", "snapshots", "templates", "settings"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		for _, l := range dump.Lists {
			if err := saveList(ctx, tx, l); err != nil {
				return err
			}
		}
		if err := insertSnapshotsNewestFirst(ctx, tx, dump.Snapshots); err != nil {
			return err
		}
		for _, tpl := range dump.Templates {
			if err := insertTemplate(ctx, tx, tpl); err != nil {
				return err
			}
		}
		keys := make([]string, 0, len(dump.Settings))
		for k := range dump.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := putSetting(ctx, tx, k, dump.Settings[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func encodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(raw), nil
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanList(s scanner) (List, error) {
	var out List
	var created, lastReset string
	var carry int
	if err := s.Scan(&out.ID, &out.Name, &out.Position, &created, &lastReset, &out.Mode,
		&out.ResetHour, &out.ResetMinute, &out.ResetWeekday, &out.ResetDayOfMonth, &carry); err != nil {
		return List{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return List{}, err
	}
	lastResetAt, err := parseRequiredTime(lastReset)
	if err != nil {
		return List{}, err
	}
	out.CreatedAt = createdAt
	out.LastResetAt = lastResetAt
	out.CarryOver = carry == 1
	return out, nil
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var checked int
	var tags, created string
	if err := s.Scan(&out.ID, &out.Title, &out.Note, &checked, &out.Priority, &tags, &created); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	if err := json.Unmarshal([]byte(tags), &out.Tags); err != nil {
		return Task{}, fmt.Errorf("decode tags of task %s: %w", out.ID, err)
	}
	out.Checked = checked == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanSnapshot(s scanner) (Snapshot, error) {
	var out Snapshot
	var started, ended, tasks string
	if err := s.Scan(&out.ID, &out.ListID, &out.ListName, &started, &ended, &out.Total, &out.Completed, &out.Percent, &tasks); err != nil {
		return Snapshot{}, err
	}
	startedAt, err := parseRequiredTime(started)
	if err != nil {
		return Snapshot{}, err
	}
	endedAt, err := parseRequiredTime(ended)
	if err != nil {
		return Snapshot{}, err
	}
	if err := json.Unmarshal([]byte(tasks), &out.Tasks); err != nil {
		return Snapshot{}, fmt.Errorf("decode tasks of snapshot %s: %w", out.ID, err)
	}
	out.StartedAt = startedAt
	out.EndedAt = endedAt
	return out, nil
}

func scanTemplate(s scanner) (Template, error) {
	var out Template
	var tasks, created string
	if err := s.Scan(&out.ID, &out.Name, &tasks, &created); err != nil {
		return Template{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Template{}, err
	}
	if err := json.Unmarshal([]byte(tasks), &out.Tasks); err != nil {
		return Template{}, fmt.Errorf("decode tasks of template %s: %w", out.ID, err)
	}
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
