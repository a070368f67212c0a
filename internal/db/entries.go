package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"worklog/internal/models"
	"worklog/internal/repository"
)

var entryColumns = []string{"id", "user_id", "cleaned", "flow", "comment", "start_time"}

func (db *DB) CreateEntry(ctx context.Context, e *models.Entry) error {
	query, args, err := db.sq.Insert("entries").
		Columns("user_id", "cleaned", "flow", "comment", "start_time").
		Values(e.OwnerID, e.Cleaned, string(e.Flow), e.Comment, e.StartTime.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}

	if err := db.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func (db *DB) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	query, args, err := db.sq.Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	e := &models.Entry{}
	var flow string
	err = db.QueryRowContext(ctx, query, args...).
		Scan(&e.ID, &e.OwnerID, &e.Cleaned, &flow, &e.Comment, &e.StartTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	e.Flow = models.Flow(flow)
	e.StartTime = e.StartTime.UTC()
	return e, nil
}

// ListEntries returns entries joined with their owner's username, most
// recent start_time first. Equal start times keep insertion order.
func (db *DB) ListEntries(ctx context.Context, filter repository.EntryFilter) ([]models.EntryView, error) {
	b := db.sq.Select(
		"e.id", "e.user_id", "e.cleaned", "e.flow", "e.comment", "e.start_time", "u.username",
	).
		From("entries e").
		Join("users u ON u.id = e.user_id").
		OrderBy("e.start_time DESC", "e.id ASC")
	if filter.OwnerID != nil {
		b = b.Where(sq.Eq{"e.user_id": *filter.OwnerID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.EntryView
	for rows.Next() {
		var v models.EntryView
		var flow string
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Cleaned, &flow, &v.Comment, &v.StartTime, &v.OwnerName); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		v.Flow = models.Flow(flow)
		v.StartTime = v.StartTime.UTC()
		entries = append(entries, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry overwrites the mutable columns of e. Owner and id are never
// written.
func (db *DB) UpdateEntry(ctx context.Context, e *models.Entry) error {
	query, args, err := db.sq.Update("entries").
		Set("cleaned", e.Cleaned).
		Set("flow", string(e.Flow)).
		Set("comment", e.Comment).
		Set("start_time", e.StartTime.UTC()).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	return expectOneRow(res)
}

func (db *DB) DeleteEntry(ctx context.Context, id int64) error {
	query, args, err := db.sq.Delete("entries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
