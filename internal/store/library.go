package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/iroquiz/internal/dataset"
	"github.com/abhisek/iroquiz/internal/logger"
)

// ErrNotFound is returned for an unknown dataset name.
var ErrNotFound = errors.New("dataset not found in library")

// DatasetInfo describes one stored dataset.
type DatasetInfo struct {
	Name       string
	Source     string
	Records    int
	ImportedAt time.Time
}

// SaveDataset stores records under name, replacing any dataset already
// stored with that name.
func (s *Store) SaveDataset(ctx context.Context, name, source string, records []dataset.Record) (DatasetInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DatasetInfo{}, errors.New("dataset name is empty")
	}

	info := DatasetInfo{
		Name:       name,
		Source:     source,
		Records:    len(records),
		ImportedAt: time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DatasetInfo{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q, args := builder().Delete("datasets").Where(entsql.EQ("name", name)).Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return DatasetInfo{}, fmt.Errorf("replace dataset %s: %w", name, err)
	}
	q, args = builder().Delete("dataset_records").Where(entsql.EQ("dataset_name", name)).Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return DatasetInfo{}, fmt.Errorf("replace dataset %s: %w", name, err)
	}

	q, args = builder().Insert("datasets").
		Columns("name", "source", "record_count", "imported_at").
		Values(info.Name, info.Source, info.Records, info.ImportedAt.Unix()).
		Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return DatasetInfo{}, fmt.Errorf("insert dataset %s: %w", name, err)
	}

	for i, rec := range records {
		body, err := json.Marshal(rec)
		if err != nil {
			return DatasetInfo{}, fmt.Errorf("encode record %d: %w", i, err)
		}
		q, args := builder().Insert("dataset_records").
			Columns("dataset_name", "ordinal", "body").
			Values(name, i, string(body)).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return DatasetInfo{}, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return DatasetInfo{}, fmt.Errorf("commit: %w", err)
	}

	logger.L().Info("dataset imported", "name", name, "source", source, "records", len(records))
	return info, nil
}

// ListDatasets returns the stored datasets ordered by name.
func (s *Store) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	q, args := builder().
		Select("name", "source", "record_count", "imported_at").
		From(entsql.Table("datasets")).
		OrderBy("name").
		Query()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var (
			info DatasetInfo
			ts   int64
		)
		if err := rows.Scan(&info.Name, &info.Source, &info.Records, &ts); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		info.ImportedAt = time.Unix(ts, 0).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Dataset returns the info for one stored dataset.
func (s *Store) Dataset(ctx context.Context, name string) (DatasetInfo, error) {
	q, args := builder().
		Select("name", "source", "record_count", "imported_at").
		From(entsql.Table("datasets")).
		Where(entsql.EQ("name", name)).
		Query()

	var (
		info DatasetInfo
		ts   int64
	)
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&info.Name, &info.Source, &info.Records, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return DatasetInfo{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return DatasetInfo{}, fmt.Errorf("get dataset %s: %w", name, err)
	}
	info.ImportedAt = time.Unix(ts, 0).UTC()
	return info, nil
}

// RemoveDataset deletes a stored dataset and its records.
func (s *Store) RemoveDataset(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q, args := builder().Delete("dataset_records").Where(entsql.EQ("dataset_name", name)).Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("remove records of %s: %w", name, err)
	}

	q, args = builder().Delete("datasets").Where(entsql.EQ("name", name)).Query()
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("remove dataset %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.L().Info("dataset removed", "name", name)
	return nil
}

// Records returns the raw records of a stored dataset in import order.
func (s *Store) Records(ctx context.Context, name string) ([]dataset.Record, error) {
	if _, err := s.Dataset(ctx, name); err != nil {
		return nil, err
	}

	q, args := builder().
		Select("ordinal", "body").
		From(entsql.Table("dataset_records")).
		Where(entsql.EQ("dataset_name", name)).
		OrderBy("ordinal").
		Query()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query records of %s: %w", name, err)
	}
	defer rows.Close()

	records := []dataset.Record{}
	for rows.Next() {
		var (
			ordinal int
			body    string
		)
		if err := rows.Scan(&ordinal, &body); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec dataset.Record
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("%w: record %d of %s: %v", dataset.ErrMalformed, ordinal, name, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Fetch implements dataset.Fetcher for "db:<name>" sources.
func (s *Store) Fetch(ctx context.Context, ref string) ([]dataset.Record, error) {
	return s.Records(ctx, strings.TrimSpace(ref))
}

var _ dataset.Fetcher = (*Store)(nil)
