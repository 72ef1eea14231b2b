/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errFakeUnsupported = errors.New("not supported by fake")

// assignValues copies src into the scan destinations; each value must be
// assignable to the pointed-to type. A nil value zeroes the destination.
func assignValues(dest, src []any) error {
	if len(dest) != len(src) {
		return fmt.Errorf("%w: scan %d columns into %d destinations", errFakeUnsupported, len(src), len(dest))
	}

	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()

		if src[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}

		v := reflect.ValueOf(src[i])
		if !v.Type().AssignableTo(target.Type()) {
			if !v.Type().ConvertibleTo(target.Type()) {
				return fmt.Errorf("%w: column %d %T into %s", errFakeUnsupported, i, src[i], target.Type())
			}

			v = v.Convert(target.Type())
		}

		target.Set(v)
	}

	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}

	return assignValues(dest, r.values)
}

type fakeRows struct {
	data   [][]any
	idx    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.idx >= len(r.data) {
		r.closed = true
		return false
	}

	r.idx++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assignValues(dest, r.data[r.idx-1])
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.idx-1], nil
}

type fakeCall struct {
	sql  string
	args []any
}

// fakeExecutor records every statement and replays canned results.
type fakeExecutor struct {
	calls []fakeCall

	execTag pgconn.CommandTag
	execErr error

	row      fakeRow
	rows     [][]any
	queryErr error

	batch   *fakeBatchResults
	batches []*pgx.Batch

	copyTable   pgx.Identifier
	copyColumns []string
	copyRows    [][]any
	copyErr     error
}

// fakeBatchResults serves read batches: QueryRow pops rows in order and
// Query hands out queryRows.
type fakeBatchResults struct {
	rows       []pgx.Row
	queryRows  pgx.Rows
	closeCalls int
}

func (*fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errFakeUnsupported
}

func (b *fakeBatchResults) Query() (pgx.Rows, error) {
	if b.queryRows == nil {
		return nil, errFakeUnsupported
	}

	return b.queryRows, nil
}

func (b *fakeBatchResults) QueryRow() pgx.Row {
	if len(b.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}

	row := b.rows[0]
	b.rows = b.rows[1:]

	return row
}

func (b *fakeBatchResults) Close() error {
	b.closeCalls++
	return nil
}

func (f *fakeExecutor) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, fakeCall{sql: sql, args: args})
	return f.execTag, f.execErr
}

func (f *fakeExecutor) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, fakeCall{sql: sql, args: args})

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeRows{data: f.rows}, nil
}

func (f *fakeExecutor) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, fakeCall{sql: sql, args: args})
	return f.row
}

func (f *fakeExecutor) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batches = append(f.batches, b)
	return f.batch
}

func (f *fakeExecutor) CopyFrom(
	ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource,
) (int64, error) {
	if f.copyErr != nil {
		return 0, f.copyErr
	}

	f.copyTable, f.copyColumns = table, columns

	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return 0, err
		}

		f.copyRows = append(f.copyRows, values)
	}

	return int64(len(f.copyRows)), src.Err()
}
