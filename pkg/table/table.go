// Package table collects the CSV files the browser session downloads and
// turns them into in-memory tables for the end-of-run report.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table is one exported results table: a header row plus data rows keyed by
// the player-name column.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Row returns the first row whose name column matches player, or nil.
func (t *Table) Row(player string) []string {
	col := t.nameColumn()
	for _, row := range t.Rows {
		if col < len(row) && row[col] == player {
			return row
		}
	}
	return nil
}

// nameColumn finds the player-name column, defaulting to the first one.
func (t *Table) nameColumn() int {
	for i, h := range t.Header {
		if strings.EqualFold(h, "name") {
			return i
		}
	}
	return 0
}

// ReadCSV parses one downloaded export file.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // export rows can carry a trailing totals line

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: empty file", filepath.Base(path))
	}

	return &Table{
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Header: records[0],
		Rows:   records[1:],
	}, nil
}

// Collect reads every CSV in the download directory, in name order. Files
// that are not CSV are ignored; the browser writes partial downloads with
// other extensions until they finish.
func Collect(dir string) ([]*Table, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	tables := make([]*Table, 0, len(paths))
	for _, p := range paths {
		t, err := ReadCSV(p)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// CleanDir removes leftover CSVs from a previous run so Collect only sees
// this run's exports.
func CleanDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return nil
}

// Render writes the table to w in a bordered terminal layout.
func Render(w io.Writer, t *Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(t.Name)

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	tw.SetStyle(table.StyleLight)
	tw.Render()
}
