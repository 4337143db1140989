package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/Aman-CERP/contentgraph/internal/content"
	"github.com/Aman-CERP/contentgraph/internal/errors"
	"github.com/Aman-CERP/contentgraph/internal/graph"
	"github.com/Aman-CERP/contentgraph/internal/source"
)

// Record is one exported entry.
type Record struct {
	Source      string            `json:"source"`
	Route       string            `json:"route"`
	ModuleKey   string            `json:"moduleKey"`
	OrderKey    string            `json:"order,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	SourcePath  string            `json:"sourcePath,omitempty"`
	Previous    string            `json:"previous,omitempty"`
	Next        string            `json:"next,omitempty"`
	Headings    []content.Heading `json:"headings"`
	FrontMatter map[string]any    `json:"frontMatter,omitempty"`
}

// TypeRow is one exported type signature.
type TypeRow struct {
	Route       string           `json:"route"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Kind        string           `json:"kind"`
	Description string           `json:"description,omitempty"`
	SourcePath  string           `json:"sourcePath,omitempty"`
	Props       []*source.Prop   `json:"props,omitempty"`
	UnionProps  [][]*source.Prop `json:"unionProps,omitempty"`
}

// ExampleRow is one exported example.
type ExampleRow struct {
	Route      string `json:"route"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Pathname   string `json:"pathname"`
	SourcePath string `json:"sourcePath,omitempty"`
	SourceText string `json:"sourceText,omitempty"`
}

type propsColumn struct {
	Props      []*source.Prop   `json:"props,omitempty"`
	UnionProps [][]*source.Prop `json:"unionProps,omitempty"`
}

// WriteIndex replaces the export of sourceName with entries, in order, in
// one transaction.
func (s *Store) WriteIndex(ctx context.Context, sourceName string, entries []*graph.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("failed to begin transaction", err, s.path)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"entries", "types", "examples", "entries_fts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE source = ?", sourceName); err != nil {
			return storeError("failed to clear "+table, err, s.path)
		}
	}

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (source, position, route, module_key, order_key, title,
			description, source_path, previous, next, headings, front_matter)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storeError("failed to prepare entry statement", err, s.path)
	}
	defer entryStmt.Close()

	typeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO types (source, route, position, name, slug, kind, description, source_path, props)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storeError("failed to prepare type statement", err, s.path)
	}
	defer typeStmt.Close()

	exampleStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO examples (source, route, position, name, slug, pathname, source_path, source_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storeError("failed to prepare example statement", err, s.path)
	}
	defer exampleStmt.Close()

	ftsStmt, err := tx.PrepareContext(ctx, `INSERT INTO entries_fts (source, route, content) VALUES (?, ?, ?)`)
	if err != nil {
		return storeError("failed to prepare search statement", err, s.path)
	}
	defer ftsStmt.Close()

	for i, en := range entries {
		headings, err := json.Marshal(nonNil(en.Headings))
		if err != nil {
			return errors.InternalError("failed to encode headings", err).WithDetail("route", en.Pathname)
		}
		frontMatter, err := json.Marshal(nonNilMap(en.FrontMatter))
		if err != nil {
			return errors.InternalError("failed to encode front matter", err).WithDetail("route", en.Pathname)
		}
		if _, err := entryStmt.ExecContext(ctx, sourceName, i, en.Pathname, en.ModuleKey, en.OrderKey,
			en.Title, en.Description, en.SourcePath, siblingRoute(en.Previous), siblingRoute(en.Next),
			string(headings), string(frontMatter)); err != nil {
			return storeError("failed to write entry "+en.Pathname, err, s.path)
		}

		for j, t := range en.Types {
			props, err := json.Marshal(propsColumn{Props: t.Props, UnionProps: t.UnionProps})
			if err != nil {
				return errors.InternalError("failed to encode props", err).WithDetail("type", t.Name)
			}
			if _, err := typeStmt.ExecContext(ctx, sourceName, en.Pathname, j, t.Name, t.Slug,
				string(t.Kind), t.Description, t.SourcePath, string(props)); err != nil {
				return storeError("failed to write type "+t.Name, err, s.path)
			}
		}

		for j, ex := range en.Examples {
			if _, err := exampleStmt.ExecContext(ctx, sourceName, en.Pathname, j, ex.Name, ex.Slug,
				ex.Pathname, ex.SourcePath, ex.SourceText); err != nil {
				return storeError("failed to write example "+ex.Name, err, s.path)
			}
		}

		if _, err := ftsStmt.ExecContext(ctx, sourceName, en.Pathname, searchText(en)); err != nil {
			return storeError("failed to index entry "+en.Pathname, err, s.path)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("failed to commit export", err, s.path)
	}
	s.logger.Debug("index exported", slog.String("source", sourceName), slog.Int("entries", len(entries)))
	return nil
}

// searchText is the pre-tokenized text indexed for an entry.
func searchText(en *graph.Entry) string {
	parts := []string{en.Title, en.Description}
	for _, h := range en.Headings {
		parts = append(parts, h.Text)
	}
	for _, t := range en.Types {
		parts = append(parts, t.Name, t.Description)
	}
	for _, ex := range en.Examples {
		parts = append(parts, ex.Name)
	}
	return strings.Join(Tokenize(strings.Join(parts, " ")), " ")
}

func siblingRoute(en *graph.Entry) any {
	if en == nil {
		return nil
	}
	return en.Pathname
}

func nonNil(h []content.Heading) []content.Heading {
	if h == nil {
		return []content.Heading{}
	}
	return h
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// Sources returns the names of all exported sources.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT source FROM entries ORDER BY source`)
	if err != nil {
		return nil, storeError("failed to list sources", err, s.path)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeError("failed to scan source", err, s.path)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Entries reads the entries of sourceName back in graph order.
func (s *Store) Entries(ctx context.Context, sourceName string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT route, module_key, order_key, title, description, source_path,
			previous, next, headings, front_matter
		FROM entries WHERE source = ? ORDER BY position`, sourceName)
	if err != nil {
		return nil, storeError("failed to read entries", err, s.path)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r := Record{Source: sourceName}
		var prev, next sql.NullString
		var headings, frontMatter string
		if err := rows.Scan(&r.Route, &r.ModuleKey, &r.OrderKey, &r.Title, &r.Description,
			&r.SourcePath, &prev, &next, &headings, &frontMatter); err != nil {
			return nil, storeError("failed to scan entry", err, s.path)
		}
		r.Previous, r.Next = prev.String, next.String
		if err := json.Unmarshal([]byte(headings), &r.Headings); err != nil {
			return nil, errors.New(errors.ErrCodeParseFailed, "stored headings are corrupt", err).WithDetail("route", r.Route)
		}
		if err := json.Unmarshal([]byte(frontMatter), &r.FrontMatter); err != nil {
			return nil, errors.New(errors.ErrCodeParseFailed, "stored front matter is corrupt", err).WithDetail("route", r.Route)
		}
		if len(r.FrontMatter) == 0 {
			r.FrontMatter = nil
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Types reads the type signatures exported for route.
func (s *Store) Types(ctx context.Context, sourceName, route string) ([]TypeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, slug, kind, description, source_path, props
		FROM types WHERE source = ? AND route = ? ORDER BY position`, sourceName, route)
	if err != nil {
		return nil, storeError("failed to read types", err, s.path)
	}
	defer rows.Close()

	var out []TypeRow
	for rows.Next() {
		t := TypeRow{Route: route}
		var props string
		if err := rows.Scan(&t.Name, &t.Slug, &t.Kind, &t.Description, &t.SourcePath, &props); err != nil {
			return nil, storeError("failed to scan type", err, s.path)
		}
		var col propsColumn
		if err := json.Unmarshal([]byte(props), &col); err != nil {
			return nil, errors.New(errors.ErrCodeParseFailed, "stored props are corrupt", err).WithDetail("type", t.Name)
		}
		t.Props, t.UnionProps = col.Props, col.UnionProps
		out = append(out, t)
	}
	return out, rows.Err()
}

// Examples reads the examples exported for route.
func (s *Store) Examples(ctx context.Context, sourceName, route string) ([]ExampleRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, slug, pathname, source_path, source_text
		FROM examples WHERE source = ? AND route = ? ORDER BY position`, sourceName, route)
	if err != nil {
		return nil, storeError("failed to read examples", err, s.path)
	}
	defer rows.Close()

	var out []ExampleRow
	for rows.Next() {
		ex := ExampleRow{Route: route}
		if err := rows.Scan(&ex.Name, &ex.Slug, &ex.Pathname, &ex.SourcePath, &ex.SourceText); err != nil {
			return nil, storeError("failed to scan example", err, s.path)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}
