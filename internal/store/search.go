package store

import (
	"context"
	"strings"
)

// Hit is one search result.
type Hit struct {
	Source string  `json:"source"`
	Route  string  `json:"route"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
}

// Search returns entries matching every token of query, best match first,
// scored by BM25. An empty query or one without searchable tokens returns
// no hits.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	// FTS5 treats space-separated terms as AND; bm25() is lower for better matches
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.source, f.route, e.title, bm25(entries_fts) AS score
		FROM entries_fts f
		JOIN entries e ON e.source = f.source AND e.route = f.route
		WHERE entries_fts MATCH ?
		ORDER BY score
		LIMIT ?`, strings.Join(tokens, " "), limit)
	if err != nil {
		return nil, storeError("search failed", err, s.path)
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var h Hit
		var score float64
		if err := rows.Scan(&h.Source, &h.Route, &h.Title, &score); err != nil {
			return nil, storeError("failed to scan hit", err, s.path)
		}
		h.Score = -score
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
