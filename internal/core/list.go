package core

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// NotFoundMarker is how a query without matches is rendered.
const NotFoundMarker = "File Not Found"

// SearchMatch holds the absolute paths matched by one query fragment.
type SearchMatch struct {
	Query string
	Paths []string
}

// Found reports whether the query matched anything.
func (s SearchMatch) Found() bool {
	return len(s.Paths) > 0
}

// SearchResult holds one match per distinct query, in query order.
type SearchResult []SearchMatch

// Paths returns the matches for query and whether query was searched.
func (r SearchResult) Paths(query string) ([]string, bool) {
	for _, m := range r {
		if m.Query == query {
			return m.Paths, true
		}
	}
	return nil, false
}

func (r SearchResult) String() string {
	var b strings.Builder
	for _, m := range r {
		if m.Found() {
			fmt.Fprintf(&b, "%s: %s\n", m.Query, strings.Join(m.Paths, ", "))
		} else {
			fmt.Fprintf(&b, "%s: %s\n", m.Query, NotFoundMarker)
		}
	}
	return b.String()
}

// List returns the sorted top-level entry names of the area. Key files are
// hidden in the transient area.
func (m *Manager) List(area Area) ([]string, error) {
	if err := m.checkOpen(OpList, ""); err != nil {
		return nil, err
	}
	entries, err := m.root(area).ReadDir(".")
	if err != nil {
		return nil, newError(KindIO, OpList, "", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if area == Transient && strings.HasSuffix(e.Name(), KeySuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// ListBoth lists both areas.
func (m *Manager) ListBoth() (persistent, transient []string, err error) {
	if persistent, err = m.List(Persistent); err != nil {
		return nil, nil, err
	}
	if transient, err = m.List(Transient); err != nil {
		return nil, nil, err
	}
	return persistent, transient, nil
}

// Summary renders both listings as two lines.
func (m *Manager) Summary() (string, error) {
	persistent, transient, err := m.ListBoth()
	if err != nil {
		return "", err
	}
	return summaryLine("Data Storage", persistent) + "\n" + summaryLine("Temp Storage", transient), nil
}

func summaryLine(label string, names []string) string {
	if len(names) == 0 {
		return fmt.Sprintf("%s (0): No Files Found", label)
	}
	return fmt.Sprintf("%s (%d): %s", label, len(names), strings.Join(names, ", "))
}

// Search matches each query case-insensitively as a substring of file
// names, either at the top level of the area or in its whole subtree.
// Matches are absolute paths in lexical order. Key files never match.
func (m *Manager) Search(area Area, recursive bool, queries ...string) (SearchResult, error) {
	if err := m.checkOpen(OpSearch, ""); err != nil {
		return nil, err
	}
	root := m.root(area)

	result := make(SearchResult, 0, len(queries))
	index := make(map[string]int, len(queries))
	for _, q := range queries {
		if _, ok := index[q]; ok {
			continue
		}
		index[q] = len(result)
		result = append(result, SearchMatch{Query: q})
	}

	match := func(rel string) {
		base := path.Base(rel)
		if strings.HasSuffix(base, KeySuffix) {
			return
		}
		lower := strings.ToLower(base)
		for i := range result {
			if strings.Contains(lower, strings.ToLower(result[i].Query)) {
				result[i].Paths = append(result[i].Paths, root.Abs(rel))
			}
		}
	}

	if !recursive {
		entries, err := root.ReadDir(".")
		if err != nil {
			return nil, newError(KindIO, OpSearch, "", err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				match(e.Name())
			}
		}
		return result, nil
	}

	err := root.Walk(".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			match(p)
		}
		return nil
	})
	if err != nil {
		return nil, newError(KindIO, OpSearch, "", err)
	}
	return result, nil
}
