package store

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	reeferr "github.com/mworkman/reef/internal/errors"
	"github.com/mworkman/reef/internal/storage"
	"github.com/mworkman/reef/internal/task"
)

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// MaxPageSize caps a single page.
const MaxPageSize = 100

// Page is one page of query results.
type Page struct {
	Tasks      []*task.Task `json:"tasks"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}

// Filter narrows a listing.
type Filter struct {
	// Status keeps only tasks with this status. Empty keeps all.
	Status task.Status
	// FileGlob keeps only tasks with at least one related file whose
	// path matches this doublestar pattern. Empty keeps all.
	FileGlob string
}

// Search finds tasks by ID or by substring. When isIDLookup is set the
// query must equal a task ID exactly; otherwise it matches
// case-insensitively against name and description. Results are ordered
// by creation time.
func (s *Store) Search(query string, isIDLookup bool, page, pageSize int) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if isIDLookup {
		var hits []*task.Task
		if t := s.find(query); t != nil {
			hits = []*task.Task{t}
		}
		return paginate(hits, page, pageSize), nil
	}

	// The hybrid backend answers substring queries from its index; any
	// index trouble falls back to scanning the snapshot.
	if searcher, ok := s.backend.(storage.Searcher); ok {
		if ids, err := searcher.SearchIDs(query); err == nil {
			index := byID(s.tasks)
			hits := make([]*task.Task, 0, len(ids))
			for _, id := range ids {
				if t, ok := index[id]; ok {
					hits = append(hits, t)
				}
			}
			return paginate(hits, page, pageSize), nil
		}
		s.logger.Warn("index search failed, scanning snapshot")
	}

	return paginate(scanMatch(s.tasks, query), page, pageSize), nil
}

// Query lists tasks matching a filter, ordered by creation time.
func (s *Store) Query(f Filter, page, pageSize int) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f.Status != "" && !task.IsValidStatus(f.Status) {
		return nil, reeferr.ErrValidation("status", "unknown status "+string(f.Status))
	}
	if f.FileGlob != "" && !doublestar.ValidatePattern(f.FileGlob) {
		return nil, reeferr.ErrValidation("fileGlob", "malformed glob pattern "+f.FileGlob)
	}

	var hits []*task.Task
	for _, t := range s.tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.FileGlob != "" && !matchesFileGlob(t, f.FileGlob) {
			continue
		}
		hits = append(hits, t)
	}
	return paginate(hits, page, pageSize), nil
}

func matchesFileGlob(t *task.Task, pattern string) bool {
	for _, f := range t.RelatedFiles {
		if ok, err := doublestar.Match(pattern, f.Path); err == nil && ok {
			return true
		}
	}
	return false
}

// scanMatch performs the in-memory substring search used by the files
// backend and by the index fallback.
func scanMatch(tasks []*task.Task, query string) []*task.Task {
	q := strings.ToLower(query)
	var hits []*task.Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			hits = append(hits, t)
		}
	}
	return hits
}

// paginate clones and pages a hit list. Pages are 1-based.
func paginate(hits []*task.Task, page, pageSize int) *Page {
	out := cloneAll(hits)
	sortByCreation(out)

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(out)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start >= total {
		return &Page{Tasks: []*task.Task{}, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return &Page{Tasks: out[start:end], Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}
