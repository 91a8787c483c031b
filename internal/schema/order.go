package schema

import (
	"log/slog"
	"strings"
)

// Relation is a foreign key edge from FromTable to ToTable.
type Relation struct {
	FromTable string
	ToTable   string
}

// BuildTables turns table names and foreign key edges into dependency nodes.
// Self references and edges to unknown tables are ignored; names compare
// case-insensitively so Oracle's upper-case catalog matches.
func BuildTables(names []string, relations []Relation) []*Table {
	byKey := make(map[string]*Table, len(names))
	tables := make([]*Table, 0, len(names))
	for _, n := range names {
		t := &Table{Name: n, Dependencies: []string{}}
		byKey[strings.ToUpper(n)] = t
		tables = append(tables, t)
	}

	for _, r := range relations {
		from, ok := byKey[strings.ToUpper(r.FromTable)]
		if !ok {
			continue
		}
		to, ok := byKey[strings.ToUpper(r.ToTable)]
		if !ok || to == from {
			continue
		}
		dup := false
		for _, d := range from.Dependencies {
			if d == to.Name {
				dup = true
				break
			}
		}
		if !dup {
			from.Dependencies = append(from.Dependencies, to.Name)
		}
	}
	return tables
}

// SortTablesByFKCount sorts tables by dependency order.
// It handles circular dependencies by using a scoring system.
func SortTablesByFKCount(tables []*Table) []*Table {
	var sorted []*Table
	processed := make(map[string]bool)

	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	for len(sorted) < len(tables) {
		added := false

		// Pass 1: tables whose dependencies are all placed.
		for _, t := range tables {
			if processed[t.Name] {
				continue
			}

			ready := true
			for _, dep := range t.Dependencies {
				if !processed[dep] {
					ready = false
					break
				}
			}

			if ready {
				sorted = append(sorted, t)
				processed[t.Name] = true
				added = true
			}
		}

		if added {
			continue
		}

		// Pass 2: a cycle. Place the best scored table to break it.
		var best *Table
		bestScore := -999999

		for _, t := range tables {
			if processed[t.Name] {
				continue
			}

			// Fewer unplaced dependencies score higher; being part of a
			// direct cycle earns a bonus.
			score := 0
			for _, dep := range t.Dependencies {
				if !processed[dep] {
					score -= 100
				}
			}
			if inCycle(t, byName, processed) {
				score += 500
			}

			if score > bestScore || (score == bestScore && (best == nil || t.Name > best.Name)) {
				bestScore = score
				best = t
			}
		}

		if best == nil {
			slog.Warn("dependency sort stalled", "remaining", len(tables)-len(sorted))
			break
		}
		sorted = append(sorted, best)
		processed[best.Name] = true
		slog.Debug("breaking circular dependency", "table", best.Name, "score", bestScore)
	}

	return sorted
}

func inCycle(t *Table, byName map[string]*Table, processed map[string]bool) bool {
	for _, dep := range t.Dependencies {
		if processed[dep] {
			continue
		}
		cand, ok := byName[dep]
		if !ok {
			continue
		}
		for _, back := range cand.Dependencies {
			if back == t.Name {
				return true
			}
		}
	}
	return false
}

// DependencyOrder returns table names so that referenced tables come first.
// Reverse it to delete or truncate safely.
func DependencyOrder(names []string, relations []Relation) []string {
	sorted := SortTablesByFKCount(BuildTables(names, relations))
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = t.Name
	}
	return out
}

// Reverse returns a reversed copy of names.
func Reverse(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
