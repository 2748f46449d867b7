package domain

// ReorderReport lists what a reorder left out.
type ReorderReport struct {
	// Unknown ids were requested but match no entry (or repeat an earlier id).
	Unknown []string
	// Omitted ids belong to entries missing from the requested sequence; those entries are dropped.
	Omitted []string
}

// Clean reports whether the requested sequence matched the entries exactly.
func (r ReorderReport) Clean() bool {
	return len(r.Unknown) == 0 && len(r.Omitted) == 0
}

// Reorder arranges entries in the order of ids and rewrites every order value to its
// position, keeping the result dense from 0. Entries not named in ids are dropped.
func Reorder[T any](entries []T, ids []string, idOf func(T) string, setOrder func(*T, int)) ([]T, ReorderReport) {
	byID := make(map[string]T, len(entries))
	for _, e := range entries {
		byID[idOf(e)] = e
	}

	var report ReorderReport
	out := make([]T, 0, len(ids))
	used := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		entry, ok := byID[id]
		if _, dup := used[id]; !ok || dup {
			report.Unknown = append(report.Unknown, id)
			continue
		}
		used[id] = struct{}{}
		setOrder(&entry, len(out))
		out = append(out, entry)
	}
	for _, e := range entries {
		if _, ok := used[idOf(e)]; !ok {
			report.Omitted = append(report.Omitted, idOf(e))
		}
	}
	return out, report
}

func categoryKey(c Category) string       { return c.ID }
func setCategoryOrder(c *Category, i int) { c.Order = i }
func itemKey(i MenuItem) string           { return i.ID }
func setItemOrder(i *MenuItem, n int)     { i.Order = n }
