package domain

import "time"

// The helpers below return an updated copy of the menu and stamp LastUpdated.

func (m Menu) Touch(now time.Time) Menu {
	m.LastUpdated = Timestamp(now)
	return m
}

func (m Menu) AppendCategory(c Category, now time.Time) Menu {
	out := m.Clone()
	if c.Items == nil {
		c.Items = []MenuItem{}
	}
	out.Categories = append(out.Categories, c)
	return out.Touch(now)
}

func (m Menu) ReplaceCategory(id string, c Category, now time.Time) Menu {
	out := m.Clone()
	for i := range out.Categories {
		if out.Categories[i].ID == id {
			out.Categories[i] = c
		}
	}
	return out.Touch(now)
}

func (m Menu) RemoveCategory(id string, now time.Time) Menu {
	out := m.Clone()
	kept := out.Categories[:0]
	for _, c := range out.Categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	out.Categories = kept
	return out.Touch(now)
}

func (m Menu) ReorderCategories(ids []string, now time.Time) (Menu, ReorderReport) {
	out := m.Clone()
	reordered, report := Reorder(out.Categories, ids, categoryKey, setCategoryOrder)
	out.Categories = reordered
	return out.Touch(now), report
}

func (m Menu) AppendItem(categoryID string, item MenuItem, now time.Time) Menu {
	out := m.Clone()
	for i := range out.Categories {
		if out.Categories[i].ID == categoryID {
			out.Categories[i].Items = append(out.Categories[i].Items, item)
		}
	}
	return out.Touch(now)
}

// ReplaceItem swaps the item with id wherever it appears.
func (m Menu) ReplaceItem(id string, item MenuItem, now time.Time) Menu {
	out := m.Clone()
	for ci := range out.Categories {
		for ii := range out.Categories[ci].Items {
			if out.Categories[ci].Items[ii].ID == id {
				out.Categories[ci].Items[ii] = item
			}
		}
	}
	return out.Touch(now)
}

func (m Menu) RemoveItem(id string, now time.Time) Menu {
	out := m.Clone()
	for ci := range out.Categories {
		items := out.Categories[ci].Items[:0]
		for _, it := range out.Categories[ci].Items {
			if it.ID != id {
				items = append(items, it)
			}
		}
		out.Categories[ci].Items = items
	}
	return out.Touch(now)
}

// ReorderItems reorders the items of one category; other categories are untouched.
func (m Menu) ReorderItems(categoryID string, ids []string, now time.Time) (Menu, ReorderReport) {
	out := m.Clone()
	var report ReorderReport
	for ci := range out.Categories {
		if out.Categories[ci].ID != categoryID {
			continue
		}
		out.Categories[ci].Items, report = Reorder(out.Categories[ci].Items, ids, itemKey, setItemOrder)
	}
	return out.Touch(now), report
}
