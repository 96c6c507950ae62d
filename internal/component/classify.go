package component

// Classification holds the five condition sets derived from one run. The raw
// sets may overlap; ConditionOf resolves a single display condition.
type Classification struct {
	RepeatedInDocument Set
	RepeatedInSheet    Set
	OnlyInDocument     Set
	OnlyInSheet        Set
	Normal             Set
}

// Classify compares the document counter against the spreadsheet counter.
//
// The four mismatch and duplication sets are re-filtered through prefixes so
// tokens that do not look like identifiers are dropped. Normal is every
// identifier seen in either source that satisfied none of the four raw
// predicates, which leaves only identifiers present once on both sides.
func Classify(doc, sheet Counter, prefixes *PrefixSet) Classification {
	repeatedDoc := make(Set)
	for id, n := range doc {
		if n > 1 {
			repeatedDoc[id] = struct{}{}
		}
	}

	repeatedSheet := make(Set)
	onlySheet := make(Set)
	for id, n := range sheet {
		if n > 1 {
			repeatedSheet[id] = struct{}{}
		}
		if n > 0 && !doc.Has(id) {
			onlySheet[id] = struct{}{}
		}
	}

	onlyDoc := make(Set)
	for id, n := range doc {
		if n > 0 && !sheet.Has(id) {
			onlyDoc[id] = struct{}{}
		}
	}

	normal := make(Set)
	flagged := func(id string) bool {
		return repeatedDoc.Has(id) || repeatedSheet.Has(id) || onlyDoc.Has(id) || onlySheet.Has(id)
	}
	for _, counter := range []Counter{doc, sheet} {
		for id, n := range counter {
			if n > 0 && !flagged(id) {
				normal[id] = struct{}{}
			}
		}
	}

	valid := prefixes.IsValidIdentifier
	return Classification{
		RepeatedInDocument: repeatedDoc.Filter(valid),
		RepeatedInSheet:    repeatedSheet.Filter(valid),
		OnlyInDocument:     onlyDoc.Filter(valid),
		OnlyInSheet:        onlySheet.Filter(valid),
		Normal:             normal,
	}
}

// Set returns the set backing a condition.
func (c Classification) Set(cond Condition) Set {
	switch cond {
	case RepeatedInDocument:
		return c.RepeatedInDocument
	case RepeatedInSheet:
		return c.RepeatedInSheet
	case OnlyInDocument:
		return c.OnlyInDocument
	case OnlyInSheet:
		return c.OnlyInSheet
	case Normal:
		return c.Normal
	}
	return nil
}

// ConditionOf resolves the display condition for id following Priority.
// The second result is false when id belongs to no set.
func (c Classification) ConditionOf(id string) (Condition, bool) {
	for _, cond := range Priority {
		if c.Set(cond).Has(id) {
			return cond, true
		}
	}
	return Normal, false
}

// Counts returns the size of every condition set.
func (c Classification) Counts() map[Condition]int {
	counts := make(map[Condition]int, len(ReportOrder))
	for _, cond := range ReportOrder {
		counts[cond] = c.Set(cond).Len()
	}
	return counts
}

// Resolve assigns every classified identifier to exactly one condition using
// Priority and returns the identifiers per condition in ascending order.
func (c Classification) Resolve() map[Condition][]string {
	all := make(Set)
	for _, cond := range ReportOrder {
		for id := range c.Set(cond) {
			all[id] = struct{}{}
		}
	}

	resolved := make(map[Condition][]string, len(ReportOrder))
	for _, id := range all.Sorted() {
		cond, _ := c.ConditionOf(id)
		resolved[cond] = append(resolved[cond], id)
	}
	return resolved
}
