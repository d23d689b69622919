package access

import "sort"

// DiffIDs returns the ids present in desired but not in current (toAdd)
// and those present in current but not in desired (toRemove). Duplicates
// and zero ids are dropped, results are sorted ascending.
func DiffIDs(current, desired []uint) (toAdd, toRemove []uint) {
	have := toSet(current)
	want := toSet(desired)

	for id := range want {
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range have {
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	return toAdd, toRemove
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}
