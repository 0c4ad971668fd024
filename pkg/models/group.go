package models

// DuplicateGroup is an ordered set of at least two file paths sharing an
// identical content hash. Paths appear in traversal order; the first path
// is the keeper and is never modified by any resolution policy.
type DuplicateGroup struct {
	Hash  string   `json:"hash" yaml:"hash"`
	Size  int64    `json:"size" yaml:"size"` // size of a single member in bytes
	Paths []string `json:"paths" yaml:"paths"`
}

// Keeper returns the retained member of the group.
func (g *DuplicateGroup) Keeper() string {
	if len(g.Paths) == 0 {
		return ""
	}
	return g.Paths[0]
}

// Duplicates returns the members that resolution policies act upon,
// i.e. every path except the keeper.
func (g *DuplicateGroup) Duplicates() []string {
	if len(g.Paths) < 2 {
		return nil
	}
	return g.Paths[1:]
}

// Count returns the number of members in the group.
func (g *DuplicateGroup) Count() int {
	return len(g.Paths)
}

// WastedBytes returns the bytes that could be reclaimed by removing
// every member except the keeper.
func (g *DuplicateGroup) WastedBytes() int64 {
	if len(g.Paths) < 2 {
		return 0
	}
	return int64(len(g.Paths)-1) * g.Size
}
