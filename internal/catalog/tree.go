package catalog

import "sort"

// BuildDirTree assembles a nested directory tree from flat collections: all
// directory paths plus all table-like entries. Parents are created before
// children by sorting paths, so a child whose parent is missing from dirPaths
// is attached at the root only when it is itself top-level; tables whose
// parent directory is unknown are dropped rather than misplaced.
func BuildDirTree(dirPaths []string, tables []CatalogEntry) []*DirTreeNode {
	sorted := make([]string, len(dirPaths))
	copy(sorted, dirPaths)
	sort.Strings(sorted)

	var roots []*DirTreeNode
	byPath := make(map[string]*DirTreeNode, len(sorted))

	for _, p := range sorted {
		node := &DirTreeNode{
			Name: BaseName(p),
			Path: p,
			Kind: KindDirectory,
		}
		byPath[p] = node

		parent := ParentPath(p)
		if parent == "" {
			roots = append(roots, node)
		} else if pn, ok := byPath[parent]; ok {
			pn.Children = append(pn.Children, node)
		}
	}

	sortedTables := make([]CatalogEntry, len(tables))
	copy(sortedTables, tables)
	sort.Slice(sortedTables, func(i, j int) bool {
		return sortedTables[i].Path < sortedTables[j].Path
	})

	for _, t := range sortedTables {
		node := &DirTreeNode{
			Name:    t.Name,
			Path:    t.Path,
			Kind:    t.Kind,
			Version: t.Version,
		}
		if node.Name == "" {
			node.Name = BaseName(t.Path)
		}

		parent := ParentPath(t.Path)
		if parent == "" {
			roots = append(roots, node)
		} else if pn, ok := byPath[parent]; ok {
			pn.Children = append(pn.Children, node)
		}
	}

	return roots
}
