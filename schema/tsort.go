package schema

// topologicalSort orders items so that every item comes after the items it
// depends on, using depth-first search with three-color marking. Dependencies
// on keys outside items are ignored. It returns false on a cycle.
func topologicalSort[T any, K comparable](items []T, dependencies map[K][]K, key func(T) K) ([]T, bool) {
	sorted := make([]T, 0, len(items))
	visited := make(map[K]bool)
	visiting := make(map[K]bool)
	byKey := make(map[K]T, len(items))
	for _, item := range items {
		byKey[key(item)] = item
	}

	var visit func(K) bool
	visit = func(k K) bool {
		if visiting[k] {
			return false
		}
		if visited[k] {
			return true
		}
		visiting[k] = true
		for _, dep := range dependencies[k] {
			if _, ok := byKey[dep]; ok && !visit(dep) {
				return false
			}
		}
		visiting[k] = false
		visited[k] = true
		sorted = append(sorted, byKey[k])
		return true
	}

	for _, item := range items {
		if !visit(key(item)) {
			return nil, false
		}
	}
	return sorted, true
}

// TablesInDependencyOrder returns the defined tables of a schema with every
// table after the tables its foreign keys reference, the order in which
// they could be created. Self references are allowed. On a reference cycle
// it returns the tables in definition order and false.
func (c *Catalog) TablesInDependencyOrder(id SchemaID) ([]*Table, bool) {
	s := c.Schema(id)
	if s == nil {
		return nil, true
	}
	var tables []*Table
	dependencies := map[TableID][]TableID{}
	for _, tid := range s.Tables {
		table := c.Table(tid)
		if table.IsStub {
			continue
		}
		tables = append(tables, table)
		for _, fkID := range table.ForeignKeys {
			if target := c.ForeignKey(fkID).ReferencedTable; target.Valid() && target != tid {
				dependencies[tid] = append(dependencies[tid], target)
			}
		}
	}

	sorted, ok := topologicalSort(tables, dependencies, func(t *Table) TableID { return t.ID })
	if !ok {
		return tables, false
	}
	return sorted, true
}
