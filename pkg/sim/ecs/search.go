package ecs

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rotisserie/eris"
)

// SearchParam contains parameters for a debug search over the store.
// The where clause uses expr lang, see https://expr-lang.org/docs/getting-started. Each entity
// is exposed as a map with the keys "_id", "_kind", "transform" and the kind's name holding the
// payload, e.g. `_kind == "asteroid" && asteroid.Size > 2`.
type SearchParam struct {
	Kinds []string // Kind names to search, all kinds if empty
	Where string   // Optional expr language string to filter the results
}

func (p *SearchParam) compile() (*vm.Program, error) {
	if len(p.Where) == 0 {
		return nil, nil //nolint:nilnil // no filter
	}
	filter, err := expr.Compile(p.Where, expr.AsBool())
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse where clause")
	}
	return filter, nil
}

// Search returns every entity of the requested kinds that matches the where clause.
func Search(s *Store, params SearchParam) ([]map[string]any, error) {
	filter, err := params.compile()
	if err != nil {
		return nil, eris.Wrap(err, "invalid search params")
	}

	cols, err := s.columnsByName(params.Kinds)
	if err != nil {
		return nil, err
	}

	release := s.Pin()
	defer release()

	results := make([]map[string]any, 0)
	for _, col := range cols {
		for i := range col.len() {
			entity := toMap(col, i)

			if filter == nil {
				results = append(results, entity)
				continue
			}

			output, err := expr.Run(filter, entity)
			if err != nil {
				return nil, eris.Wrap(err, "failed to run filter expression")
			}
			// expr can't type check field accesses at compile time because the environment only
			// exists while iterating.
			match, ok := output.(bool)
			if !ok {
				return nil, eris.New("invalid where clause")
			}
			if match {
				results = append(results, entity)
			}
		}
	}
	return results, nil
}

// columnsByName resolves kind names to columns in kind order. An empty list selects all columns.
func (s *Store) columnsByName(names []string) ([]abstractColumn, error) {
	if len(names) == 0 {
		return s.columns, nil
	}

	wanted := make(map[int]struct{}, len(names))
	for _, name := range names {
		idx, ok := s.byName[name]
		if !ok {
			return nil, eris.Wrapf(ErrKindNotRegistered, "kind %s", name)
		}
		wanted[idx] = struct{}{}
	}

	cols := make([]abstractColumn, 0, len(wanted))
	for idx, col := range s.columns {
		if _, ok := wanted[idx]; ok {
			cols = append(cols, col)
		}
	}
	return cols, nil
}

// toMap converts the i-th record of col to a map for the expr environment.
func toMap(col abstractColumn, i int) map[string]any {
	row := col.row(i)
	_, payload := col.value(i)
	return map[string]any{
		// expr compares numbers of mixed types fine, but not named types like EntityID.
		"_id":       uint64(row.ID),
		"_kind":     col.name(),
		"transform": *row.Transform,
		col.name():  payload,
	}
}
