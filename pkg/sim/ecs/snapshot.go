package ecs

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

type storeSnapshot struct {
	NextID EntityID       `json:"next_id"`
	Kinds  []kindSnapshot `json:"kinds"`
}

type kindSnapshot struct {
	Name     string          `json:"name"`
	Entities json.RawMessage `json:"entities"`
}

// Serialize returns a JSON snapshot of every entity in the store and the ID counter.
// Contact callbacks are not part of the snapshot.
func (s *Store) Serialize() ([]byte, error) {
	snapshot := storeSnapshot{
		NextID: s.nextID,
		Kinds:  make([]kindSnapshot, 0, len(s.columns)),
	}
	for _, col := range s.columns {
		data, err := col.marshal()
		if err != nil {
			return nil, err
		}
		snapshot.Kinds = append(snapshot.Kinds, kindSnapshot{Name: col.name(), Entities: data})
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, eris.Wrap(err, "failed to serialize store")
	}
	return data, nil
}

// Deserialize replaces the contents of the store with a snapshot created by Serialize. Every kind
// in the snapshot must be registered (see Register). On error the store is left empty, but the ID
// counter keeps its value so IDs handed out earlier are never reused.
func (s *Store) Deserialize(data []byte) error {
	s.assertMutable()

	s.Clear()
	if err := s.restore(data); err != nil {
		s.Clear()
		return err
	}
	return nil
}

func (s *Store) restore(data []byte) error {
	var snapshot storeSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return eris.Wrap(err, "failed to unmarshal store snapshot")
	}

	for _, kind := range snapshot.Kinds {
		if _, ok := s.byName[kind.Name]; !ok {
			return eris.Wrapf(ErrKindNotRegistered, "snapshot contains kind %s", kind.Name)
		}
	}

	for _, kind := range snapshot.Kinds {
		if err := s.columns[s.byName[kind.Name]].unmarshal(kind.Entities); err != nil {
			return err
		}
	}

	seen := make(map[EntityID]struct{}, s.Len())
	for _, col := range s.columns {
		for i := range col.len() {
			id, _ := col.value(i)
			if id >= snapshot.NextID {
				return eris.Errorf("snapshot entity %d is not below next id %d", id, snapshot.NextID)
			}
			if _, dup := seen[id]; dup {
				return eris.Errorf("snapshot contains entity %d more than once", id)
			}
			seen[id] = struct{}{}
		}
	}
	s.nextID = max(snapshot.NextID, s.nextID, 1)
	return nil
}
