package store

import (
	"context"
	"sync"
	"time"

	"showtime/api/log"
	"showtime/api/model"
	"showtime/api/tools"
)

// Snapshot is the full game state: every collection, keyed by name.
type Snapshot map[string][]model.Record

// Clone deep-copies the collection slices and shallow-copies each record.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for name, records := range s {
		cp := make([]model.Record, len(records))
		for i, r := range records {
			cp[i] = r.Clone()
		}
		out[name] = cp
	}
	return out
}

// RemoteSink is the durable store. ok=false on Load means no snapshot exists
// yet, which is not an error.
type RemoteSink interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot) error
}

// LocalSink is the best-effort fallback slot, the server-side counterpart of
// the clients' localStorage mirror.
type LocalSink interface {
	Load() (Snapshot, bool, error)
	Save(snap Snapshot) error
}

// SaveState is the observable sync status. Sink errors never roll back the
// in-memory state; they only show up here.
type SaveState struct {
	RemoteErr string    `json:"remote_err,omitempty"`
	LocalErr  string    `json:"local_err,omitempty"`
	LastSaved time.Time `json:"last_saved,omitempty"`
	Dirty     bool      `json:"dirty"`
}

// Event describes one store mutation, delivered synchronously to subscribers
// in mutation order.
type Event struct {
	Collection string `json:"collection"`
	Op         string `json:"op"` // add | update | delete | replace | load
	ID         string `json:"id,omitempty"`
}

// Store owns the canonical in-memory snapshot. It is the single writer;
// everything else reads copies and issues mutations through its methods.
// Mutations apply synchronously; the write-back to both sinks is debounced,
// asynchronous, whole-snapshot and last-write-wins.
type Store struct {
	remote RemoteSink
	local  LocalSink
	saver  *tools.Debouncer

	// collections the local sink must not receive (storage quota; the maps
	// collection carries image data URIs).
	localExclude map[string]bool

	mu          sync.RWMutex
	collections Snapshot
	loaded      bool
	state       SaveState

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func New(remote RemoteSink, local LocalSink, saveDebounce time.Duration) *Store {
	return &Store{
		remote:       remote,
		local:        local,
		saver:        tools.NewDebouncer(saveDebounce),
		localExclude: map[string]bool{model.ColMaps: true},
		collections:  Snapshot{},
		subs:         map[int]func(Event){},
	}
}

// Load resolves the startup chain exactly once: remote, else local fallback,
// else empty. It never returns an error to the caller; a dead remote only
// degrades the source of truth. On a remote hit the snapshot is mirrored to
// the local slot.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	snap, ok, err := s.remote.Load(ctx)
	if err != nil {
		log.Errorf("store: remote load failed, trying local cache: %v", err)
	}
	fromRemote := err == nil && ok
	if !fromRemote {
		var lerr error
		snap, ok, lerr = s.local.Load()
		if lerr != nil {
			log.Warnf("store: local cache load failed: %v", lerr)
			ok = false
		}
		if !ok {
			snap = Snapshot{}
		}
	}

	s.mu.Lock()
	s.collections = snap
	s.loaded = true
	s.mu.Unlock()

	if fromRemote {
		if err := s.local.Save(s.stripForLocal(snap.Clone())); err != nil {
			log.Warnf("store: local mirror after load failed: %v", err)
		}
	}
	s.notify(Event{Op: "load"})
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// GetCollection returns a copy of the collection. Never nil.
func (s *Store) GetCollection(name string) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.collections[name]
	out := make([]model.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// SnapshotCopy returns a deep copy of the whole store.
func (s *Store) SnapshotCopy() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections.Clone()
}

// SetCollection atomically replaces a collection's contents.
func (s *Store) SetCollection(name string, records []model.Record) error {
	for _, r := range records {
		if err := model.ValidateRecord(name, r); err != nil {
			return err
		}
	}
	cp := make([]model.Record, len(records))
	for i, r := range records {
		cp[i] = r.Clone()
	}
	s.mu.Lock()
	s.collections[name] = cp
	s.mu.Unlock()
	s.afterMutation(Event{Collection: name, Op: "replace"})
	return nil
}

// ReplaceAll swaps in a whole snapshot, the POST /api/game/save path.
func (s *Store) ReplaceAll(snap Snapshot) error {
	for name, records := range snap {
		for _, r := range records {
			if err := model.ValidateRecord(name, r); err != nil {
				return err
			}
		}
	}
	s.mu.Lock()
	s.collections = snap.Clone()
	s.mu.Unlock()
	s.afterMutation(Event{Op: "replace"})
	return nil
}

// AddItem appends. Duplicate ids are the caller's problem, matching the
// original contract.
func (s *Store) AddItem(name string, r model.Record) error {
	if err := model.ValidateRecord(name, r); err != nil {
		return err
	}
	s.mu.Lock()
	s.collections[name] = append(s.collections[name], r.Clone())
	s.mu.Unlock()
	s.afterMutation(Event{Collection: name, Op: "add", ID: r.ID()})
	return nil
}

// UpdateItem shallow-merges partial fields into the matching record. A
// missing id is a silent no-op.
func (s *Store) UpdateItem(name, id string, partial model.Record) error {
	s.mu.Lock()
	records := s.collections[name]
	idx := -1
	for i, r := range records {
		if r.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	merged := records[idx].Clone()
	for k, v := range partial {
		if k == "id" {
			continue
		}
		merged[k] = v
	}
	if err := model.ValidateRecord(name, merged); err != nil {
		s.mu.Unlock()
		return err
	}
	records[idx] = merged
	s.mu.Unlock()
	s.afterMutation(Event{Collection: name, Op: "update", ID: id})
	return nil
}

// DeleteItem removes the matching record. Missing id is a no-op.
func (s *Store) DeleteItem(name, id string) {
	s.mu.Lock()
	records := s.collections[name]
	idx := -1
	for i, r := range records {
		if r.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.collections[name] = append(records[:idx], records[idx+1:]...)
	s.mu.Unlock()
	s.afterMutation(Event{Collection: name, Op: "delete", ID: id})
}

// Subscribe registers a listener called synchronously after every mutation.
// The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) State() SaveState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SaveNow bypasses the debounce, the authoritative sync at the end of a fog
// stroke or drag.
func (s *Store) SaveNow() {
	s.saver.Do(s.saveAll)
	s.saver.Flush()
}

// Close releases the pending save timer without firing it.
func (s *Store) Close() {
	s.saver.Stop()
}

func (s *Store) afterMutation(ev Event) {
	s.mu.Lock()
	s.state.Dirty = true
	loaded := s.loaded
	s.mu.Unlock()
	s.notify(ev)
	// Auto-save is gated on the loaded flag; pre-load mutations stay
	// in-memory only until load resolves.
	if loaded {
		s.saver.Do(s.saveAll)
	}
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Store) stripForLocal(snap Snapshot) Snapshot {
	for name := range s.localExclude {
		delete(snap, name)
	}
	return snap
}

// saveAll pushes the current snapshot to both sinks. The sinks are
// independent: a failure in one never blocks the other, and neither failure
// touches the in-memory state.
func (s *Store) saveAll() {
	snap := s.SnapshotCopy()

	var remoteErr, localErr string
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.remote.Save(ctx, snap); err != nil {
		remoteErr = err.Error()
		log.Errorf("store: remote save failed: %v", err)
	}
	if err := s.local.Save(s.stripForLocal(snap.Clone())); err != nil {
		localErr = err.Error()
		log.Warnf("store: local cache save failed: %v", err)
	}

	s.mu.Lock()
	s.state = SaveState{
		RemoteErr: remoteErr,
		LocalErr:  localErr,
		Dirty:     remoteErr != "" || localErr != "",
	}
	if remoteErr == "" {
		s.state.LastSaved = time.Now()
	}
	s.mu.Unlock()
}
