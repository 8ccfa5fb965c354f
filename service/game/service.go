// Package game is the session service: it owns the live fog engines and box
// manipulators per map, applies the role gate to every operation, persists
// results through the collection store and fans events out to connected
// viewers.
package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"showtime/api/log"
	"showtime/api/model"
	"showtime/api/security"
	"showtime/api/service/dice"
	"showtime/api/service/fog"
	"showtime/api/service/spatial"
	"showtime/api/store"
)

var (
	ErrNotAllowed  = errors.New("operation not allowed for role")
	ErrMapNotFound = errors.New("map not found")
	ErrBoxNotFound = errors.New("box not found")
)

// Broadcaster pushes an event to every connected viewer. The ws hub
// implements it; tests drop in a recorder.
type Broadcaster interface {
	Broadcast(msgType string, data interface{})
}

// FogEvent is one revealed circle on a map, relayed live while the dungeon
// master paints.
type FogEvent struct {
	MapID string             `json:"map_id"`
	Area  model.RevealedArea `json:"area"`
}

// BoxEvent carries a box create/update/delete.
type BoxEvent struct {
	MapID string     `json:"map_id"`
	Op    string     `json:"op"`
	Box   *model.Box `json:"box,omitempty"`
	BoxID string     `json:"box_id,omitempty"`
}

type Service struct {
	store *store.Store

	mu       sync.Mutex
	engines  map[string]*fog.Engine
	manips   map[string]*spatial.Manipulator
	b        Broadcaster
	roller   *dice.Roller
	diceSink func(model.DiceLog)

	DefaultBrush float64
}

func NewService(st *store.Store) *Service {
	return &Service{
		store:        st,
		engines:      map[string]*fog.Engine{},
		manips:       map[string]*spatial.Manipulator{},
		DefaultBrush: 5,
	}
}

// SetBroadcaster wires the ws hub in after construction (the hub needs the
// service too).
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b = b
}

func (s *Service) broadcast(msgType string, data interface{}) {
	s.mu.Lock()
	b := s.b
	s.mu.Unlock()
	if b != nil {
		b.Broadcast(msgType, data)
	}
}

func (s *Service) Store() *store.Store {
	return s.store
}

// MapInfo decodes one record of the maps collection.
func (s *Service) MapInfo(mapID string) (model.MapInfo, error) {
	for _, r := range s.store.GetCollection(model.ColMaps) {
		if r.ID() == mapID {
			var info model.MapInfo
			raw, err := json.Marshal(r)
			if err != nil {
				return info, err
			}
			if err := json.Unmarshal(raw, &info); err != nil {
				return info, fmt.Errorf("map %s: %w", mapID, err)
			}
			return info, nil
		}
	}
	return model.MapInfo{}, ErrMapNotFound
}

// ---------- fog ----------

func (s *Service) engineFor(mapID string) (*fog.Engine, error) {
	s.mu.Lock()
	if eng, ok := s.engines[mapID]; ok {
		s.mu.Unlock()
		return eng, nil
	}
	s.mu.Unlock()

	info, err := s.MapInfo(mapID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if eng, ok := s.engines[mapID]; ok {
		return eng, nil
	}
	eng := fog.NewEngine(info.RevealedAreas, s.DefaultBrush,
		func(area model.RevealedArea) {
			s.broadcast("fog", FogEvent{MapID: mapID, Area: area})
		},
		func() {
			s.store.SaveNow()
			s.broadcast("fog_end", map[string]string{"map_id": mapID})
		})
	s.engines[mapID] = eng
	return eng, nil
}

func (s *Service) persistAreas(mapID string, eng *fog.Engine) error {
	return s.store.UpdateItem(model.ColMaps, mapID, model.Record{
		"revealed_areas": eng.Areas(),
	})
}

func (s *Service) BeginFogStroke(role, mapID string, x, y, brush float64) error {
	if !security.Can(role, security.OpFogDraw) {
		return ErrNotAllowed
	}
	eng, err := s.engineFor(mapID)
	if err != nil {
		return err
	}
	if brush > 0 {
		eng.SetBrushSize(brush)
	}
	eng.BeginStroke(x, y)
	return s.persistAreas(mapID, eng)
}

func (s *Service) MoveFogStroke(role, mapID string, x, y float64) error {
	if !security.Can(role, security.OpFogDraw) {
		return ErrNotAllowed
	}
	eng, err := s.engineFor(mapID)
	if err != nil {
		return err
	}
	eng.MoveStroke(x, y)
	return s.persistAreas(mapID, eng)
}

func (s *Service) EndFogStroke(role, mapID string) error {
	if !security.Can(role, security.OpFogDraw) {
		return ErrNotAllowed
	}
	eng, err := s.engineFor(mapID)
	if err != nil {
		return err
	}
	eng.EndStroke()
	return nil
}

func (s *Service) ClearFog(role, mapID string) error {
	if !security.Can(role, security.OpFogClear) {
		return ErrNotAllowed
	}
	eng, err := s.engineFor(mapID)
	if err != nil {
		return err
	}
	eng.ClearAll()
	if err := s.persistAreas(mapID, eng); err != nil {
		return err
	}
	s.store.SaveNow()
	s.broadcast("fog_clear", map[string]string{"map_id": mapID})
	return nil
}

// Overlay builds the per-role fog rendering of a map.
func (s *Service) Overlay(role, mapID string) (fog.Overlay, error) {
	info, err := s.MapInfo(mapID)
	if err != nil {
		return fog.Overlay{}, err
	}
	areas := info.RevealedAreas
	s.mu.Lock()
	if eng, ok := s.engines[mapID]; ok {
		s.mu.Unlock()
		areas = eng.Areas()
	} else {
		s.mu.Unlock()
	}
	return fog.BuildOverlay(role, areas), nil
}

// ---------- grid / show time ----------

func (s *Service) SetGrid(role, mapID string, grid model.GridSettings) error {
	if !security.Can(role, security.OpGridToggle) {
		return ErrNotAllowed
	}
	if _, err := s.MapInfo(mapID); err != nil {
		return err
	}
	return s.store.UpdateItem(model.ColMaps, mapID, model.Record{"grid": grid})
}

// SetShowTime marks one map as the broadcast view; every other map drops the
// flag.
func (s *Service) SetShowTime(role, mapID string) error {
	if !security.Can(role, security.OpShowTime) {
		return ErrNotAllowed
	}
	found := false
	for _, r := range s.store.GetCollection(model.ColMaps) {
		isTarget := r.ID() == mapID
		if isTarget {
			found = true
		}
		if err := s.store.UpdateItem(model.ColMaps, r.ID(), model.Record{"show_time": isTarget}); err != nil {
			return err
		}
	}
	if !found {
		return ErrMapNotFound
	}
	s.broadcast("show_time", map[string]string{"map_id": mapID})
	return nil
}

// ---------- boxes ----------

func manipKey(mapID, boxID string) string {
	return mapID + "/" + boxID
}

func (s *Service) saveBoxes(mapID string, boxes []model.Box) error {
	return s.store.UpdateItem(model.ColMaps, mapID, model.Record{"boxes": boxes})
}

// AddBox places a new box. Placing for someone else (creator differs from
// the caller) is a dungeon-master operation.
func (s *Service) AddBox(role, viewerNo, mapID string, box model.Box) (model.Box, error) {
	if box.Creator == "" {
		box.Creator = viewerNo
	}
	if box.Creator != viewerNo && !security.Can(role, security.OpTokenPlace) {
		return model.Box{}, ErrNotAllowed
	}
	info, err := s.MapInfo(mapID)
	if err != nil {
		return model.Box{}, err
	}
	if box.ID == "" {
		box.ID = uuid.NewString()
	}
	if box.Shape == "" {
		box.Shape = model.ShapeRectangle
	}
	if box.Opacity <= 0 || box.Opacity > 1 {
		box.Opacity = 0.5
	}
	boxes := append(info.Boxes, box)
	if err := s.saveBoxes(mapID, boxes); err != nil {
		return model.Box{}, err
	}
	s.broadcast("box", BoxEvent{MapID: mapID, Op: "add", Box: &box})
	return box, nil
}

func (s *Service) findBox(mapID, boxID string) (model.MapInfo, int, error) {
	info, err := s.MapInfo(mapID)
	if err != nil {
		return info, -1, err
	}
	for i, b := range info.Boxes {
		if b.ID == boxID {
			return info, i, nil
		}
	}
	return info, -1, ErrBoxNotFound
}

// BeginBoxGesture enters drag/resize/rotate on a box. Only one gesture may
// be active per box; a second Begin is refused until End.
func (s *Service) BeginBoxGesture(role, viewerNo, mapID, boxID string, g spatial.Gesture) error {
	info, idx, err := s.findBox(mapID, boxID)
	if err != nil {
		return err
	}
	if !security.CanEditBox(role, viewerNo, info.Boxes[idx].Creator) {
		return ErrNotAllowed
	}
	key := manipKey(mapID, boxID)
	s.mu.Lock()
	m, ok := s.manips[key]
	if !ok {
		m = spatial.NewManipulator(info.Boxes[idx])
		s.manips[key] = m
	}
	s.mu.Unlock()
	if !m.Begin(g) {
		return fmt.Errorf("box %s: gesture %s already active", boxID, m.Gesture())
	}
	return nil
}

// MoveBoxGesture feeds a pointer sample into the active gesture and persists
// the resulting geometry. The ownership check runs on every sample, not just
// at Begin, so a frame from another viewer cannot ride an open gesture.
func (s *Service) MoveBoxGesture(role, viewerNo, mapID, boxID string, c spatial.Container, px, py float64) (model.Box, error) {
	key := manipKey(mapID, boxID)
	s.mu.Lock()
	m, ok := s.manips[key]
	s.mu.Unlock()
	if !ok {
		return model.Box{}, ErrBoxNotFound
	}
	info, idx, err := s.findBox(mapID, boxID)
	if err != nil {
		return model.Box{}, err
	}
	if !security.CanEditBox(role, viewerNo, info.Boxes[idx].Creator) {
		return model.Box{}, ErrNotAllowed
	}
	box, active := m.Move(c, px, py)
	if !active {
		return box, nil
	}
	info.Boxes[idx] = box
	if err := s.saveBoxes(mapID, info.Boxes); err != nil {
		return box, err
	}
	s.broadcast("box", BoxEvent{MapID: mapID, Op: "update", Box: &box})
	return box, nil
}

// EndBoxGesture returns the box to idle and forces the authoritative save.
// Only the gesture owner (or the dungeon master) may end it; a deleted box's
// leftover manipulator is cleaned up for anyone.
func (s *Service) EndBoxGesture(role, viewerNo, mapID, boxID string) error {
	key := manipKey(mapID, boxID)
	s.mu.Lock()
	m, ok := s.manips[key]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if info, idx, err := s.findBox(mapID, boxID); err == nil {
		if !security.CanEditBox(role, viewerNo, info.Boxes[idx].Creator) {
			return ErrNotAllowed
		}
	}
	s.mu.Lock()
	delete(s.manips, key)
	s.mu.Unlock()
	m.End()
	s.store.SaveNow()
	return nil
}

func (s *Service) DeleteBox(role, viewerNo, mapID, boxID string) error {
	info, idx, err := s.findBox(mapID, boxID)
	if err != nil {
		return err
	}
	owner := info.Boxes[idx].Creator
	if !security.CanEditBox(role, viewerNo, owner) && !security.Can(role, security.OpTokenDelete) {
		return ErrNotAllowed
	}
	boxes := append(info.Boxes[:idx], info.Boxes[idx+1:]...)
	if err := s.saveBoxes(mapID, boxes); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.manips, manipKey(mapID, boxID))
	s.mu.Unlock()
	s.broadcast("box", BoxEvent{MapID: mapID, Op: "delete", BoxID: boxID})
	return nil
}

// ---------- pings / ruler ----------

// Ping relays an ephemeral point event. Never persisted; clients expire it
// after model.PingTTLMs.
func (s *Service) Ping(role, viewerNo, mapID string, x, y float64, color string) (model.Ping, error) {
	if !security.Can(role, security.OpPing) {
		return model.Ping{}, ErrNotAllowed
	}
	p := model.Ping{
		ID:        uuid.NewString(),
		X:         x,
		Y:         y,
		Color:     color,
		Timestamp: time.Now().UnixMilli(),
	}
	s.broadcast("ping", map[string]interface{}{"map_id": mapID, "ping": p, "viewer_no": viewerNo})
	return p, nil
}

// Measure runs the ruler between two percent-space points using the map's
// grid settings.
func (s *Service) Measure(mapID string, x1, y1, x2, y2 float64) (int, error) {
	info, err := s.MapInfo(mapID)
	if err != nil {
		return 0, err
	}
	units := info.Grid.UnitsPerCell
	if units <= 0 {
		units = spatial.DefaultUnitsPerCell
	}
	if info.Grid.CellPx <= 0 {
		log.Warnf("game: map %s has no grid cell size, ruler disabled", mapID)
		return 0, nil
	}
	return spatial.RulerDistance(x1, y1, x2, y2, info.ImageWidth, info.ImageHeight, info.Grid.CellPx, units), nil
}
