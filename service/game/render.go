package game

import (
	"showtime/api/model"
	"showtime/api/service/fog"
)

// RenderPayload is everything a viewer needs to draw one map for its role:
// the image, grid, boxes and the role's fog overlay.
type RenderPayload struct {
	MapID    string             `json:"map_id"`
	Name     string             `json:"name"`
	Image    string             `json:"image"`
	Width    float64            `json:"width"`
	Height   float64            `json:"height"`
	Grid     model.GridSettings `json:"grid"`
	Boxes    []model.Box        `json:"boxes"`
	Fog      fog.Overlay        `json:"fog"`
	ShowTime bool               `json:"show_time"`
}

// Render assembles the per-role view of a map.
func (s *Service) Render(role, mapID string) (*RenderPayload, error) {
	info, err := s.MapInfo(mapID)
	if err != nil {
		return nil, err
	}
	overlay, err := s.Overlay(role, mapID)
	if err != nil {
		return nil, err
	}
	boxes := info.Boxes
	if boxes == nil {
		boxes = []model.Box{}
	}
	return &RenderPayload{
		MapID:    info.ID,
		Name:     info.Name,
		Image:    info.Image,
		Width:    info.ImageWidth,
		Height:   info.ImageHeight,
		Grid:     info.Grid,
		Boxes:    boxes,
		Fog:      overlay,
		ShowTime: info.ShowTime,
	}, nil
}
