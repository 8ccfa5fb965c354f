package fog

import "showtime/api/model"

// Fog rendering constants. The dungeon master sees through the fog at
// reduced opacity; everyone else gets a solid layer. SoftEdgeFraction is the
// radial falloff band at each circle's rim, as a fraction of its radius.
const (
	OpacityDM        = 0.55
	OpacityPlayer    = 1.0
	SoftEdgeFraction = 0.15
)

// Overlay is the render contract for the fog layer: a full-cover fog at the
// role's opacity with every revealed circle masked out. Interactive is true
// only for the dungeon master; for all other roles the layer must stay
// pointer-transparent so tokens and pings underneath remain reachable.
type Overlay struct {
	Opacity     float64              `json:"opacity"`
	SoftEdge    float64              `json:"soft_edge"`
	Interactive bool                 `json:"interactive"`
	Areas       []model.RevealedArea `json:"areas"`
}

// BuildOverlay renders the per-role view of a revealed-area sequence.
func BuildOverlay(role string, areas []model.RevealedArea) Overlay {
	o := Overlay{
		Opacity:  OpacityPlayer,
		SoftEdge: SoftEdgeFraction,
		Areas:    areas,
	}
	if role == model.RoleDM {
		o.Opacity = OpacityDM
		o.Interactive = true
	}
	if o.Areas == nil {
		o.Areas = []model.RevealedArea{}
	}
	return o
}
