package model

// All map geometry lives in percentage-of-image space: x/y/radius/width/
// height are percentages of the container, so positions survive any display
// resolution. Note the radius is a single percentage even though x and y
// percentages map to different absolute distances on non-square images; the
// clients render it that way and the backend keeps the same convention.

// RevealedArea is one hole punched in the fog layer. Areas accumulate for
// the life of a map and only an explicit clear removes them.
type RevealedArea struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Box is a highlight/token box placed on a map.
type Box struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	Shape    string  `json:"shape"`
	Creator  string  `json:"creator"`
}

// Ping is an ephemeral point event. Never persisted; relayed over the socket
// and expired client-side after PingTTLMs.
type Ping struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color"`
	Timestamp int64   `json:"timestamp"`
}

const PingTTLMs = 3000

type GridSettings struct {
	Enabled      bool    `json:"enabled"`
	CellPx       float64 `json:"cell_px"`
	OffsetX      float64 `json:"offset_x"`
	OffsetY      float64 `json:"offset_y"`
	UnitsPerCell int     `json:"units_per_cell"`
}

// MapInfo is one record of the "maps" collection. Image is a data URI and
// can run to megabytes, which is why the maps collection is dropped from the
// local fallback cache.
type MapInfo struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Image         string         `json:"image"`
	ImageWidth    float64        `json:"image_width"`
	ImageHeight   float64        `json:"image_height"`
	Grid          GridSettings   `json:"grid"`
	RevealedAreas []RevealedArea `json:"revealed_areas"`
	Boxes         []Box          `json:"boxes"`
	// ShowTime marks the map currently broadcast to the table view.
	ShowTime bool `json:"show_time"`
}
