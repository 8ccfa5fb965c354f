package model

const (
	TB_VIEWER_ACCOUNT = "n_viewer_account"
	TB_GAME_SNAPSHOT  = "n_game_snapshot"
	TB_DICE_LOG       = "n_dice_log"
)

// Viewer roles. Spectators hold no account row; player accounts flip to the
// dungeon master role through the elevation passphrase.
const (
	RoleSpectator = "spectator"
	RolePlayer    = "player"
	RoleDM        = "dm"
)

// Box shape variants.
const (
	ShapeRectangle = "rectangle"
	ShapeSquare    = "square"
	ShapeCircle    = "circle"
	ShapeTriangle  = "triangle"
)

// Well-known collection names. The store accepts others, these are the ones
// with a registered schema.
const (
	ColCrawlers = "crawlers"
	ColMobs     = "mobs"
	ColMaps     = "maps"
	ColItems    = "items"
	ColNotes    = "notes"
	ColSessions = "sessions"
	ColBoxes    = "boxes"
)
