// Package security holds the role gate and session tokens. Three fixed
// viewer roles: the dungeon master (elevated), ordinary players and
// spectators.
package security

import "showtime/api/model"

type Op string

const (
	OpFogDraw     Op = "fog.draw"
	OpFogClear    Op = "fog.clear"
	OpGridToggle  Op = "grid.toggle"
	OpTokenPlace  Op = "token.place"  // placing tokens on behalf of others
	OpTokenDelete Op = "token.delete" // deleting any token
	OpShowTime    Op = "map.showtime" // broadcasting a map to the table
	OpBoxOwn      Op = "box.own"      // add/move/delete one's own boxes
	OpPing        Op = "ping"
	OpDiceRoll    Op = "dice.roll"
	OpViewMap     Op = "map.view"
)

var dmOnly = map[Op]bool{
	OpFogDraw:     true,
	OpFogClear:    true,
	OpGridToggle:  true,
	OpTokenPlace:  true,
	OpTokenDelete: true,
	OpShowTime:    true,
}

// Can answers whether a role may perform an operation. Unknown roles get
// nothing.
func Can(role string, op Op) bool {
	switch role {
	case model.RoleDM:
		return true
	case model.RolePlayer, model.RoleSpectator:
		return !dmOnly[op]
	default:
		return false
	}
}

// AllowedOps lists the operations a role may perform; DM-only operations are
// not advertised to other roles at all.
func AllowedOps(role string) []Op {
	all := []Op{
		OpFogDraw, OpFogClear, OpGridToggle, OpTokenPlace, OpTokenDelete,
		OpShowTime, OpBoxOwn, OpPing, OpDiceRoll, OpViewMap,
	}
	out := make([]Op, 0, len(all))
	for _, op := range all {
		if Can(role, op) {
			out = append(out, op)
		}
	}
	return out
}

// CanEditBox gates box mutation: the dungeon master touches any box, other
// roles only their own.
func CanEditBox(role, viewerNo, creator string) bool {
	if role == model.RoleDM {
		return true
	}
	return viewerNo != "" && viewerNo == creator
}

// CheckPassphrase is the elevation credential check. Case-sensitive, exact.
func CheckPassphrase(given, expected string) bool {
	return expected != "" && given == expected
}
