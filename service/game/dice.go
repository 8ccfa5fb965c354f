package game

import (
	"strconv"
	"strings"
	"time"

	"showtime/api/log"
	"showtime/api/model"
	"showtime/api/security"
	"showtime/api/service/dice"
	"showtime/api/tools"
)

// SetDice wires the roller and an optional persistence hook for the roll
// history table.
func (s *Service) SetDice(roller *dice.Roller, sink func(model.DiceLog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roller = roller
	s.diceSink = sink
}

// RollDice rolls for a viewer and announces the result to the table.
func (s *Service) RollDice(role, viewerNo, name, spec string) (dice.Roll, error) {
	if !security.Can(role, security.OpDiceRoll) {
		return dice.Roll{}, ErrNotAllowed
	}
	s.mu.Lock()
	roller := s.roller
	sink := s.diceSink
	s.mu.Unlock()
	if roller == nil {
		return dice.Roll{}, ErrNotAllowed
	}
	roll, err := roller.Roll(spec)
	if err != nil {
		return dice.Roll{}, err
	}
	if sink != nil {
		sink(model.DiceLog{
			ViewerNo: viewerNo,
			Spec:     roll.Spec,
			Total:    roll.Total,
			Detail:   fmtRolls(roll.Rolls),
			AddTime:  tools.FromTime(time.Now()),
		})
	}
	s.broadcast("dice", map[string]interface{}{
		"viewer_no": viewerNo,
		"name":      name,
		"roll":      roll,
	})
	log.Infof("dice: %s rolled %s = %d", name, roll.Spec, roll.Total)
	return roll, nil
}

func fmtRolls(rolls []int) string {
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}
