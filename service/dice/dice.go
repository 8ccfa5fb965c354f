// Package dice implements the table's dice roller. Parsing accepts the
// usual NdS+M notation ("2d6", "d20-1", "4d8+3").
package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
)

var ErrInvalidSpec = errors.New("invalid dice spec")

var specRe = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

type Roll struct {
	Spec     string `json:"spec"`
	Rolls    []int  `json:"rolls"`
	Modifier int    `json:"modifier"`
	Total    int    `json:"total"`
}

type Roller struct {
	rng *rand.Rand
}

// NewRoller seeds from the given source; pass rand.NewSource(time.Now().
// UnixNano()) in production and a fixed seed in tests.
func NewRoller(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// Roll parses and rolls a spec. Count defaults to 1, capped at 100 dice and
// 1000 sides to keep hostile specs cheap.
func (r *Roller) Roll(spec string) (Roll, error) {
	m := specRe.FindStringSubmatch(spec)
	if m == nil {
		return Roll{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
	}
	sides, _ := strconv.Atoi(m[2])
	modifier := 0
	if m[3] != "" {
		modifier, _ = strconv.Atoi(m[3])
	}
	if count < 1 || count > 100 || sides < 2 || sides > 1000 {
		return Roll{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}

	out := Roll{Spec: spec, Modifier: modifier, Rolls: make([]int, count)}
	for i := 0; i < count; i++ {
		out.Rolls[i] = r.rng.Intn(sides) + 1
		out.Total += out.Rolls[i]
	}
	out.Total += modifier
	return out, nil
}
