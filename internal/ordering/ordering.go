package ordering

import (
	"fmt"
	"slices"

	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/shared"
)

// ValidatePosition checks that pos addresses an existing entry of a list with n entries.
func ValidatePosition(pos, n int) error {
	if pos < 0 || pos >= n {
		return fmt.Errorf("%w: %d not in [0, %d)", shared.ErrInvalidPosition, pos, n)
	}
	return nil
}

// Append returns a copy of ids with id at the end.
func Append(ids []int64, id int64) []int64 {
	out := make([]int64, len(ids), len(ids)+1)
	copy(out, ids)
	return append(out, id)
}

// Remove returns a copy of ids without the entry at pos.
func Remove(ids []int64, pos int) ([]int64, error) {
	if err := ValidatePosition(pos, len(ids)); err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(ids)-1)
	out = append(out, ids[:pos]...)
	return append(out, ids[pos+1:]...), nil
}

// Move returns a copy of ids with the entry at from relocated to to.
func Move(ids []int64, from, to int) ([]int64, error) {
	if err := ValidatePosition(from, len(ids)); err != nil {
		return nil, err
	}
	if err := ValidatePosition(to, len(ids)); err != nil {
		return nil, err
	}

	out := slices.Clone(ids)
	if from == to {
		return out, nil
	}

	id := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, id), nil
}

// MovePlan describes a move as a range shift over positions [Lo, Hi].
//
// The entry at From lands on To; every other entry in the range moves by Delta.
type MovePlan struct {
	From  int
	To    int
	Lo    int
	Hi    int
	Delta int
}

// PlanMove builds the range-shift description of moving from -> to.
func PlanMove(from, to int) MovePlan {
	switch {
	case from < to:
		return MovePlan{From: from, To: to, Lo: from, Hi: to, Delta: -1}
	case from > to:
		return MovePlan{From: from, To: to, Lo: to, Hi: from, Delta: 1}
	default:
		return MovePlan{From: from, To: to, Lo: from, Hi: from}
	}
}

// Noop reports whether the plan leaves every position unchanged.
func (p MovePlan) Noop() bool {
	return p.From == p.To
}

// Contains reports whether pos lies inside the traversed range.
func (p MovePlan) Contains(pos int) bool {
	return pos >= p.Lo && pos <= p.Hi
}

// Target maps a position before the move to its position after the move.
func (p MovePlan) Target(pos int) int {
	switch {
	case p.Noop(), !p.Contains(pos):
		return pos
	case pos == p.From:
		return p.To
	default:
		return pos + p.Delta
	}
}

// Park maps a live position into the negative range used while rows are in flight.
// The mapping is injective and never yields a valid position.
func Park(pos int) int {
	return -pos - 1
}

// Unpark reverses [Park].
func Unpark(parked int) int {
	return -parked - 1
}

// ApplyPlan rewrites ids by placing every entry at plan.Target of its position.
func ApplyPlan(ids []int64, plan MovePlan) []int64 {
	out := make([]int64, len(ids))
	for pos, id := range ids {
		out[plan.Target(pos)] = id
	}
	return out
}

// Compact maps each given position to its rank among them, closing any gaps.
func Compact(positions []int) map[int]int {
	sorted := slices.Clone(positions)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	ranks := make(map[int]int, len(sorted))
	for rank, pos := range sorted {
		ranks[pos] = rank
	}
	return ranks
}

// Entries materializes the playlist entries for ids in order.
func Entries(playlistID int64, ids []int64) []models.PlaylistEntry {
	entries := make([]models.PlaylistEntry, len(ids))
	for pos, id := range ids {
		entries[pos] = models.PlaylistEntry{PlaylistID: playlistID, Position: pos, SongID: id}
	}
	return entries
}

// Contiguous reports whether positions are exactly {0, ..., len-1}.
func Contiguous(positions []int) bool {
	seen := make([]bool, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(positions) || seen[pos] {
			return false
		}
		seen[pos] = true
	}
	return true
}
