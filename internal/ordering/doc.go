// Package ordering implements the ordered-collection operations shared by every playlist backend.
//
// A playlist is modelled as a slice of song IDs in playback order; an entry's position is its index.
// The functions here are pure: they never mutate their input and return fresh slices.
//
// Two renditions of the same semantics exist:
//   - [Move] uses list-splice semantics (remove the source element, insert it at the destination index)
//   - [PlanMove] describes the same move as a range shift, which is how the SQL backend rewrites rows
//
// [ApplyPlan] executes a [MovePlan] on a slice so the two renditions can be checked against each other.
package ordering
