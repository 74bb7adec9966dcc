package nav

// MatchTolerance is the max difference between a traveled distance and
// the length of a matching wall.
const MatchTolerance = 1

// GuessWall finds the wall whose length matches traveled. It reports a
// wall only when exactly one qualifies.
func (r *Ring) GuessWall(traveled int) (Wall, bool) {
	var (
		match Wall
		count int
	)
	r.Walk(0, func(w Wall) bool {
		if abs(w.Length-traveled) <= MatchTolerance {
			match = w
			count++
		}
		return count < 2
	})
	return match, count == 1
}
