package performance

const maxRepetitionInterval = 16

// monoStreak is a run of notes of the same colour
type monoStreak struct {
	Notes []*difficultyObject

	Parent *alternatingMonoPattern
	Index  int
}

func (m *monoStreak) kind() hitKind {
	return m.Notes[0].Kind
}

func (m *monoStreak) first() *difficultyObject {
	return m.Notes[0]
}

func (m *monoStreak) last() *difficultyObject {
	return m.Notes[len(m.Notes)-1]
}

// alternatingMonoPattern groups consecutive mono streaks of equal length
type alternatingMonoPattern struct {
	Streaks []*monoStreak

	Parent *repeatingHitPatterns
	Index  int
}

func (p *alternatingMonoPattern) first() *difficultyObject {
	return p.Streaks[0].first()
}

func (p *alternatingMonoPattern) isRepetitionOf(other *alternatingMonoPattern) bool {
	return len(other.Streaks[0].Notes) == len(p.Streaks[0].Notes) &&
		len(other.Streaks) == len(p.Streaks) &&
		other.Streaks[0].kind() == p.Streaks[0].kind()
}

// repeatingHitPatterns groups alternating patterns that repeat every second pattern
type repeatingHitPatterns struct {
	Patterns []*alternatingMonoPattern

	previous *repeatingHitPatterns

	// RepetitionInterval is the distance to the closest similar group, capped at maxRepetitionInterval
	RepetitionInterval int
}

func (r *repeatingHitPatterns) first() *difficultyObject {
	return r.Patterns[0].first()
}

func (r *repeatingHitPatterns) isRepetitionOf(other *repeatingHitPatterns) bool {
	if len(r.Patterns) != len(other.Patterns) {
		return false
	}

	for i := range min(len(r.Patterns), 2) {
		if !r.Patterns[i].isRepetitionOf(other.Patterns[i]) {
			return false
		}
	}

	return true
}

func (r *repeatingHitPatterns) findRepetitionInterval() {
	r.RepetitionInterval = maxRepetitionInterval

	other := r.previous

	for interval := 1; other != nil && interval < maxRepetitionInterval; interval++ {
		if r.isRepetitionOf(other) {
			r.RepetitionInterval = interval
			return
		}

		other = other.previous
	}
}

type colourData struct {
	MonoStreak  *monoStreak
	Alternating *alternatingMonoPattern
	Repeating   *repeatingHitPatterns
}

// PreviousColourChange is the last note before the current mono streak
func (c colourData) PreviousColourChange() *difficultyObject {
	if c.MonoStreak == nil {
		return nil
	}

	return c.MonoStreak.first().PreviousNote(0)
}

// NextColourChange is the first note after the current mono streak
func (c colourData) NextColourChange() *difficultyObject {
	if c.MonoStreak == nil {
		return nil
	}

	return c.MonoStreak.last().NextNote(0)
}

func encodeColours(notes []*difficultyObject) {
	streaks := encodeMonoStreaks(notes)
	patterns := encodeAlternatingPatterns(streaks)
	repeating := encodeRepeatingPatterns(patterns)

	for _, r := range repeating {
		r.findRepetitionInterval()

		for i, p := range r.Patterns {
			p.Parent = r
			p.Index = i

			for j, s := range p.Streaks {
				s.Parent = p
				s.Index = j

				for _, n := range s.Notes {
					n.Colour = colourData{MonoStreak: s, Alternating: p, Repeating: r}
				}
			}
		}
	}
}

func encodeMonoStreaks(notes []*difficultyObject) []*monoStreak {
	var streaks []*monoStreak

	var current *monoStreak

	for i, n := range notes {
		if current == nil || n.Kind != notes[i-1].Kind {
			current = &monoStreak{}
			streaks = append(streaks, current)
		}

		current.Notes = append(current.Notes, n)
	}

	return streaks
}

func encodeAlternatingPatterns(streaks []*monoStreak) []*alternatingMonoPattern {
	var patterns []*alternatingMonoPattern

	var current *alternatingMonoPattern

	for i, s := range streaks {
		if current == nil || len(s.Notes) != len(streaks[i-1].Notes) {
			current = &alternatingMonoPattern{}
			patterns = append(patterns, current)
		}

		current.Streaks = append(current.Streaks, s)
	}

	return patterns
}

func encodeRepeatingPatterns(patterns []*alternatingMonoPattern) []*repeatingHitPatterns {
	var groups []*repeatingHitPatterns

	coupled := func(i int) bool {
		return i < len(patterns)-2 && patterns[i].isRepetitionOf(patterns[i+2])
	}

	for i := 0; i < len(patterns); i++ {
		group := &repeatingHitPatterns{}
		if len(groups) > 0 {
			group.previous = groups[len(groups)-1]
		}

		if !coupled(i) {
			group.Patterns = append(group.Patterns, patterns[i])
		} else {
			for coupled(i) {
				group.Patterns = append(group.Patterns, patterns[i])
				i++
			}

			// The last two patterns were only peeked at
			group.Patterns = append(group.Patterns, patterns[i], patterns[i+1])
			i++
		}

		groups = append(groups, group)
	}

	return groups
}
