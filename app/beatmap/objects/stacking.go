package objects

const stackDistance = 3

// ApplyStacking assigns stack indices to osu!standard objects and sets their offsets.
// preempt is in map time, offsetPerStack is -6.4 * scale.
func ApplyStacking(hitObjects []IHitObject, preempt, stackLeniency float64, offsetPerStack float32) {
	for _, o := range hitObjects {
		o.SetStackIndex(0)
	}

	stackThreshold := preempt * stackLeniency

	for i := len(hitObjects) - 1; i > 0; i-- {
		n := i
		objectI := hitObjects[i]

		if objectI.GetStackIndex() != 0 || isSpinner(objectI) {
			continue
		}

		if _, ok := objectI.(*Slider); ok {
			for n--; n >= 0; n-- {
				objectN := hitObjects[n]
				if isSpinner(objectN) {
					continue
				}

				if objectI.GetStartTime()-objectN.GetStartTime() > stackThreshold {
					break
				}

				if objectN.GetEndPosition().Dst(objectI.GetPosition()) < stackDistance {
					objectN.SetStackIndex(objectI.GetStackIndex() + 1)
					objectI = objectN
				}
			}

			continue
		}

		for n--; n >= 0; n-- {
			objectN := hitObjects[n]
			if isSpinner(objectN) {
				continue
			}

			if objectI.GetStartTime()-objectN.GetEndTime() > stackThreshold {
				break
			}

			if _, ok := objectN.(*Slider); ok && objectN.GetEndPosition().Dst(objectI.GetPosition()) < stackDistance {
				offset := objectI.GetStackIndex() - objectN.GetStackIndex() + 1

				for j := n + 1; j <= i; j++ {
					objectJ := hitObjects[j]
					if objectN.GetEndPosition().Dst(objectJ.GetPosition()) < stackDistance {
						objectJ.SetStackIndex(objectJ.GetStackIndex() - offset)
					}
				}

				break
			}

			if objectN.GetPosition().Dst(objectI.GetPosition()) < stackDistance {
				objectN.SetStackIndex(objectI.GetStackIndex() + 1)
				objectI = objectN
			}
		}
	}

	for _, o := range hitObjects {
		o.SetStackOffset(offsetPerStack)
	}
}

func isSpinner(o IHitObject) bool {
	_, ok := o.(*Spinner)
	return ok
}
