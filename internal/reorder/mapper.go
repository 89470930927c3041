package reorder

// EffectiveIndex computes the display slot for the post at absolute index
// original while a drag from source to target is in flight. It produces the
// "make room" effect: exactly the movable posts between the drag's source
// and current target shift by one slot toward the vacated source; locked
// posts and everything outside that window stay put.
//
// source must be the dragged post's absolute index (movable by the gesture
// guard). target is the hovered cell's absolute index and may point at a
// locked cell; it is resolved to the nearest movable position. The dragged
// post itself maps to the target slot (its grid slot is the placeholder; the
// dragged visual tracks the pointer separately).
func (s *Sequence) EffectiveIndex(original, source, target int) int {
	if source == target {
		return original
	}
	if original < 0 || original >= len(s.posts) {
		return original
	}
	if !s.posts[original].Movable() {
		return original
	}

	draggedPos, ok := s.MovablePos(source)
	if !ok {
		return original
	}
	targetPos, ok := s.MovablePosNear(target)
	if !ok {
		return original
	}

	if original == source {
		if abs, ok := s.AbsIndex(targetPos); ok {
			return abs
		}
		return original
	}

	itemPos, ok := s.MovablePos(original)
	if !ok {
		return original
	}

	newPos := itemPos
	switch {
	case draggedPos < itemPos && itemPos <= targetPos:
		// Forward drag: items in (source, target] slide back toward the
		// vacated slot.
		newPos = itemPos - 1
	case targetPos <= itemPos && itemPos < draggedPos:
		// Backward drag: items in [target, source) slide forward.
		newPos = itemPos + 1
	default:
		return original
	}

	abs, ok := s.AbsIndex(newPos)
	if !ok {
		return original
	}
	return abs
}
