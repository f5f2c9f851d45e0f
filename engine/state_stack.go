package engine

const fiftyMoveLimit = 100

// State captures the information we need to reason about repetitions and draws.
type State struct {
	Hash   uint64
	Rule50 int
}

// StateStack holds the hashes of the game so far followed by the current
// search path.
type StateStack struct {
	states []State
}

func (s *StateStack) Reset() { s.states = s.states[:0] }

func (s *StateStack) Len() int { return len(s.states) }

func (s *StateStack) Push(hash uint64, rule50 int) {
	s.states = append(s.states, State{Hash: hash, Rule50: rule50})
}

func (s *StateStack) Pop() {
	if len(s.states) == 0 {
		return
	}
	s.states = s.states[:len(s.states)-1]
}

// isDraw reports a fifty-move draw or a position seen twice before since
// the last irreversible move.
func (s *StateStack) isDraw() bool {
	if len(s.states) == 0 {
		return false
	}
	curr := s.states[len(s.states)-1]
	if curr.Rule50 >= fiftyMoveLimit {
		return true
	}
	return s.repetitions(curr.Hash, curr.Rule50) >= 2
}

// repetitions counts earlier occurrences of hash, walking back no further
// than rule50 plies and stopping at an entry with a zero clock. Null moves
// are pushed with a zero clock so the walk never crosses one.
func (s *StateStack) repetitions(hash uint64, rule50 int) int {
	count := 0
	stop := len(s.states) - 1 - rule50
	for i := len(s.states) - 2; i >= 0 && i >= stop; i-- {
		if s.states[i].Hash == hash {
			count++
		}
		if s.states[i].Rule50 == 0 {
			break
		}
	}
	return count
}
