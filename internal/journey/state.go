package journey

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

// State is the persisted document: the aggregate plus its dirty tracking.
// Transient flags (saving, loading, last error) are not part of it.
type State struct {
	domain.Journey
	Tracking
}

// DecodeState parses a persisted document. Dirty sets stored as arrays are
// turned back into sets here and nowhere else.
func DecodeState(data []byte) (State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decoding journey state: %w", err)
	}
	st.Journey.Normalize()
	st.Tracking.normalize()
	return st, nil
}
