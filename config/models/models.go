package models

// Profile is one named set of connection parameters.
type Profile struct {
	BaseURL     string `json:"baseURL"`
	APIKey      string `json:"apiKey"`
	Description string `json:"description"`
	Created     string `json:"created"` // ISO-8601, kept verbatim
}

// Store is the persisted collection of profiles plus the active profile name.
// Current is nil when no profile is active and serialises as JSON null.
type Store struct {
	Profiles map[string]Profile `json:"profiles"`
	Current  *string            `json:"current"`
}

// NewStore returns the zero-value store
func NewStore() *Store {
	return &Store{Profiles: map[string]Profile{}}
}

// CurrentName returns the active profile name, or "" when none is set
func (s *Store) CurrentName() string {
	if s.Current == nil {
		return ""
	}
	return *s.Current
}
