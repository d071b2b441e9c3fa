package model

// TrackEntity is one layout of a venue. Several entities may share the same Name
// and differ by Variant.
type TrackEntity struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Variant string `json:"variant,omitempty"`
}

// DisplayName returns "Name - Variant" or just Name if there is no variant
func (t TrackEntity) DisplayName() string {
	if t.Variant == "" {
		return t.Name
	}
	return t.Name + " - " + t.Variant
}
