package filters

const (
	DefaultContentLimit = 20
	MaxContentLimit     = 100
)

// ContentFilters narrows a catalog listing. Zero values mean "no filter".
type ContentFilters struct {
	Featured    bool   `schema:"featured"`
	Trending    bool   `schema:"trending"`
	NewEpisodes bool   `schema:"newEpisodes"` // series only, newest update first
	Search      string `schema:"search" validate:"max=200"`
	Limit       int    `schema:"limit" validate:"omitempty,min=1,max=100"`
}

func (f *ContentFilters) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultContentLimit
	}
	if f.Limit > MaxContentLimit {
		return MaxContentLimit
	}
	return f.Limit
}

// SortColumn is the column the listing is ordered by, descending.
func (f *ContentFilters) SortColumn() string {
	if f.NewEpisodes {
		return "updated_at"
	}
	return "created_at"
}
