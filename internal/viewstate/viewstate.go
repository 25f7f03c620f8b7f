// Package viewstate holds the client's view of backend state: one
// slice per query, each written by exactly one query, invalidated by
// re-fetch after mutations rather than mutated locally.
package viewstate

import "github.com/gameportal/portal-go/internal/model"

// Section is the active view selector. Using a closed enum keeps
// invalid views unrepresentable.
type Section int

const (
	SectionDashboard Section = iota
	SectionGames
	SectionCharacters
	SectionFriends
	SectionAchievements
)

func (s Section) String() string {
	switch s {
	case SectionDashboard:
		return "dashboard"
	case SectionGames:
		return "games"
	case SectionCharacters:
		return "characters"
	case SectionFriends:
		return "friends"
	case SectionAchievements:
		return "achievements"
	default:
		return "unknown"
	}
}

// ViewState is the set of displayed collections. Each field is owned
// by a single query; concurrent refreshes never write the same field.
type ViewState struct {
	Active Section

	Games          []model.Game
	PlayerGames    []model.PlayerGame
	Stats          *model.PlayerStats
	Characters     []model.Character
	Friends        []model.Friend
	FriendRequests []model.FriendRequest

	SearchTerm    string
	SearchResults []model.SearchPlayer

	Achievements []model.PlayerAchievement
}

// Reset discards all collections, returning the view to its initial
// empty state. Used when the session ends.
func (v *ViewState) Reset() {
	*v = ViewState{}
}
