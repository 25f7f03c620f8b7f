package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gameportal/portal-go/internal/model"
	"github.com/gameportal/portal-go/internal/viewstate"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.Session:
		o.printSession(v)
	case model.Player:
		o.printPlayer(v)
	case []model.Game:
		o.printGames(v)
	case []model.PlayerGame:
		o.printPlayerGames(v)
	case model.PlayerStats:
		o.printStats(v)
	case []model.Character:
		o.printCharacters(v)
	case []model.Friend:
		o.printFriends(v)
	case []model.FriendRequest:
		o.printFriendRequests(v)
	case []model.SearchPlayer:
		o.printSearchPlayers(v)
	case []model.PlayerAchievement:
		o.printPlayerAchievements(v)
	case []model.GameAchievement:
		o.printGameAchievements(v)
	case model.Profile:
		o.printProfile(v)
	case model.Health:
		fmt.Printf("Status: %s\n", v.Status)
	case viewstate.ViewState:
		o.printDashboard(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printSession(s model.Session) {
	o.printPlayer(s.Player)
}

func (o *Output) printPlayer(p model.Player) {
	fmt.Printf("Player: %s (#%d)\n", p.Username, p.ID)
	if p.Email != "" {
		fmt.Printf("Email: %s\n", p.Email)
	}
}

func (o *Output) printGames(games []model.Game) {
	if len(games) == 0 {
		fmt.Println("No games in the catalog.")
		return
	}
	for _, g := range games {
		fmt.Printf("  #%d %s (%s)\n", g.ID, g.Title, g.Genre)
	}
}

func (o *Output) printPlayerGames(games []model.PlayerGame) {
	if len(games) == 0 {
		fmt.Println("No games played yet. Record your first match!")
		return
	}
	for _, g := range games {
		fmt.Printf("%s (%s) [%s]\n", g.Title, g.Genre, g.Rank)
		fmt.Printf("  Playtime: %.1fh  Wins: %d  Losses: %d  High Score: %d\n",
			g.PlaytimeHours, g.Wins, g.Losses, g.HighScore)
	}
}

func (o *Output) printStats(s model.PlayerStats) {
	fmt.Printf("Total Playtime: %.1f hours\n", s.TotalPlaytime)
	fmt.Printf("Total Wins: %d\n", s.TotalWins)
	fmt.Printf("Total Losses: %d\n", s.TotalLosses)
	fmt.Printf("Win Rate: %.2f%%\n", s.WinRate)
}

func (o *Output) printCharacters(chars []model.Character) {
	if len(chars) == 0 {
		fmt.Println("No characters yet. Create your first character!")
		return
	}
	for _, c := range chars {
		fmt.Printf("  #%d %s (level %d)\n", c.ID, c.Name, c.Level)
	}
}

func (o *Output) printFriends(friends []model.Friend) {
	if len(friends) == 0 {
		fmt.Println("No friends yet. Search and add friends!")
		return
	}
	for _, f := range friends {
		fmt.Printf("  #%d %s <%s>\n", f.PlayerID, f.Username, f.Email)
	}
}

func (o *Output) printFriendRequests(reqs []model.FriendRequest) {
	if len(reqs) == 0 {
		fmt.Println("No pending friend requests.")
		return
	}
	for _, r := range reqs {
		fmt.Printf("  #%d %s\n", r.PlayerID, r.Username)
	}
}

func (o *Output) printSearchPlayers(players []model.SearchPlayer) {
	if len(players) == 0 {
		fmt.Println("No players found. Try a different search term.")
		return
	}
	for _, p := range players {
		status := ""
		switch {
		case p.IsFriend:
			status = " [friends]"
		case p.HasPendingRequest:
			status = " [pending]"
		}
		fmt.Printf("  #%d %s <%s>%s\n", p.PlayerID, p.Username, p.Email, status)
	}
}

func (o *Output) printPlayerAchievements(achievements []model.PlayerAchievement) {
	if len(achievements) == 0 {
		fmt.Println("No achievements earned yet.")
		return
	}
	for _, a := range achievements {
		fmt.Printf("  %s (%d pts) - %s [%s]\n", a.Name, a.Points, a.Description, a.GameTitle)
	}
}

func (o *Output) printGameAchievements(achievements []model.GameAchievement) {
	if len(achievements) == 0 {
		fmt.Println("No achievements for this game.")
		return
	}
	for _, a := range achievements {
		mark := " "
		if a.Earned {
			mark = "x"
		}
		fmt.Printf("  [%s] %s (%d pts) - %s\n", mark, a.Name, a.Points, a.Description)
	}
}

func (o *Output) printProfile(p model.Profile) {
	o.printPlayer(p.Player)
	fmt.Printf("\nCharacters (%d):\n", len(p.Characters))
	o.printCharacters(p.Characters)
	fmt.Printf("\nGames (%d):\n", len(p.Games))
	o.printPlayerGames(p.Games)
	fmt.Printf("\nFriends (%d):\n", len(p.Friends))
	o.printFriends(p.Friends)
}

func (o *Output) printDashboard(v viewstate.ViewState) {
	fmt.Println("Your Statistics:")
	if v.Stats != nil {
		o.printStats(*v.Stats)
	} else {
		fmt.Println("  (unavailable)")
	}
	fmt.Printf("\nGames Played: %d\n", len(v.PlayerGames))
	fmt.Printf("Characters: %d\n", len(v.Characters))
	fmt.Printf("Friends: %d\n", len(v.Friends))
	if len(v.FriendRequests) > 0 {
		fmt.Printf("\nPending Friend Requests (%d):\n", len(v.FriendRequests))
		o.printFriendRequests(v.FriendRequests)
	}
}
