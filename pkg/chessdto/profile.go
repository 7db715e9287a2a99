package chessdto

// PlayerRecord is a win/loss/draw tally over a player's archived games.
type PlayerRecord struct {
	PlayerID    string
	GamesPlayed int
	Wins        int
	Losses      int
	Draws       int
	Streak      int
	StreakType  string
}
