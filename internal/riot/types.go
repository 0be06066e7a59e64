package riot

// Account is the Riot account resolved from a riot-id (Account-V1).
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner is the platform-level summoner record (Summoner-V4).
// ID may be absent on newer accounts; it is only needed for ranked lookups.
type Summoner struct {
	ID            string `json:"id"`
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int64  `json:"summonerLevel"`
}

// LiveGame is an in-progress game from Spectator-V5. GameID is the bare
// numeric id without a platform prefix.
type LiveGame struct {
	GameID       int64  `json:"gameId"`
	PlatformID   string `json:"platformId"`
	GameMode     string `json:"gameMode"`
	GameLength   int64  `json:"gameLength"`
	GameQueueID  int64  `json:"gameQueueConfigId"`
	GameStartEpo int64  `json:"gameStartTime"`
}

// LeagueEntry is one ranked queue entry (League-V4).
type LeagueEntry struct {
	QueueType string `json:"queueType"`
	Tier      string `json:"tier"`
	Rank      string `json:"rank"`
	LP        int    `json:"leaguePoints"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

// MatchResult is the subject player's outcome in one completed match
// (Match-V5). MatchID carries the platform prefix, e.g. "EUW1_7123456789".
type MatchResult struct {
	MatchID string
	Win     bool
}

// match is the subset of the Match-V5 response the service reads.
type match struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		Participants []struct {
			PUUID string `json:"puuid"`
			Win   bool   `json:"win"`
		} `json:"participants"`
	} `json:"info"`
}
