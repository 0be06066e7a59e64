// Package riot implements the external match-data provider client.
// Every lookup fails soft on not-found conditions: a 404 yields a nil
// result and a nil error so transient provider gaps degrade to "no data"
// instead of aborting callers.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"riftbook/internal/config"
)

// ErrLookupFailed wraps non-404 provider failures. Callers treat it as
// transient: pricing falls back to unranked, reconciliation defers a tick.
var ErrLookupFailed = errors.New("riot lookup failed")

// Client talks to the Riot API. Platform-routed endpoints (summoner,
// spectator, league) and region-routed ones (account, match) use separate
// base URLs.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	platformURL string
	regionURL   string
}

// NewClient creates a Riot API client from configuration.
func NewClient(cfg *config.RiotConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		platformURL: cfg.PlatformURL,
		regionURL:   cfg.RegionURL,
	}
}

// get performs an authenticated GET and decodes the response into out.
// Returns found=false with a nil error on 404.
func (c *Client) get(ctx context.Context, rawURL string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("%w: decode: %v", ErrLookupFailed, err)
	}
	return true, nil
}

// AccountByRiotID resolves a riot-id (gameName + tagLine) to an account.
// Returns (nil, nil) when the riot-id does not exist.
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionURL, url.PathEscape(gameName), url.PathEscape(tagLine))

	var acc Account
	found, err := c.get(ctx, u, &acc)
	if err != nil || !found {
		return nil, err
	}
	return &acc, nil
}

// SummonerByPUUID fetches the summoner record for a persistent id.
func (c *Client) SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s",
		c.platformURL, url.PathEscape(puuid))

	var s Summoner
	found, err := c.get(ctx, u, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// ActiveGame returns the player's current live game, or nil if the player
// is not in one.
func (c *Client) ActiveGame(ctx context.Context, puuid string) (*LiveGame, error) {
	u := fmt.Sprintf("%s/lol/spectator/v5/active-games/by-summoner/%s",
		c.platformURL, url.PathEscape(puuid))

	var g LiveGame
	found, err := c.get(ctx, u, &g)
	if err != nil || !found {
		return nil, err
	}
	return &g, nil
}

// RecentMatchIDs returns up to count most recent completed match ids for a
// player, newest first. An empty slice means no history yet.
func (c *Client) RecentMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	if count <= 0 {
		count = 1
	}
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d",
		c.regionURL, url.PathEscape(puuid), count)

	var ids []string
	found, err := c.get(ctx, u, &ids)
	if err != nil || !found {
		return nil, err
	}
	return ids, nil
}

// MatchResultFor fetches one match and extracts the given player's outcome.
// Returns (nil, nil) when the match is unknown or the player was not in it.
func (c *Client) MatchResultFor(ctx context.Context, matchID, puuid string) (*MatchResult, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionURL, url.PathEscape(matchID))

	var m match
	found, err := c.get(ctx, u, &m)
	if err != nil || !found {
		return nil, err
	}
	for _, p := range m.Info.Participants {
		if p.PUUID == puuid {
			return &MatchResult{MatchID: m.Metadata.MatchID, Win: p.Win}, nil
		}
	}
	return nil, nil
}

// LeagueEntries returns all ranked queue entries for a summoner id.
func (c *Client) LeagueEntries(ctx context.Context, summonerID string) ([]LeagueEntry, error) {
	u := fmt.Sprintf("%s/lol/league/v4/entries/by-summoner/%s",
		c.platformURL, url.PathEscape(summonerID))

	var entries []LeagueEntry
	found, err := c.get(ctx, u, &entries)
	if err != nil || !found {
		return nil, err
	}
	return entries, nil
}

// SoloQueueEntry picks the solo/duo ranked entry, falling back to the first
// entry of any queue. Returns nil when the player has no ranked entries.
func SoloQueueEntry(entries []LeagueEntry) *LeagueEntry {
	for i := range entries {
		if entries[i].QueueType == "RANKED_SOLO_5x5" {
			return &entries[i]
		}
	}
	if len(entries) > 0 {
		return &entries[0]
	}
	return nil
}
