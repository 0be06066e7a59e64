// Package reconcile runs the background settlement loop: it periodically
// probes the match-data provider for every game that still has pending
// wagers and triggers settlement once the game is known to be over.
package reconcile

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"riftbook/internal/metrics"
	"riftbook/internal/model"
	"riftbook/internal/notify"
	"riftbook/internal/riot"
)

// WagerSource enumerates games with pending wagers.
type WagerSource interface {
	PendingGroups(ctx context.Context) ([]model.PendingGroup, error)
}

// PlayerSource resolves subject players.
type PlayerSource interface {
	GetByID(ctx context.Context, id string) (*model.Player, error)
}

// MatchProvider probes liveness and outcomes. Satisfied by *riot.Client.
type MatchProvider interface {
	ActiveGame(ctx context.Context, puuid string) (*riot.LiveGame, error)
	RecentMatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	MatchResultFor(ctx context.Context, matchID, puuid string) (*riot.MatchResult, error)
}

// Resolver settles all pending wagers bound to one game.
type Resolver interface {
	ResolveGame(ctx context.Context, gameID string, subjectWon bool) (int, error)
}

// Options tunes the reconciler.
type Options struct {
	// MatchWindow is how many recent completed matches are scanned for the
	// bound game before the group is deferred to the next tick.
	MatchWindow int
	// Concurrency bounds how many game groups are probed in parallel, to
	// respect provider rate limits.
	Concurrency int
}

// Reconciler converges pending wagers to won/lost. Start is idempotent and
// Stop only cancels future ticks; an in-flight tick finishes naturally.
type Reconciler struct {
	wagers    WagerSource
	players   PlayerSource
	provider  MatchProvider
	resolver  Resolver
	publisher notify.Publisher

	matchWindow int
	concurrency int

	mu    sync.Mutex
	sched gocron.Scheduler
}

// New creates a Reconciler. publisher may be notify.Nop{}.
func New(wagers WagerSource, players PlayerSource, provider MatchProvider, resolver Resolver, publisher notify.Publisher, opts Options) *Reconciler {
	if opts.MatchWindow <= 0 {
		opts.MatchWindow = 1
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Reconciler{
		wagers:      wagers,
		players:     players,
		provider:    provider,
		resolver:    resolver,
		publisher:   publisher,
		matchWindow: opts.MatchWindow,
		concurrency: opts.Concurrency,
	}
}

// Start schedules the loop: one tick immediately, then one per interval.
// Calling Start while running is a no-op. A tick still running when the
// next fires is not overlapped; the scheduler reschedules instead.
func (r *Reconciler) Start(interval time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sched != nil {
		return nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { r.Tick(context.Background()) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return err
	}

	sched.Start()
	r.sched = sched
	log.Info().Dur("interval", interval).Msg("Reconciler started")
	return nil
}

// Stop cancels future ticks. Safe to call when not running.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sched == nil {
		return
	}
	if err := r.sched.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("Reconciler shutdown error")
	}
	r.sched = nil
	log.Info().Msg("Reconciler stopped")
}

// Tick runs one reconciliation pass. Game groups are probed independently
// with bounded parallelism; a failure in one group never blocks siblings,
// and anything left pending is retried on the next tick.
func (r *Reconciler) Tick(ctx context.Context) {
	metrics.ReconcileTicks.Inc()

	groups, err := r.wagers.PendingGroups(ctx)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		log.Warn().Err(err).Msg("Failed to enumerate pending wagers")
		return
	}
	if len(groups) == 0 {
		log.Debug().Msg("No pending wagers")
		return
	}

	log.Debug().Int("groups", len(groups)).Msg("Checking pending games")

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup
	for _, g := range groups {
		wg.Add(1)
		sem <- struct{}{}
		go func(g model.PendingGroup) {
			defer wg.Done()
			defer func() { <-sem }()
			r.checkGroup(ctx, g)
		}(g)
	}
	wg.Wait()
}

// checkGroup decides one game's fate for this tick: still live, no data
// yet, latest match is a different game, or concluded and settled.
func (r *Reconciler) checkGroup(ctx context.Context, g model.PendingGroup) {
	logger := log.With().Str("game_id", g.GameID).Logger()

	player, err := r.players.GetByID(ctx, g.PlayerID)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		logger.Warn().Err(err).Str("player_id", g.PlayerID).Msg("Failed to load subject player")
		return
	}

	bound := model.ParseGameID(g.GameID)

	live, err := r.provider.ActiveGame(ctx, player.PUUID)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		logger.Warn().Err(err).Msg("Liveness probe failed")
		return
	}
	if live != nil {
		liveID := model.GameID{Platform: live.PlatformID, Numeric: strconv.FormatInt(live.GameID, 10)}
		if bound.Matches(liveID) {
			logger.Debug().Msg("Game still in progress")
			return
		}
	}

	matchIDs, err := r.provider.RecentMatchIDs(ctx, player.PUUID, r.matchWindow)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		logger.Warn().Err(err).Msg("Match history probe failed")
		return
	}
	if len(matchIDs) == 0 {
		logger.Debug().Msg("No match result available yet")
		return
	}

	// Correlate by parsed game id; the provider may lag, or the player may
	// already be queued into newer games.
	var matched string
	for _, id := range matchIDs {
		if bound.Matches(model.ParseGameID(id)) {
			matched = id
			break
		}
	}
	if matched == "" {
		logger.Debug().Strs("recent", matchIDs).Msg("Bound game not in recent matches")
		return
	}

	result, err := r.provider.MatchResultFor(ctx, matched, player.PUUID)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		logger.Warn().Err(err).Str("match_id", matched).Msg("Match result probe failed")
		return
	}
	if result == nil {
		logger.Debug().Str("match_id", matched).Msg("Match details not available yet")
		return
	}

	count, err := r.resolver.ResolveGame(ctx, g.GameID, result.Win)
	if err != nil {
		// Wagers stay pending; the next tick retries.
		metrics.ReconcileErrors.Inc()
		logger.Warn().Err(err).Msg("Settlement failed, will retry next tick")
		return
	}
	if count == 0 {
		return
	}

	logger.Info().
		Int("resolved", count).
		Bool("subject_won", result.Win).
		Msg("Settled wagers for concluded game")

	if err := r.publisher.SettlementResolved(ctx, notify.SettlementEvent{
		GameID:     g.GameID,
		SubjectWon: result.Win,
		Resolved:   count,
		SettledAt:  time.Now(),
	}); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish settlement event")
	}
}
