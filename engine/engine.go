package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Engine runs one team's suggestion regeneration: load snapshot, enumerate
// candidates, filter, score, rank, persist. A run is a single synchronous
// computation; runs for the same team are serialized, different teams proceed
// independently.
type Engine struct {
	repo   Repository
	cfg    Config
	logger *logrus.Logger

	mu        sync.Mutex
	teamLocks map[string]*sync.Mutex
}

func New(repo Repository, cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		repo:      repo,
		cfg:       cfg.withDefaults(),
		logger:    logger,
		teamLocks: make(map[string]*sync.Mutex),
	}
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Result is the outcome of one regeneration run. An empty Suggestions slice
// is a valid outcome meaning no slot satisfies the current rules.
type Result struct {
	SuggestionCount int          `json:"suggestion_count"`
	Suggestions     []Suggestion `json:"suggestions"`
	Version         int          `json:"version"`
}

// Generate regenerates the team's suggestion set using now as the reference
// instant. The full set is replaced atomically; on any error no partial set
// is left behind.
func (e *Engine) Generate(ctx context.Context, teamID string, now time.Time) (*Result, error) {
	lock := e.lockFor(teamID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := e.repo.LoadTeamSnapshot(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load team %s: %w", teamID, err)
	}
	if snap.Rules == nil {
		return nil, ErrTeamNotConfigured
	}
	if len(snap.Members) == 0 {
		return nil, ErrNoMembers
	}
	rules := *snap.Rules

	refLoc := e.referenceZone(teamID, snap.DefaultTimezone)
	zones := e.resolveMemberZones(teamID, snap.Members)

	starts := GenerateCandidateSlots(rules, now, refLoc, e.cfg)
	if len(starts) > e.cfg.MaxCandidates {
		starts = starts[:e.cfg.MaxCandidates]
	}

	nightCounts := NightCounts(snap.Members, zones, snap.History, now.Add(-e.cfg.FairnessLookback))
	fairness := FairnessScore(nightCounts)

	feasible := filterCandidates(starts, rules, snap.Members, zones)
	applyPenalties(feasible, rules, snap.Members, zones, nightCounts)
	top := Rank(feasible, e.cfg.MaxSuggestions)

	suggestions := make([]Suggestion, 0, len(top))
	for _, c := range top {
		suggestions = append(suggestions, Suggestion{
			StartsAtUTC:        c.StartsAt.UTC(),
			EndsAtUTC:          c.EndsAt.UTC(),
			AttendingMemberIDs: c.AttendingMemberIDs,
			OverlapRatio:       c.OverlapRatio,
			FairnessScore:      fairness,
			Penalties:          c.Penalties,
		})
	}

	version, err := e.repo.ReplaceSuggestions(ctx, teamID, suggestions)
	if err != nil {
		return nil, fmt.Errorf("persist suggestions for team %s: %w", teamID, err)
	}
	for i := range suggestions {
		suggestions[i].Version = version
	}

	e.logger.WithFields(logrus.Fields{
		"team_id":     teamID,
		"candidates":  len(starts),
		"feasible":    len(feasible),
		"suggestions": len(suggestions),
		"version":     version,
		"fairness":    fairness,
	}).Info("suggestion set regenerated")

	return &Result{
		SuggestionCount: len(suggestions),
		Suggestions:     suggestions,
		Version:         version,
	}, nil
}

// referenceZone resolves the team's default timezone for candidate
// generation, falling back to UTC when unset or unresolvable.
func (e *Engine) referenceZone(teamID, name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := ResolveZone(name)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"team_id":  teamID,
			"timezone": name,
		}).Warn("invalid team timezone, generating in UTC")
		return time.UTC
	}
	return loc
}

// resolveMemberZones resolves each member's zone once per run. A member whose
// zone fails to resolve maps to nil and is treated as unavailable for every
// slot; the run degrades instead of aborting.
func (e *Engine) resolveMemberZones(teamID string, members []Member) map[string]*time.Location {
	zones := make(map[string]*time.Location, len(members))
	for _, m := range members {
		loc, err := ResolveZone(m.Timezone)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"team_id":   teamID,
				"member_id": m.ID,
				"timezone":  m.Timezone,
			}).Warn("member timezone unresolvable, treating member as unavailable")
			zones[m.ID] = nil
			continue
		}
		zones[m.ID] = loc
	}
	return zones
}

func (e *Engine) lockFor(teamID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.teamLocks[teamID]
	if !ok {
		lock = &sync.Mutex{}
		e.teamLocks[teamID] = lock
	}
	return lock
}
