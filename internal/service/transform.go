package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"stringvault/internal/model"
)

// Outcomes of the one-time-reveal protocol. The first three are policy
// results, not failures; callers pick the page to render with errors.Is.
var (
	ErrNoMatch         = errors.New("no matching pattern")
	ErrAlreadyAccessed = errors.New("pattern already accessed from this address")
	ErrLocked          = errors.New("entry already viewed")
	ErrNotFound        = errors.New("entry not found")
)

type PatternStore interface {
	FindPatternByInput(ctx context.Context, input string) (*model.Pattern, error)
}

type EntryStore interface {
	GetEntry(ctx context.Context, id int64) (*model.Entry, error)
	FindAccessedEntry(ctx context.Context, ip, input string) (*model.Entry, error)
	CreateEntry(ctx context.Context, input, transformed, ip string) (int64, error)
	ResetEntry(ctx context.Context, id int64) error
	MarkAccessed(ctx context.Context, id int64) (bool, error)
}

// Reveal is the disclosed result of a successful view.
type Reveal struct {
	Input  string
	Output string
}

// TransformService resolves submitted strings against the pattern table and
// enforces the one-reveal-per-(IP, input) protocol. It holds no state between
// requests; every decision is a read-then-write against the store.
type TransformService struct {
	patterns PatternStore
	entries  EntryStore
}

func NewTransformService(patterns PatternStore, entries EntryStore) *TransformService {
	return &TransformService{patterns: patterns, entries: entries}
}

// Resolve normalizes the input to lowercase and looks it up against the
// pattern table. Exact match only; side-effect free.
func (s *TransformService) Resolve(ctx context.Context, rawInput string) (string, error) {
	p, err := s.patterns.FindPatternByInput(ctx, strings.ToLower(rawInput))
	if err != nil {
		return "", fmt.Errorf("pattern lookup: %w", err)
	}
	if p == nil {
		return "", ErrNoMatch
	}
	return p.OutputPattern, nil
}

// Submit runs the submission half of the protocol and returns the id of the
// entry the caller should redirect to. The transformed value is never
// returned here; only View discloses it.
//
// A pending reaccess grant is consumed at this point, not at view time: the
// revealed entry is reset in place and its identity reused.
func (s *TransformService) Submit(ctx context.Context, rawInput, clientIP string) (int64, error) {
	input := strings.ToLower(rawInput)

	transformed, err := s.Resolve(ctx, rawInput)
	if err != nil {
		return 0, err
	}

	existing, err := s.entries.FindAccessedEntry(ctx, clientIP, input)
	if err != nil {
		return 0, fmt.Errorf("entry lookup: %w", err)
	}

	if existing != nil {
		if !existing.Reaccessible {
			return 0, ErrAlreadyAccessed
		}
		if err := s.entries.ResetEntry(ctx, existing.ID); err != nil {
			return 0, fmt.Errorf("entry reset: %w", err)
		}
		log.Printf("Reset entry #%d for reaccess (ip=%s)", existing.ID, clientIP)
		return existing.ID, nil
	}

	id, err := s.entries.CreateEntry(ctx, input, transformed, clientIP)
	if err != nil {
		return 0, fmt.Errorf("entry create: %w", err)
	}
	log.Printf("Created entry #%d (ip=%s)", id, clientIP)
	return id, nil
}

// View discloses the transformed value for an entry at most once. The flip
// to accessed is a conditional update, so of any number of concurrent views
// exactly one succeeds and the rest see ErrLocked.
func (s *TransformService) View(ctx context.Context, id int64) (*Reveal, error) {
	entry, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("entry fetch: %w", err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}

	if entry.Accessed && !entry.Reaccessible {
		return nil, ErrLocked
	}

	ok, err := s.entries.MarkAccessed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("entry update: %w", err)
	}
	if !ok {
		// Lost the race against another view of the same entry
		return nil, ErrLocked
	}

	return &Reveal{Input: entry.InputString, Output: entry.TransformedString}, nil
}
