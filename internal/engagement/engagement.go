// Package engagement implements the interaction-counter and
// engagement-aggregation model shared by posts and reels: idempotent
// membership toggles over per-user interaction sets, append-only comments,
// view/share counting, and recomputation of the derived engagement rate.
//
// All operations are pure: they take a State value and return a new State
// plus a result, so the logic is testable without a database. Loading and
// persisting the state is the repository's job; the surrounding
// read-modify-write cycle carries no cross-writer atomicity guarantee (see
// ContentRepository.SaveState).
package engagement

import (
	"errors"
	"time"

	"quadside/internal/models"
)

// Capability marks which interaction sets a content variant supports.
type Capability uint8

const (
	Likeable Capability = 1 << iota
	Savable
	Repostable
	Commentable
	Shareable
)

// Capability sets per content variant. Reels have no repost concept; their
// share counter is incremented via RecordShare rather than toggled.
const (
	PostCapabilities = Likeable | Savable | Repostable | Commentable
	ReelCapabilities = Likeable | Savable | Commentable | Shareable
)

var (
	// ErrEmptyComment is returned when a comment has no content.
	ErrEmptyComment = errors.New("comment content is required")
	// ErrUnsupportedInteraction is returned when an operation is applied to
	// a content variant that does not carry the matching capability.
	ErrUnsupportedInteraction = errors.New("interaction not supported by this content type")
)

// Entry is one user's membership in an interaction set.
type Entry struct {
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is an entry in the append-only comment sequence.
type Comment struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// State is the interaction-bearing portion of a content item. Likes, Saves
// and Reposts are sets keyed by user ID; Comments preserve insertion order.
type State struct {
	Likes     []Entry
	Saves     []Entry
	Reposts   []Entry
	Comments  []Comment
	Analytics models.Analytics
}

// ToggleResult reports the membership state after a toggle and the updated
// counter for the toggled set.
type ToggleResult struct {
	Active bool
	Count  int
}

// Aggregator applies interaction mutations for one content variant.
type Aggregator struct {
	caps Capability
}

// New returns an Aggregator for the given capability set.
func New(caps Capability) Aggregator {
	return Aggregator{caps: caps}
}

// ForContentType returns the aggregator matching a stored content type.
func ForContentType(t models.ContentType) Aggregator {
	if t == models.ContentTypeReel {
		return New(ReelCapabilities)
	}
	return New(PostCapabilities)
}

// Supports reports whether the aggregator's variant carries the capability.
func (a Aggregator) Supports(c Capability) bool {
	return a.caps&c != 0
}

// ToggleLike flips the user's membership in the like set.
func (a Aggregator) ToggleLike(s State, userID uint, now time.Time) (State, ToggleResult, error) {
	return a.toggle(s, models.InteractionLike, userID, now)
}

// ToggleSave flips the user's membership in the save set.
func (a Aggregator) ToggleSave(s State, userID uint, now time.Time) (State, ToggleResult, error) {
	return a.toggle(s, models.InteractionSave, userID, now)
}

// ToggleRepost flips the user's membership in the repost set. Only content
// variants with the Repostable capability accept it.
func (a Aggregator) ToggleRepost(s State, userID uint, now time.Time) (State, ToggleResult, error) {
	return a.toggle(s, models.InteractionRepost, userID, now)
}

// Toggle flips the user's membership in the set named by kind.
func (a Aggregator) Toggle(s State, kind models.InteractionKind, userID uint, now time.Time) (State, ToggleResult, error) {
	return a.toggle(s, kind, userID, now)
}

func (a Aggregator) toggle(s State, kind models.InteractionKind, userID uint, now time.Time) (State, ToggleResult, error) {
	var required Capability
	switch kind {
	case models.InteractionLike:
		required = Likeable
	case models.InteractionSave:
		required = Savable
	case models.InteractionRepost:
		required = Repostable
	default:
		return s, ToggleResult{}, ErrUnsupportedInteraction
	}
	if !a.Supports(required) {
		return s, ToggleResult{}, ErrUnsupportedInteraction
	}

	next := s.clone()
	set := next.set(kind)
	updated, active := toggleEntry(*set, userID, now)
	*set = updated

	next.reconcileCounters()
	next.recompute(now)

	return next, ToggleResult{Active: active, Count: len(updated)}, nil
}

// AppendComment appends a comment and updates the comment counter. The
// comment ID is assigned by the persistence layer on save; it is zero here.
func (a Aggregator) AppendComment(s State, userID uint, content string, now time.Time) (State, Comment, error) {
	if !a.Supports(Commentable) {
		return s, Comment{}, ErrUnsupportedInteraction
	}
	if content == "" {
		return s, Comment{}, ErrEmptyComment
	}

	next := s.clone()
	comment := Comment{UserID: userID, Content: content, CreatedAt: now}
	next.Comments = append(next.Comments, comment)

	next.reconcileCounters()
	next.recompute(now)

	return next, comment, nil
}

// RecordView increments the view counter and folds watchSeconds into the
// running average watch time. A zero watchSeconds still counts the view.
func (a Aggregator) RecordView(s State, watchSeconds float64, now time.Time) State {
	next := s.clone()
	next.Analytics.TotalViews++
	views := float64(next.Analytics.TotalViews)
	next.Analytics.AverageWatchTime = (next.Analytics.AverageWatchTime*(views-1) + watchSeconds) / views
	next.recompute(now)
	return next
}

// RecordShare increments the share counter for shareable variants. Shares
// are a plain counter, not a per-user toggle set.
func (a Aggregator) RecordShare(s State, now time.Time) (State, error) {
	if !a.Supports(Shareable) {
		return s, ErrUnsupportedInteraction
	}
	next := s.clone()
	next.Analytics.TotalShares++
	next.recompute(now)
	return next, nil
}

// set returns a pointer to the interaction set for kind. Callers have
// already validated the kind.
func (s *State) set(kind models.InteractionKind) *[]Entry {
	switch kind {
	case models.InteractionSave:
		return &s.Saves
	case models.InteractionRepost:
		return &s.Reposts
	default:
		return &s.Likes
	}
}

// reconcileCounters rewrites the set-backed counters from set cardinality.
// This keeps the counters equal to |set| after every mutation and clamps
// them at zero even if a previously persisted counter had drifted.
func (s *State) reconcileCounters() {
	s.Analytics.TotalLikes = len(s.Likes)
	s.Analytics.TotalSaves = len(s.Saves)
	s.Analytics.TotalReposts = len(s.Reposts)
	s.Analytics.TotalComments = len(s.Comments)
}

// recompute refreshes the engagement rate from the current counters.
// Rate is interactions-per-view as a percentage; zero views means zero rate.
// It can exceed 100 for heavily engaged items.
func (s *State) recompute(now time.Time) {
	a := &s.Analytics
	if a.TotalViews > 0 {
		interactions := a.TotalLikes + a.TotalComments + a.TotalSaves + a.TotalReposts
		a.EngagementRate = float64(interactions) / float64(a.TotalViews) * 100
	} else {
		a.EngagementRate = 0
	}
	a.LastUpdated = now
}

// clone copies the state so mutations never alias the caller's slices.
func (s State) clone() State {
	out := s
	out.Likes = append([]Entry(nil), s.Likes...)
	out.Saves = append([]Entry(nil), s.Saves...)
	out.Reposts = append([]Entry(nil), s.Reposts...)
	out.Comments = append([]Comment(nil), s.Comments...)
	return out
}

// toggleEntry removes the user's entry if present, otherwise appends one.
// The second return value is the resulting membership state.
func toggleEntry(entries []Entry, userID uint, now time.Time) ([]Entry, bool) {
	for i, e := range entries {
		if e.UserID == userID {
			return append(entries[:i], entries[i+1:]...), false
		}
	}
	return append(entries, Entry{UserID: userID, CreatedAt: now}), true
}

// Contains reports whether the user is a member of the given entry set.
func Contains(entries []Entry, userID uint) bool {
	for _, e := range entries {
		if e.UserID == userID {
			return true
		}
	}
	return false
}
