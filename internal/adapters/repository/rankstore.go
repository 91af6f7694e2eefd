package repository

import (
	"context"
	"math"
	"sync"

	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

// Treap-based, in-memory RankStore implementation.
//
// Ordering: rating DESC, then playerID ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so an in-order traversal
// walks the leaderboard from best to worst.

// ratingScale converts ratings to fixed point so equality and ordering
// are exact. Ratings live in [0, 20] with one displayed decimal, so six
// decimals of headroom is plenty.
const ratingScale = 1_000_000

type ratingFP int64

func toFixedPoint(x float64) ratingFP {
	if math.IsNaN(x) {
		return 0
	}
	return ratingFP(math.Round(x * ratingScale))
}

func toFloat(x ratingFP) float64 {
	return float64(x) / ratingScale
}

// record stores the fixed-point rating plus display metadata.
type record struct {
	rating ratingFP
	name   string
}

// treap node
type node struct {
	id     string
	rating ratingFP
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aRating, aID) ranks earlier than (bRating, bID).
func less(aRating ratingFP, aID string, bRating ratingFP, bID string) bool {
	if aRating != bRating {
		return aRating > bRating // higher rating ranks earlier
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// ratingToPriority keeps higher ratings near the treap root. The offset
// shifts negative fixed-point values into the unsigned range.
func ratingToPriority(rating ratingFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(rating) + offset
}

func insert(n *node, id string, rating ratingFP) *node {
	if n == nil {
		return &node{id: id, rating: rating, prio: ratingToPriority(rating), size: 1}
	}
	if less(rating, id, n.rating, n.id) {
		n.left = insert(n.left, id, rating)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, rating)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, rating ratingFP) *node {
	if n == nil {
		return nil
	}
	if rating == n.rating && id == n.id {
		// Merge children by rotating the higher priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, rating)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, rating)
		}
	} else if less(rating, id, n.rating, n.id) {
		n.left = deleteNode(n.left, id, rating)
	} else {
		n.right = deleteNode(n.right, id, rating)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, records, out)

	if len(*out) < limit {
		if rec, ok := records[n.id]; ok {
			*out = append(*out, Entry{
				PlayerID:   n.id,
				PlayerName: rec.name,
				Rating:     toFloat(rec.rating),
			})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// collectAll appends every entry in rank order.
func collectAll(n *node, records map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, records, out)
	if rec, ok := records[n.id]; ok {
		*out = append(*out, Entry{
			PlayerID:   n.id,
			PlayerName: rec.name,
			Rating:     toFloat(rec.rating),
		})
	}
	collectAll(n.right, records, out)
}

// assignRanksWithTies assigns ranks over entries already in rank order.
// Players with the same rating share a rank; the next distinct rating
// takes the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	currentRank := 1
	for i := 0; i < len(entries); {
		j := i
		for j < len(entries) && entries[j].Rating == entries[i].Rating {
			entries[j].Rank = currentRank
			j++
		}
		currentRank++
		i = j
	}
}

// TreapRankStore is the in-memory RankStore used for overall player
// ratings. Expected O(log n) updates, O(n) rank reads.
type TreapRankStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]record
}

// NewTreapRankStore constructs an empty rank store.
func NewTreapRankStore() *TreapRankStore {
	return &TreapRankStore{
		byID: make(map[string]record),
	}
}

// UpdateRating implements RankStore.UpdateRating. Unlike a best-score
// leaderboard, ratings replace the previous value in both directions:
// an overall rating drops when weaker matches load.
func (s *TreapRankStore) UpdateRating(ctx context.Context, playerID, playerName string, rating float64) (bool, error) {
	fp := toFixedPoint(rating)

	s.mu.Lock()
	old, existed := s.byID[playerID]
	if existed {
		if fp == old.rating && playerName == old.name {
			s.mu.Unlock()
			return false, nil
		}
		s.root = deleteNode(s.root, playerID, old.rating)
	}
	s.byID[playerID] = record{rating: fp, name: playerName}
	s.root = insert(s.root, playerID, fp)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.RecordRatingUpdate()
	if !existed {
		metrics.UpdateRatedPlayers(count)
	}
	return true, nil
}

// Rank returns the current rank and rating for a player.
func (s *TreapRankStore) Rank(ctx context.Context, playerID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[playerID]; !ok {
		return Entry{}, ErrNotFound
	}

	// In-order traversal already yields rank order; ties then share
	// ranks the way the leaderboard displays them.
	entries := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &entries)
	assignRanksWithTies(entries)

	for _, entry := range entries {
		if entry.PlayerID == playerID {
			return entry, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the top-N entries ordered by rating desc.
func (s *TreapRankStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of rated players.
func (s *TreapRankStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
