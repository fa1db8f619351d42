package knowledge

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultSimilarity is the ratio at or above which two questions count as the same.
const DefaultSimilarity = 0.85

// Recorder applies the knowledge base admission rules on top of a Store.
type Recorder struct {
	store  Store
	cutoff float64
	now    func() time.Time
	mu     sync.Mutex
}

// NewRecorder wraps store. A cutoff outside (0, 1] selects DefaultSimilarity.
func NewRecorder(store Store, cutoff float64) *Recorder {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultSimilarity
	}
	return &Recorder{store: store, cutoff: cutoff, now: time.Now}
}

// RecordQuestion stores a question unless the same text (ignoring case) is already present.
func (r *Recorder) RecordQuestion(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.store.Questions(ctx, KindQuestion)
	if err != nil {
		return err
	}
	lower := strings.ToLower(question)
	for _, q := range existing {
		if strings.ToLower(q) == lower {
			return ErrDuplicate
		}
	}
	return r.store.Insert(ctx, r.record(KindQuestion, question, ""))
}

// RecordExchange stores a question with its answer unless an earlier answered question is
// similar enough.
func (r *Recorder) RecordExchange(ctx context.Context, question, answer string) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.store.Questions(ctx, KindQA)
	if err != nil {
		return err
	}
	if _, ok := ClosestMatch(question, existing, r.cutoff); ok {
		return ErrDuplicate
	}
	return r.store.Insert(ctx, r.record(KindQA, question, answer))
}

func (r *Recorder) record(kind Kind, question, answer string) Record {
	return Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		Question:  question,
		Answer:    answer,
		CreatedAt: r.now(),
	}
}

// ClosestMatch returns the candidate most similar to target when its ratio reaches cutoff.
// Comparison ignores case.
func ClosestMatch(target string, candidates []string, cutoff float64) (string, bool) {
	best, bestScore := "", -1.0
	t := strings.ToLower(target)
	for _, c := range candidates {
		score := Ratio(strings.ToLower(c), t)
		if score >= cutoff && score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore >= 0
}

// Ratio is the difflib similarity of a and b compared rune by rune.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
