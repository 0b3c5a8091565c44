package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/iboite/internal/model"
)

// MemoryLetterStore is an in-memory LetterStore. Letters keep their
// insertion order; mutations never re-sort.
type MemoryLetterStore struct {
	mu      sync.RWMutex
	letters []model.Letter
	index   map[string]int
}

// NewMemoryLetterStore creates an empty letter store.
func NewMemoryLetterStore() *MemoryLetterStore {
	return &MemoryLetterStore{index: make(map[string]int)}
}

// Add inserts a letter. Generates a UUID if ID is empty and derives the
// stamp color from urgency.
func (s *MemoryLetterStore) Add(letter model.Letter) model.Letter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if letter.ID == "" {
		letter.ID = uuid.New().String()
	}
	if letter.Folder == "" {
		letter.Folder = model.FolderInbox
	}
	if letter.Urgency == "" {
		letter.Urgency = model.UrgencyStandard
	}
	if letter.CreatedAt.IsZero() {
		letter.CreatedAt = time.Now().UTC()
	}
	letter.StampColor = model.StampColorFor(letter.Urgency)

	if i, ok := s.index[letter.ID]; ok {
		s.letters[i] = letter
		return letter
	}
	s.index[letter.ID] = len(s.letters)
	s.letters = append(s.letters, letter)
	return letter
}

// List returns the account's letters in folder.
func (s *MemoryLetterStore) List(accountID string, folder model.Folder) []model.Letter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Letter{}
	for _, l := range s.letters {
		if l.AccountID == accountID && l.Folder == folder {
			out = append(out, l)
		}
	}
	return out
}

// Get retrieves a single letter by its ID.
func (s *MemoryLetterStore) Get(id string) (model.Letter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Letter{}, &model.NotFoundError{Kind: "letter", ID: id}
	}
	return s.letters[i], nil
}

// MoveToFolder reassigns the letter to target. Moving into sent, or out of
// a terminal folder, fails with model.ErrInvalidTransition.
func (s *MemoryLetterStore) MoveToFolder(id string, target model.Folder) (model.Letter, error) {
	if _, err := model.ParseFolder(string(target)); err != nil {
		return model.Letter{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Letter{}, &model.NotFoundError{Kind: "letter", ID: id}
	}

	current := s.letters[i].Folder
	if !current.CanMoveTo(target) {
		return model.Letter{}, fmt.Errorf(
			"moving letter %s from %s to %s: %w",
			id, current, target, model.ErrInvalidTransition,
		)
	}

	s.letters[i].Folder = target
	return s.letters[i], nil
}

// MarkRead sets the read flag of a letter.
func (s *MemoryLetterStore) MarkRead(id string) (model.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Letter{}, &model.NotFoundError{Kind: "letter", ID: id}
	}
	s.letters[i].Read = true
	return s.letters[i], nil
}

// UnreadCount counts unread letters in the account's inbox. Pending and
// trash are triage states and never count toward the badge.
func (s *MemoryLetterStore) UnreadCount(accountID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, l := range s.letters {
		if l.AccountID == accountID && l.Folder == model.FolderInbox && !l.Read {
			n++
		}
	}
	return n
}

// FolderCounts returns the number of letters in each folder of the account.
func (s *MemoryLetterStore) FolderCounts(accountID string) map[model.Folder]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.Folder]int, len(model.Folders))
	for _, f := range model.Folders {
		counts[f] = 0
	}
	for _, l := range s.letters {
		if l.AccountID == accountID {
			counts[l.Folder]++
		}
	}
	return counts
}
