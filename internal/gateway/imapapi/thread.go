package imapapi

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/iboite/internal/model"
)

var threadNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://iboite.ga/threads"))

// replyPrefixes are stripped (case-insensitively, repeatedly) from subjects.
var replyPrefixes = []string{"re:", "fwd:", "fw:", "tr:", "réf:"}

// NormalizeSubject reduces a subject to the form shared by every message
// of its thread.
func NormalizeSubject(subject string) string {
	s := strings.TrimSpace(subject)
	for {
		lower := strings.ToLower(s)
		stripped := false
		for _, p := range replyPrefixes {
			if strings.HasPrefix(lower, p) {
				s = strings.TrimSpace(s[len(p):])
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// ThreadID returns the stable conversation id of a subject.
func ThreadID(subject string) string {
	key := strings.ToLower(NormalizeSubject(subject))
	return uuid.NewSHA1(threadNamespace, []byte(key)).String()
}

// thread is a group of envelopes sharing a normalized subject.
type thread struct {
	id        string
	envelopes []Envelope // oldest first
}

// groupThreads buckets envelopes by thread, each bucket ordered oldest
// first, and returns the threads most recently updated first.
func groupThreads(envs []Envelope) []thread {
	byID := make(map[string]*thread)
	var order []*thread
	for _, e := range envs {
		id := ThreadID(e.Subject)
		t, ok := byID[id]
		if !ok {
			t = &thread{id: id}
			byID[id] = t
			order = append(order, t)
		}
		t.envelopes = append(t.envelopes, e)
	}

	out := make([]thread, 0, len(order))
	for _, t := range order {
		sort.SliceStable(t.envelopes, func(i, j int) bool {
			return t.envelopes[i].Date.Before(t.envelopes[j].Date)
		})
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].latest().Date.After(out[j].latest().Date)
	})
	return out
}

func (t thread) latest() Envelope {
	return t.envelopes[len(t.envelopes)-1]
}

// conversation summarizes the thread. Excerpts are not available from
// envelopes alone, so the summary carries the subject of the last message.
func (t thread) conversation(archived bool) model.Conversation {
	last := t.latest()
	c := model.Conversation{
		ID:        t.id,
		Subject:   NormalizeSubject(t.envelopes[0].Subject),
		UpdatedAt: last.Date,
		Archived:  archived,
		LastMessage: &model.MessageSummary{
			Author:  displayName(last.FromName, last.FromAddr),
			Excerpt: last.Subject,
			SentAt:  last.Date,
		},
	}

	seen := make(map[string]bool)
	for _, e := range t.envelopes {
		if !e.Seen {
			c.UnreadCount++
		}
		if e.FromAddr != "" && !seen[e.FromAddr] {
			seen[e.FromAddr] = true
			c.Participants = append(c.Participants, model.Participant{
				ID:   e.FromAddr,
				Name: displayName(e.FromName, e.FromAddr),
			})
		}
	}
	return c
}

// replyTargets returns the addresses a reply to the thread goes to: every
// participant except self.
func (t thread) replyTargets(self string) []string {
	seen := map[string]bool{strings.ToLower(self): true}
	var out []string
	add := func(addr string) {
		key := strings.ToLower(addr)
		if addr == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, addr)
	}
	for _, e := range t.envelopes {
		add(e.FromAddr)
		for _, to := range e.To {
			add(to)
		}
	}
	return out
}

func displayName(name, addr string) string {
	if name != "" {
		return name
	}
	return addr
}
