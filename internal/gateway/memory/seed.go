package memory

import (
	"time"

	"github.com/nhle/iboite/internal/model"
)

// Seed fills the backend with demo conversations relative to now.
func (b *Backend) Seed(now time.Time) {
	b.mu.Lock()
	self := b.self
	b.mu.Unlock()

	questeur := model.Participant{ID: "p-questeur", Name: "Questure", Role: "administration"}
	collegue := model.Participant{ID: "p-ndong", Name: "Hon. Ndong", Role: "député"}
	maire := model.Participant{ID: "p-maire", Name: "Mairie d'Owendo", Role: "collectivité"}

	b.AddConversation(
		model.Conversation{
			ID:           "conv-budget",
			Subject:      "Amendements au projet de loi de finances",
			Participants: []model.Participant{self, collegue},
			UnreadCount:  2,
		},
		model.Message{ID: "m-b1", Author: self, Body: "Je vous transmets mes propositions d'amendements.", SentAt: now.Add(-5 * time.Hour)},
		model.Message{ID: "m-b2", Author: collegue, Body: "Merci, je les relis ce soir.", SentAt: now.Add(-3 * time.Hour)},
		model.Message{ID: "m-b3", Author: collegue, Body: "Deux points à revoir sur l'article 12.", SentAt: now.Add(-1 * time.Hour)},
	)
	b.AddConversation(
		model.Conversation{
			ID:           "conv-questure",
			Subject:      "Frais de mission",
			Participants: []model.Participant{self, questeur},
			UnreadCount:  1,
		},
		model.Message{ID: "m-q1", Author: questeur, Body: "Merci de transmettre vos justificatifs avant vendredi.", SentAt: now.Add(-26 * time.Hour)},
	)
	b.AddConversation(
		model.Conversation{
			ID:           "conv-owendo",
			Subject:      "Visite de circonscription",
			Participants: []model.Participant{self, maire},
		},
		model.Message{ID: "m-o1", Author: maire, Body: "Nous confirmons la date du 14.", SentAt: now.Add(-72 * time.Hour)},
		model.Message{ID: "m-o2", Author: self, Body: "Parfait, à bientôt.", SentAt: now.Add(-70 * time.Hour)},
	)
	b.AddConversation(
		model.Conversation{
			ID:           "conv-archive",
			Subject:      "Session extraordinaire 2025",
			Participants: []model.Participant{self, questeur},
			Archived:     true,
		},
		model.Message{ID: "m-a1", Author: questeur, Body: "Le compte rendu est disponible.", SentAt: now.AddDate(0, -2, 0)},
	)
}
