package store

import (
	"fmt"
	"time"

	"github.com/nhle/iboite/internal/model"
)

// SeedDemo fills the letter and parcel stores with sample correspondence
// for every account. It stands in for inbound delivery, which lives outside
// this application.
func SeedDemo(letters LetterStore, parcels ParcelStore, accounts []model.Account, now time.Time) {
	for i, a := range accounts {
		seedLetters(letters, a, now.Add(-time.Duration(i)*time.Hour))
		seedParcels(parcels, a, i, now)
	}
}

func seedLetters(letters LetterStore, a model.Account, now time.Time) {
	due := now.AddDate(0, 0, 7)
	home := a.Address.String()

	samples := []model.Letter{
		{
			Folder:           model.FolderInbox,
			Sender:           "Secrétariat général de l'Assemblée",
			SenderAddress:    "Palais Léon Mba, BP 29, Libreville",
			Subject:          "Convocation en séance plénière",
			Body:             "Vous êtes convoqué(e) à la séance plénière consacrée à l'examen du projet de loi de finances.",
			Urgency:          model.UrgencyActionRequired,
			DueDate:          &due,
			Attachments:      []model.Attachment{{Name: "ordre-du-jour.pdf", Size: 184_320}},
			CreatedAt:        now.Add(-72 * time.Hour),
		},
		{
			Folder:    model.FolderInbox,
			Sender:    "Commission des finances",
			Subject:   "Rapport d'étape sur le budget",
			Body:      "Veuillez trouver ci-joint le rapport d'étape de la commission.",
			Urgency:   model.UrgencyInformational,
			CreatedAt: now.Add(-48 * time.Hour),
			Attachments: []model.Attachment{
				{Name: "rapport.pdf", Size: 1_048_576},
				{Name: "annexes.xlsx", Size: 65_536},
			},
		},
		{
			Folder:    model.FolderInbox,
			Sender:    "Mairie de Libreville",
			Subject:   "Invitation à la cérémonie d'ouverture",
			Body:      "Nous avons l'honneur de vous inviter à la cérémonie d'ouverture du marché municipal.",
			Urgency:   model.UrgencyStandard,
			Read:      true,
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			Folder:    model.FolderPending,
			Sender:    "Association des riverains",
			Subject:   "Demande d'audience",
			Body:      "Les riverains du quartier sollicitent une audience au sujet de l'assainissement.",
			Urgency:   model.UrgencyActionRequired,
			CreatedAt: now.Add(-96 * time.Hour),
		},
		{
			Folder:    model.FolderSent,
			Sender:    a.Name,
			Subject:   "Réponse à la question écrite n°42",
			Body:      "Suite à votre question écrite, je vous prie de trouver les éléments de réponse.",
			Urgency:   model.UrgencyStandard,
			Read:      true,
			CreatedAt: now.Add(-120 * time.Hour),
		},
		{
			Folder:    model.FolderTrash,
			Sender:    "Service communication",
			Subject:   "Lettre d'information hebdomadaire",
			Body:      "Retrouvez l'actualité parlementaire de la semaine.",
			Urgency:   model.UrgencyInformational,
			CreatedAt: now.Add(-240 * time.Hour),
		},
	}

	for _, l := range samples {
		l.AccountID = a.ID
		if l.Folder == model.FolderSent {
			l.SenderAddress = home
			l.Recipient = "Ministère de l'Intérieur"
			l.RecipientAddress = "BP 2110, Libreville"
		} else {
			l.Recipient = a.Name
			l.RecipientAddress = home
		}
		letters.Add(l)
	}
}

func seedParcels(parcels ParcelStore, a model.Account, offset int, now time.Time) {
	eta := now.Add(36 * time.Hour)
	samples := []model.Parcel{
		{Sender: "Imprimerie nationale", Description: "Recueil des textes adoptés", Status: model.ParcelAvailable},
		{Sender: "La Poste gabonaise", Description: "Colis documentaire", Status: model.ParcelTransit, EstimatedDelivery: &eta},
		{Sender: "Bibliothèque de l'Assemblée", Description: "Ouvrages empruntés", Status: model.ParcelDelivered},
		{Sender: "Ambassade de France", Description: "Pli diplomatique", Status: model.ParcelPending},
	}
	for i, p := range samples {
		p.AccountID = a.ID
		p.TrackingNumber = fmt.Sprintf("GA%03d%04dLBV", offset, i+1)
		parcels.Add(p)
	}
}
