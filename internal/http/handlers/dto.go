package handlers

import (
	"time"

	"collect/internal/domain"
)

type collectionDTO struct {
	ID               string       `json:"id"`
	AuthorID         string       `json:"author_id"`
	Title            string       `json:"title"`
	Purpose          string       `json:"purpose"`
	Description      string       `json:"description"`
	TargetAmount     *string      `json:"target_amount"`
	CurrentAmount    string       `json:"current_amount"`
	ParticipantCount int          `json:"participant_count"`
	LimitStatus      string       `json:"limit_status"`
	CreatedAt        time.Time    `json:"created_at"`
	ClosedAt         *time.Time   `json:"closed_at"`
	Payments         []paymentDTO `json:"payments,omitempty"`
}

type paymentDTO struct {
	ID           string    `json:"id"`
	PayerID      *string   `json:"payer_id"`
	CollectionID string    `json:"collection_id"`
	Amount       string    `json:"amount"`
	Timestamp    time.Time `json:"timestamp"`
}

func toCollectionDTO(c domain.Collection) collectionDTO {
	dto := collectionDTO{
		ID:               c.ID.String(),
		AuthorID:         c.AuthorID.String(),
		Title:            c.Title,
		Purpose:          string(c.Purpose),
		Description:      c.Description,
		CurrentAmount:    c.CurrentAmount.StringFixed(2),
		ParticipantCount: c.ParticipantCount,
		LimitStatus:      "Unlimited",
		CreatedAt:        c.CreatedAt,
		ClosedAt:         c.ClosedAt,
	}
	if c.TargetAmount != nil {
		target := c.TargetAmount.StringFixed(2)
		dto.TargetAmount = &target
		dto.LimitStatus = "Target: " + target
	}
	return dto
}

func toPaymentDTO(p domain.Payment) paymentDTO {
	dto := paymentDTO{
		ID:           p.ID.String(),
		CollectionID: p.CollectionID.String(),
		Amount:       p.Amount.StringFixed(2),
		Timestamp:    p.CreatedAt,
	}
	if p.PayerID != nil {
		payer := p.PayerID.String()
		dto.PayerID = &payer
	}
	return dto
}

func toPaymentDTOs(items []domain.Payment) []paymentDTO {
	out := make([]paymentDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toPaymentDTO(p))
	}
	return out
}
