package messages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
	"github.com/agrilinkhq/agrilink-backend/pkg/pagination"
)

// Service defines the chat feed operations.
type Service interface {
	List(ctx context.Context, actor orders.Actor, params pagination.Params) (*MessageList, error)
	Post(ctx context.Context, actor orders.Actor, req PostMessageRequest) (*MessageDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a messages service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("messages repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, actor orders.Actor, params pagination.Params) (*MessageList, error) {
	if strings.TrimSpace(actor.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	// No limit means the whole feed, newest first. With a limit we fetch one
	// extra row to detect the next page.
	limit := 0
	if params.Limit > 0 {
		limit = pagination.LimitWithBuffer(params.Limit)
	}

	rows, err := s.repo.List(ctx, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	nextCursor := ""
	if limit > 0 && len(rows) == limit {
		rows = rows[:limit-1]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.Timestamp,
			ID:        last.ID,
		})
	}

	out := make([]MessageDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return &MessageList{Messages: out, NextCursor: nextCursor}, nil
}

func (s *service) Post(ctx context.Context, actor orders.Actor, req PostMessageRequest) (*MessageDTO, error) {
	if strings.TrimSpace(actor.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	sender := strings.ToLower(strings.TrimSpace(req.SenderEmail))
	if sender != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "sender must match the authenticated user")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}

	message := &models.ChatMessage{
		ID:          uuid.New(),
		SenderEmail: sender,
		Content:     content,
		Timestamp:   time.Now(),
	}
	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save message")
	}

	dto := toDTO(*created)
	return &dto, nil
}

func toDTO(message models.ChatMessage) MessageDTO {
	return MessageDTO{
		ID:          message.ID,
		SenderEmail: message.SenderEmail,
		Content:     message.Content,
		Timestamp:   message.Timestamp,
	}
}
