package out

import (
	"context"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"elearn/internal/modules/schedule/domain"
	scheduleout "elearn/internal/modules/schedule/port/out"
	"elearn/internal/platform/config"
	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/logging"
	"elearn/internal/platform/siren"
	"elearn/internal/platform/transport"
)

type HTTPSource struct {
	client    transport.Client
	endpoints config.Endpoints
	logger    hclog.Logger
}

func NewHTTPSource(client transport.Client, endpoints config.Endpoints, logger hclog.Logger) scheduleout.Source {
	return &HTTPSource{client: client, endpoints: endpoints, logger: logging.OrDiscard(logger).Named("schedule-source")}
}

func (s *HTTPSource) Deadlines(ctx context.Context, token, orgID string) (domain.Node, error) {
	payload, err := s.fetch(ctx, s.endpoints.Sequence(orgID), token)
	if err != nil {
		return domain.Node{}, err
	}
	root, err := siren.Decode(payload)
	if err != nil {
		return domain.Node{}, err
	}
	return domain.NodeFromEntity(root), nil
}

func (s *HTTPSource) Grades(ctx context.Context, token, orgID, userID string) ([]domain.GradeItem, error) {
	payload, err := s.fetch(ctx, s.endpoints.Grades(orgID, userID), token)
	if err != nil {
		return nil, err
	}
	items, dropped, err := domain.DecodeGradeItems(payload)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		s.logger.Debug("dropped malformed grade items", "course", orgID, "count", dropped)
	}
	return items, nil
}

func (s *HTTPSource) CalendarEvents(ctx context.Context, token, orgID string) ([]domain.CalendarEvent, error) {
	payload, err := s.fetch(ctx, s.endpoints.Calendar(orgID), token)
	if err != nil {
		return nil, err
	}
	events, dropped, err := domain.DecodeCalendarEvents(payload)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		s.logger.Debug("dropped malformed calendar events", "course", orgID, "count", dropped)
	}
	return events, nil
}

func (s *HTTPSource) fetch(ctx context.Context, url, token string) ([]byte, error) {
	res, err := s.client.Get(ctx, url, transport.Bearer(token))
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("%w: %s returned status %d", apperrors.ErrTransport, url, res.Status)
	}
	return res.Body, nil
}
