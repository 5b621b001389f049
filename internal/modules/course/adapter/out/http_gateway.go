package out

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	hclog "github.com/hashicorp/go-hclog"

	courseout "elearn/internal/modules/course/port/out"
	"elearn/internal/platform/config"
	apperrors "elearn/internal/platform/errors"
	"elearn/internal/platform/logging"
	"elearn/internal/platform/siren"
	"elearn/internal/platform/transport"
)

// HTTPGateway reads the Brightspace enrollments and organizations APIs.
// Enrollment and organization documents change rarely and are cached by URL;
// the enrollment list is always fetched.
type HTTPGateway struct {
	client    transport.Client
	endpoints config.Endpoints
	cache     *ristretto.Cache
	ttl       time.Duration
	logger    hclog.Logger
}

func NewHTTPGateway(client transport.Client, endpoints config.Endpoints, ttl time.Duration, logger hclog.Logger) (*HTTPGateway, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     8 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create course cache: %w", err)
	}
	return &HTTPGateway{
		client:    client,
		endpoints: endpoints,
		cache:     cache,
		ttl:       ttl,
		logger:    logging.OrDiscard(logger).Named("course-gateway"),
	}, nil
}

var _ courseout.Gateway = (*HTTPGateway)(nil)

func (g *HTTPGateway) Enrollments(ctx context.Context, token, userID string) (siren.Entity, error) {
	payload, err := g.fetch(ctx, g.endpoints.Enrollments(userID), token)
	if err != nil {
		return siren.Entity{}, err
	}
	return siren.Decode(payload)
}

func (g *HTTPGateway) Enrollment(ctx context.Context, token, href string) (siren.Entity, error) {
	return g.cached(ctx, href, token)
}

func (g *HTTPGateway) Organization(ctx context.Context, token, orgID string) (siren.Entity, error) {
	return g.cached(ctx, g.endpoints.Organization(orgID), token)
}

func (g *HTTPGateway) cached(ctx context.Context, url, token string) (siren.Entity, error) {
	if hit, found := g.cache.Get(url); found {
		if payload, ok := hit.([]byte); ok {
			g.logger.Trace("cache hit", "url", url)
			return siren.Decode(payload)
		}
	}
	payload, err := g.fetch(ctx, url, token)
	if err != nil {
		return siren.Entity{}, err
	}
	entity, err := siren.Decode(payload)
	if err != nil {
		return siren.Entity{}, err
	}
	if g.ttl > 0 {
		g.cache.SetWithTTL(url, payload, int64(len(payload)), g.ttl)
		g.cache.Wait()
	}
	return entity, nil
}

func (g *HTTPGateway) fetch(ctx context.Context, url, token string) ([]byte, error) {
	res, err := g.client.Get(ctx, url, transport.Bearer(token))
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("%w: %s returned status %d", apperrors.ErrTransport, url, res.Status)
	}
	return res.Body, nil
}

// Close releases the cache goroutines.
func (g *HTTPGateway) Close() {
	g.cache.Close()
}
