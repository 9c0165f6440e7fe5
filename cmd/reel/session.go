package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/quillcast/reel/internal/client"
	"github.com/quillcast/reel/internal/collection"
	"github.com/quillcast/reel/internal/model"
)

// flushBudget bounds how long shutdown waits for in-flight saves before
// handing leftovers to the best-effort courier.
const flushBudget = 3 * time.Second

// session wires the API client, the three collection stores, and the
// teardown flusher together for one CLI invocation.
type session struct {
	api     *client.HTTPClient
	courier interface {
		Deliver(kind string, payload []byte) error
	}
	courierClose func() error

	projects *collection.Store[model.Project]
	voices   *collection.Store[model.Voice]
	media    *collection.Store[model.MediaItem]

	flusher *collection.Flusher
}

// newSession builds the client-side stack. When natsURL is non-empty the
// teardown courier publishes over NATS; otherwise it posts to the flush
// endpoint over HTTP.
func newSession(serverURL, token, natsURL string) *session {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	api := client.NewHTTPClient(serverURL, token)

	s := &session{api: api}
	s.projects = collection.New(model.KindProjects.String(), client.NewCollectionGateway[model.Project](api), logger)
	s.voices = collection.New(model.KindVoices.String(), client.NewCollectionGateway[model.Voice](api), logger)
	s.media = collection.New(model.KindMedia.String(), client.NewCollectionGateway[model.MediaItem](api), logger)

	if natsURL != "" {
		if nc, err := client.NewNATSCourier(natsURL); err == nil {
			s.courier = nc
			s.courierClose = nc.Close
		} else {
			logger.Warn("falling back to HTTP courier", "err", err)
		}
	}
	if s.courier == nil {
		s.courier = client.NewHTTPCourier(api)
	}

	s.flusher = collection.NewFlusher(s.courier, flushBudget, logger)
	s.flusher.Register(s.projects)
	s.flusher.Register(s.voices)
	s.flusher.Register(s.media)
	return s
}

// hydrateProjects loads the projects snapshot from the server.
func (s *session) hydrateProjects(ctx context.Context) error {
	if err := s.projects.Hydrate(ctx); err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	return nil
}

func (s *session) hydrateVoices(ctx context.Context) error {
	if err := s.voices.Hydrate(ctx); err != nil {
		return fmt.Errorf("load voices: %w", err)
	}
	return nil
}

func (s *session) hydrateMedia(ctx context.Context) error {
	if err := s.media.Hydrate(ctx); err != nil {
		return fmt.Errorf("load media: %w", err)
	}
	return nil
}

// shutdown drains pending saves within the flush budget and couriers
// anything still unsent. Teardown delivery failures are logged, not
// surfaced.
func (s *session) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), flushBudget)
	defer cancel()
	s.flusher.Shutdown(ctx)
	if s.courierClose != nil {
		s.courierClose()
	}
	s.api.Close()
}
