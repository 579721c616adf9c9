package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrNotFound means the asset id is not in the catalog.
	ErrNotFound = errors.New("asset not found")
	// ErrNotLocal means the asset lives in a remote source and has no
	// filesystem path.
	ErrNotLocal = errors.New("asset is not local")
)

// Service is the media bin: it registers sources, refreshes the catalog
// from their listings, and resolves assets for the timeline, the stream
// server, and the prober.
type Service struct {
	repo   Repository
	logger *slog.Logger

	mu      sync.RWMutex
	listers map[string]Lister
	locals  map[string]*LocalSource
	remotes map[string]*S3Source
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		logger:  logger,
		listers: make(map[string]Lister),
		locals:  make(map[string]*LocalSource),
		remotes: make(map[string]*S3Source),
	}
}

// RegisterLocal attaches a local directory as a source, reusing the catalog
// row if the directory was registered in a previous run.
func (s *Service) RegisterLocal(ctx context.Context, root string) (*Source, error) {
	src, err := s.ensureSource(ctx, &Source{
		ID:        NewID(),
		Kind:      SourceLocal,
		Root:      root,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	local := NewLocalSource(root, s.logger.With("source_id", src.ID))
	s.listers[src.ID] = local
	s.locals[src.ID] = local
	s.mu.Unlock()
	return src, nil
}

// RegisterS3 attaches a bucket prefix as a source.
func (s *Service) RegisterS3(ctx context.Context, bucket, prefix, region string, signTTL time.Duration) (*Source, error) {
	src, err := s.ensureSource(ctx, &Source{
		ID:        NewID(),
		Kind:      SourceS3,
		Bucket:    bucket,
		Prefix:    prefix,
		Region:    region,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	remote, err := NewS3Source(ctx, bucket, prefix, region, signTTL, s.logger.With("source_id", src.ID))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.listers[src.ID] = remote
	s.remotes[src.ID] = remote
	s.mu.Unlock()
	return src, nil
}

// registerLister wires a pre-built lister to a source; tests use it to
// avoid touching AWS or the filesystem.
func (s *Service) registerLister(ctx context.Context, src *Source, lister Lister) (*Source, error) {
	stored, err := s.ensureSource(ctx, src)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.listers[stored.ID] = lister
	if local, ok := lister.(*LocalSource); ok {
		s.locals[stored.ID] = local
	}
	s.mu.Unlock()
	return stored, nil
}

func (s *Service) ensureSource(ctx context.Context, src *Source) (*Source, error) {
	existing, err := s.repo.GetSourceByLocation(ctx, src.Kind, src.Root, src.Bucket, src.Prefix)
	if err != nil {
		return nil, fmt.Errorf("look up source: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	if err := s.repo.CreateSource(ctx, src); err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	return src, nil
}

// Refresh re-lists every registered source and reconciles the catalog:
// new objects are inserted, changed ones updated, vanished ones pruned.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.RLock()
	listers := make(map[string]Lister, len(s.listers))
	for id, l := range s.listers {
		listers[id] = l
	}
	s.mu.RUnlock()

	var firstErr error
	for sourceID, lister := range listers {
		if err := s.refreshSource(ctx, sourceID, lister); err != nil {
			s.logger.Error("source refresh failed", "source_id", sourceID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Service) refreshSource(ctx context.Context, sourceID string, lister Lister) error {
	entries, err := lister.List(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
		asset := &Asset{
			ID:          NewID(),
			SourceID:    sourceID,
			Kind:        e.Kind,
			Key:         e.Key,
			DisplayName: e.DisplayName,
			URL:         e.URL,
			ContentType: e.ContentType,
			SizeBytes:   e.SizeBytes,
			ProbeStatus: ProbePending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.UpsertAsset(ctx, asset); err != nil {
			return fmt.Errorf("upsert %s: %w", e.Key, err)
		}
	}

	pruned, err := s.repo.PruneAssets(ctx, sourceID, keys)
	if err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	if err := s.repo.UpdateSourceScanned(ctx, sourceID, now); err != nil {
		return err
	}

	s.logger.Info("source refreshed",
		"source_id", sourceID, "listed", len(entries), "pruned", pruned)
	return nil
}

// List returns the whole bin ordered by display name.
func (s *Service) List(ctx context.Context) ([]*Asset, error) {
	return s.repo.ListAssets(ctx)
}

// Get returns one asset or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Asset, error) {
	asset, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrNotFound
	}
	return asset, nil
}

// Count reports how many assets the bin holds.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountAssets(ctx)
}

// Sources lists the registered source rows.
func (s *Service) Sources(ctx context.Context) ([]*Source, error) {
	return s.repo.ListSources(ctx)
}

// LocalPath resolves an asset to a filesystem path. Remote assets return
// ErrNotLocal; the caller should use the asset URL instead.
func (s *Service) LocalPath(ctx context.Context, id string) (string, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	local, ok := s.locals[asset.SourceID]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNotLocal
	}

	path := local.Resolve(asset.Key)
	if path == "" {
		return "", ErrNotFound
	}
	return path, nil
}

// RefreshURL re-presigns a remote asset's GET URL and stores it. Local
// assets are returned unchanged.
func (s *Service) RefreshURL(ctx context.Context, id string) (*Asset, error) {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	remote, ok := s.remotes[asset.SourceID]
	s.mu.RUnlock()
	if !ok {
		return asset, nil
	}

	url, err := remote.PresignGet(ctx, asset.Key)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", asset.Key, err)
	}
	if err := s.repo.UpdateAssetURL(ctx, asset.ID, url); err != nil {
		return nil, err
	}
	asset.URL = url
	return asset, nil
}
