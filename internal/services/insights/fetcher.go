package insights

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"brandscope/internal/domain"
	"brandscope/internal/ports"
)

// Outcome is one of Loaded, LoadFailed or Superseded.
type Outcome interface {
	outcome()
}

type Loaded struct {
	Data domain.InsightsData
}

type LoadFailed struct {
	Err error
}

// Superseded means the viewer switched brands while the read was in flight;
// the result was dropped.
type Superseded struct{}

func (Loaded) outcome()     {}
func (LoadFailed) outcome() {}
func (Superseded) outcome() {}

// Fetcher reads insights once per call and tracks, per viewer, which brand the
// latest read was for.
type Fetcher struct {
	backend ports.BrandBackend

	mu      sync.Mutex
	viewers map[string]*viewer
}

type viewer struct {
	brandID  string
	gen      uint64
	inflight int
}

func NewFetcher(backend ports.BrandBackend) *Fetcher {
	return &Fetcher{backend: backend, viewers: map[string]*viewer{}}
}

// Load reads the insights of brandID for viewerID. A read for a different
// brand started by the same viewer makes this one Superseded.
func (f *Fetcher) Load(ctx context.Context, viewerID, brandID string) Outcome {
	gen := f.begin(viewerID, brandID)
	data, err := f.backend.Insights(ctx, brandID)
	current := f.end(viewerID, gen)

	log := zerolog.Ctx(ctx)
	switch {
	case !current:
		log.Debug().Str("brand_id", brandID).Msg("insights read superseded")
		return Superseded{}
	case err != nil:
		log.Warn().Err(err).Str("brand_id", brandID).Msg("insights read failed")
		return LoadFailed{Err: err}
	}
	return Loaded{Data: data}
}

func (f *Fetcher) begin(viewerID, brandID string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.viewers[viewerID]
	if !ok {
		v = &viewer{brandID: brandID}
		f.viewers[viewerID] = v
	}
	if v.brandID != brandID {
		v.brandID = brandID
		v.gen++
	}
	v.inflight++
	return v.gen
}

func (f *Fetcher) end(viewerID string, gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.viewers[viewerID]
	current := v.gen == gen
	v.inflight--
	if v.inflight == 0 {
		delete(f.viewers, viewerID)
	}
	return current
}
