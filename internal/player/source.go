package player

import "sync"

// Source is a playable external media element (a <video> or <audio> tag,
// a decoder, a test fake). The scheduler never depends on a concrete
// media type; drift correction goes through this interface.
type Source interface {
	Position() float64
	SeekTo(offset float64)
	Play()
	Pause()
}

// SourcePool tracks the attached sources by asset id and reconciles them
// against the active clip set each tick.
type SourcePool struct {
	mu      sync.Mutex
	sources map[string]Source
}

func NewSourcePool() *SourcePool {
	return &SourcePool{sources: make(map[string]Source)}
}

// Attach registers the playable source backing an asset. Re-attaching
// replaces the previous source.
func (p *SourcePool) Attach(assetID string, src Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources[assetID] = src
}

// Detach removes the source for an asset, pausing it first.
func (p *SourcePool) Detach(assetID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if src, ok := p.sources[assetID]; ok {
		src.Pause()
		delete(p.sources, assetID)
	}
}

// Sync reconciles every attached source against the active clip set.
// Active sources are seeked only when their drift exceeds the threshold
// (a steady-state control loop, not an error path) and follow the
// playing state; sources with no active clip are paused.
func (p *SourcePool) Sync(active []ActiveClip, playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[string]bool, len(active))
	for _, ac := range active {
		if ac.Clip.AssetID == "" {
			continue
		}
		src, ok := p.sources[ac.Clip.AssetID]
		if !ok {
			continue
		}
		seen[ac.Clip.AssetID] = true

		drift := src.Position() - ac.Offset
		if drift < 0 {
			drift = -drift
		}
		if drift > DriftThreshold {
			src.SeekTo(ac.Offset)
		}

		if playing {
			src.Play()
		} else {
			src.Pause()
		}
	}

	for id, src := range p.sources {
		if !seen[id] {
			src.Pause()
		}
	}
}
