// Package mode tells the hybrid router whether entity operations go to the
// local store or to the remote CMS.
package mode

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/forestline/eudrtrack/pkg/storage"
)

// OfflineKey is the medium key of the stored preference.
const OfflineKey = "eudr_offline_mode"

// Source reports the current mode. It is consulted on every call, so an
// implementation must be cheap and must not cache a stale answer.
type Source interface {
	Offline(ctx context.Context) bool
}

// Static is a Source that never changes.
type Static bool

func (s Static) Offline(context.Context) bool { return bool(s) }

// Preference is a Source persisted in a storage medium, independently of the
// collections, as the string "true" or "false".
type Preference struct {
	medium storage.Medium
	// fallback is used when nothing is stored or the stored value is unreadable.
	fallback bool
	log      zerolog.Logger
}

func NewPreference(medium storage.Medium, fallback bool, log zerolog.Logger) *Preference {
	return &Preference{medium: medium, fallback: fallback, log: log}
}

func (p *Preference) Offline(ctx context.Context) bool {
	raw, err := p.medium.Get(ctx, OfflineKey)
	if errors.Is(err, storage.ErrNotFound) {
		return p.fallback
	}
	if err != nil {
		p.log.Warn().Err(err).Msg("failed to read offline preference")
		return p.fallback
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		p.log.Warn().Str("value", string(raw)).Msg("ignoring malformed offline preference")
		return p.fallback
	}
	return v
}

// SetOffline stores the preference. It takes effect on the next call.
func (p *Preference) SetOffline(ctx context.Context, offline bool) error {
	if err := p.medium.Set(ctx, OfflineKey, []byte(strconv.FormatBool(offline))); err != nil {
		return err
	}
	p.log.Info().Bool("offline", offline).Msg("mode changed")
	return nil
}

// Toggle is an in-memory Source for tests and embedding.
type Toggle struct {
	offline atomic.Bool
}

func NewToggle(offline bool) *Toggle {
	t := &Toggle{}
	t.offline.Store(offline)
	return t
}

func (t *Toggle) Offline(context.Context) bool { return t.offline.Load() }

func (t *Toggle) Set(offline bool) { t.offline.Store(offline) }

// Name returns "offline" or "online".
func Name(offline bool) string {
	if offline {
		return "offline"
	}
	return "online"
}
