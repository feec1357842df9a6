// Package knownset records every item identifier ever observed. Membership is
// monotonic: identifiers are added, never removed, except by Reset.
package knownset

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// DefaultKey is the store key holding the joined identifier list.
const DefaultKey = "known_urls"

const separator = ";"

// The escape character is escaped first so a literal "%3B" inside an
// identifier survives a round trip.
var (
	escaper   = strings.NewReplacer("%", "%25", separator, "%3B")
	unescaper = strings.NewReplacer("%3B", separator, "%25", "%")
)

// KV is the durable get/set capability the set persists through.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Identity policies.
const (
	IdentityNormalized = "normalized"
	IdentityRaw        = "raw"
)

// IdentityFunc derives an identifier from a remote URL.
type IdentityFunc func(url string) string

// Normalize trims surrounding whitespace and lowercases.
func Normalize(url string) string {
	return strings.ToLower(strings.TrimSpace(url))
}

// Raw uses the URL unchanged.
func Raw(url string) string {
	return url
}

// IdentityFor returns the identity function for a policy name. Unknown names
// fall back to Normalize.
func IdentityFor(policy string) IdentityFunc {
	if strings.EqualFold(strings.TrimSpace(policy), IdentityRaw) {
		return Raw
	}
	return Normalize
}

// PersistenceError reports a failed write of the known set. The in-memory
// set already contains the identifier that triggered the write.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist known set %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Options configure Load.
type Options struct {
	Key      string
	Identity IdentityFunc
	Logger   *slog.Logger
}

// Set is the known-set. A nil kv makes it memory-only.
type Set struct {
	mu       sync.Mutex
	kv       KV
	key      string
	identity IdentityFunc
	logger   *slog.Logger

	ids   map[string]struct{}
	order []string
}

// Load reads the persisted identifiers from kv. An empty value yields an
// empty set.
func Load(kv KV, opts Options) (*Set, error) {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	identity := opts.Identity
	if identity == nil {
		identity = Normalize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Set{
		kv:       kv,
		key:      key,
		identity: identity,
		logger:   logger.With("component", "knownset"),
		ids:      make(map[string]struct{}),
	}
	if kv == nil {
		return s, nil
	}

	raw, err := kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load known set: %w", err)
	}
	for _, id := range decode(raw) {
		if _, ok := s.ids[id]; ok {
			continue
		}
		s.ids[id] = struct{}{}
		s.order = append(s.order, id)
	}
	s.logger.Debug("known set loaded", "count", len(s.order))
	return s, nil
}

// Observe adds url's identifier if it is new and persists the set. It returns
// the identifier and whether it was added. A *PersistenceError is returned
// alongside added=true when the write fails.
func (s *Set) Observe(url string) (id string, added bool, err error) {
	id = s.identity(url)
	if id == "" {
		return "", false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return id, false, nil
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)

	if s.kv == nil {
		return id, true, nil
	}
	if err := s.kv.Set(s.key, encode(s.order)); err != nil {
		s.logger.Error("known set write failed", "key", s.key, "count", len(s.order), "error", err)
		return id, true, &PersistenceError{Key: s.key, Err: err}
	}
	return id, true, nil
}

// Contains reports whether url's identifier has been observed.
func (s *Set) Contains(url string) bool {
	id := s.identity(url)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of known identifiers.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// IDs returns the identifiers in insertion order.
func (s *Set) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Reset clears the persisted set under key. It does not touch any loaded Set.
func Reset(kv interface{ Delete(key string) error }, key string) error {
	if key == "" {
		key = DefaultKey
	}
	if err := kv.Delete(key); err != nil {
		return fmt.Errorf("reset known set: %w", err)
	}
	return nil
}

func encode(ids []string) string {
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = escaper.Replace(id)
	}
	return strings.Join(escaped, separator)
}

func decode(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, separator)
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		ids = append(ids, unescaper.Replace(part))
	}
	return ids
}
