package config

import (
	"net/url"
	"strings"
	"sync"

	"github.com/appimage-updater/appimage-updater/internal/logger"
)

// KnowledgeStore is the persisted mapping of provider name to the domains it
// is known to serve. The registry consults it before probing providers; the
// orchestrator learns a domain on a successful fetch and forgets it when the
// provider starts failing for that domain.
//
// All mutation goes through this store, which serializes access and delegates
// persistence to the owning Config's save.
type KnowledgeStore struct {
	mu  sync.Mutex
	cfg *Config
}

// NewKnowledgeStore wraps the knowledge section of cfg.
func NewKnowledgeStore(cfg *Config) *KnowledgeStore {
	return &KnowledgeStore{cfg: cfg}
}

// Lookup returns the provider known to serve domain, if any.
func (s *KnowledgeStore) Lookup(domain string) (string, bool) {
	domain = normalizeDomain(domain)
	if domain == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for provider, domains := range s.cfg.Knowledge {
		for _, d := range domains {
			if d == domain {
				return provider, true
			}
		}
	}
	return "", false
}

// Learn records that provider serves domain and persists the change. Learning
// an already-known domain is a no-op.
func (s *KnowledgeStore) Learn(provider, domain string) error {
	domain = normalizeDomain(domain)
	if provider == "" || domain == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.cfg.Knowledge[provider] {
		if d == domain {
			return nil
		}
	}
	s.cfg.Knowledge[provider] = append(s.cfg.Knowledge[provider], domain)
	logger.Debug("learned domain", logger.Fields{"provider": provider, "domain": domain})
	return s.persist()
}

// Forget removes domain from provider's learned set so the next resolution
// re-probes. Unknown domains are a no-op.
func (s *KnowledgeStore) Forget(provider, domain string) error {
	domain = normalizeDomain(domain)
	s.mu.Lock()
	defer s.mu.Unlock()
	domains := s.cfg.Knowledge[provider]
	for i, d := range domains {
		if d == domain {
			s.cfg.Knowledge[provider] = append(domains[:i], domains[i+1:]...)
			logger.Debug("forgot domain", logger.Fields{"provider": provider, "domain": domain})
			return s.persist()
		}
	}
	return nil
}

func (s *KnowledgeStore) persist() error {
	if s.cfg.path == "" {
		return nil
	}
	return s.cfg.Save()
}

// normalizeDomain extracts the lowercase hostname from a domain or full URL.
func normalizeDomain(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	// Bare domain, possibly with a path fragment.
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
