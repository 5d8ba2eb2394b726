package provider

import (
	"sort"
	"strings"

	"github.com/appimage-updater/appimage-updater/internal/logger"
	"github.com/appimage-updater/appimage-updater/pkg/config"
	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/httpclient"
)

// Provider priorities: lower is tried first. The direct provider is not
// registered with a priority; it is the universal fallback.
const (
	priorityGitHub      = 10
	priorityGitLab      = 20
	prioritySourceForge = 30
)

type registeredProvider struct {
	provider Provider
	priority int
}

// Registry holds the ordered provider set and resolves URLs to the providers
// willing to handle them, consulting the domain knowledge cache first.
type Registry struct {
	providers []registeredProvider
	fallback  Provider
	knowledge *config.KnowledgeStore
}

// NewRegistry builds the standard registry over client: GitHub, GitLab and
// SourceForge in priority order with a direct-download fallback, backed by
// the given domain knowledge store.
func NewRegistry(client *httpclient.Client, knowledge *config.KnowledgeStore) *Registry {
	return &Registry{
		providers: []registeredProvider{
			{provider: NewGitHub(client), priority: priorityGitHub},
			{provider: NewGitLab(client), priority: priorityGitLab},
			{provider: NewSourceForge(client), priority: prioritySourceForge},
		},
		fallback:  NewDirect(client),
		knowledge: knowledge,
	}
}

// Register adds a provider with an explicit priority. Mainly used by tests
// to install providers pointed at fixture servers.
func (r *Registry) Register(p Provider, priority int) {
	r.providers = append(r.providers, registeredProvider{provider: p, priority: priority})
}

// ByName returns the provider with the given name, the fallback included.
func (r *Registry) ByName(name string) (Provider, bool) {
	if r.fallback != nil && r.fallback.Name() == name {
		return r.fallback, true
	}
	for _, rp := range r.providers {
		if rp.provider.Name() == name {
			return rp.provider, true
		}
	}
	return nil, false
}

// ForURL returns the ordered providers willing to handle url. A domain
// knowledge hit short-circuits to exactly that provider; otherwise every
// registered provider is asked and matches are returned by priority, with
// the direct fallback covering unclaimed URLs.
func (r *Registry) ForURL(url string) []Provider {
	if r.knowledge != nil {
		if name, ok := r.knowledge.Lookup(url); ok {
			if p, found := r.ByName(name); found {
				return []Provider{p}
			}
			logger.Warn("known provider not registered", logger.Fields{"provider": name, "url": url})
		}
	}

	var matches []registeredProvider
	for _, rp := range r.providers {
		if rp.provider.DetectType(url) {
			matches = append(matches, rp)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].priority < matches[j].priority })

	providers := make([]Provider, 0, len(matches)+1)
	for _, m := range matches {
		providers = append(providers, m.provider)
	}
	if len(providers) == 0 && r.fallback != nil {
		providers = append(providers, r.fallback)
	}
	return providers
}

// ForApplication resolves the providers for an application, honoring an
// explicit source_type before falling back to URL sniffing.
func (r *Registry) ForApplication(app *config.ApplicationConfig) ([]Provider, error) {
	if app.SourceType != "" {
		p, ok := r.ByName(strings.ToLower(app.SourceType))
		if !ok {
			return nil, errors.Wrapf(errors.ErrNoProviderFound, "unknown source type %q", app.SourceType)
		}
		return []Provider{p}, nil
	}
	providers := r.ForURL(app.URL)
	if len(providers) == 0 {
		return nil, errors.Wrapf(errors.ErrNoProviderFound, "no provider for %s", app.URL)
	}
	return providers, nil
}

// Learn records that provider successfully served url's domain, enabling the
// fast path on the next resolution.
func (r *Registry) Learn(url string, p Provider) {
	if r.knowledge == nil {
		return
	}
	if err := r.knowledge.Learn(p.Name(), url); err != nil {
		logger.Warn("failed to persist domain knowledge", logger.Fields{
			"url":      url,
			"provider": p.Name(),
			"error":    err.Error(),
		})
	}
}

// Forget drops a learned domain association after an auth or not-found
// failure so the next resolution re-probes.
func (r *Registry) Forget(url string, p Provider) {
	if r.knowledge == nil {
		return
	}
	if err := r.knowledge.Forget(p.Name(), url); err != nil {
		logger.Warn("failed to forget domain knowledge", logger.Fields{
			"url":      url,
			"provider": p.Name(),
			"error":    err.Error(),
		})
	}
}
