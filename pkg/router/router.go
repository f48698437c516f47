package router

import (
	"sort"
	"strings"

	"github.com/gait-ai/gait/pkg/config"
	"github.com/gait-ai/gait/pkg/errors"
	"github.com/gait-ai/gait/pkg/models"
)

// Target is a resolved external API: where to send queries, how to
// authenticate and which mapping graph describes its schema.
type Target struct {
	Name           string
	Family         models.Family
	URL            string
	Auth           models.AuthPolicy
	Token          string
	MappingGraph   string
	PrimaryConcept string
	DefaultField   string
}

// Schema returns the part of the target the compiler needs.
func (t Target) Schema() models.Schema {
	return models.Schema{API: t.Name, Family: t.Family, DefaultField: t.DefaultField}
}

// Router resolves api names from intents to configured targets.
type Router struct {
	targets map[string]Target
}

// New creates a Router from the given configuration.
func New(cfg *config.Config) *Router {
	targets := make(map[string]Target, len(cfg.APIs))
	for _, a := range cfg.APIs {
		targets[strings.ToLower(a.Name)] = Target{
			Name:           a.Name,
			Family:         a.Family,
			URL:            a.URL,
			Auth:           a.Auth,
			Token:          a.Token,
			MappingGraph:   a.MappingGraph,
			PrimaryConcept: a.PrimaryConcept,
			DefaultField:   a.DefaultField,
		}
	}
	return &Router{targets: targets}
}

// Resolve returns the target for api. Names match case-insensitively, so the
// parser's "GITHUB" finds the "github" entry.
func (r *Router) Resolve(api string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(api))
	if name == "" {
		return Target{}, errors.Wrap(errors.ErrUnsupportedAPI, "intent names no api")
	}
	t, ok := r.targets[name]
	if !ok {
		return Target{}, errors.WithHintf(
			errors.Wrapf(errors.ErrUnsupportedAPI, "api %q", api),
			"configured apis: %s", strings.Join(r.Names(), ", "))
	}
	return t, nil
}

// Names returns the configured api names in sorted order.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.targets))
	for _, t := range r.targets {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
