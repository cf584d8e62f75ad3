package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"VetNutrition/internal/catalog"
	"VetNutrition/internal/config"
	"VetNutrition/internal/domain"
	"VetNutrition/internal/food"
	"VetNutrition/internal/ports"
	"VetNutrition/internal/scanner"
)

// StrategyImporter implements GuaranteeImporter via registered scanner strategies.
type StrategyImporter struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.GuaranteeImporter = (*StrategyImporter)(nil)

// NewStrategyImporter wires the scanner registry with config-defined sites.
func NewStrategyImporter(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategyImporter {
	return &StrategyImporter{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// Import picks the site whose host matches pageURL and runs its scanner.
// The draft gets a stable catalog id; validation problems are logged, not
// returned, so a partial label can still be reviewed by hand.
func (s *StrategyImporter) Import(ctx context.Context, pageURL string) (domain.CommercialFood, error) {
	if s.registry == nil {
		return domain.CommercialFood{}, fmt.Errorf("scanner registry is not configured")
	}

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return domain.CommercialFood{}, fmt.Errorf("invalid product url %q", pageURL)
	}

	site, ok := s.matchSite(parsed.Hostname())
	if !ok {
		return domain.CommercialFood{}, fmt.Errorf("no site configured for host %s", parsed.Hostname())
	}
	s.debug("import page", "site", site.Name, "scanner", site.Scanner, "url", pageURL)

	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		return domain.CommercialFood{}, fmt.Errorf("site %s: %w", site.Name, err)
	}

	draft, err := strategy.Scan(ctx, scanner.Request{
		URL:      pageURL,
		SiteName: site.Name,
		Options:  site.Options,
	})
	if err != nil {
		return domain.CommercialFood{}, fmt.Errorf("scan site %s: %w", site.Name, err)
	}

	if draft.ID == "" {
		draft.ID = catalog.CommercialID(draft)
	}

	if v := food.Validate(draft); !v.Valid() && s.logger != nil {
		s.logger.Warn("imported food is incomplete", "id", draft.ID, "errors", v.Errors)
	}
	return draft, nil
}

func (s *StrategyImporter) matchSite(host string) (config.SiteConfig, bool) {
	host = strings.ToLower(host)
	var wildcard *config.SiteConfig
	for i, site := range s.sites {
		want := strings.ToLower(site.Host)
		switch {
		case want == "*":
			if wildcard == nil {
				wildcard = &s.sites[i]
			}
		case want == host, strings.HasSuffix(host, "."+strings.TrimPrefix(want, "www.")),
			host == strings.TrimPrefix(want, "www."):
			return site, true
		}
	}
	if wildcard != nil {
		return *wildcard, true
	}
	return config.SiteConfig{}, false
}

func (s *StrategyImporter) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
