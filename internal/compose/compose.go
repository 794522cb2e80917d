// Package compose loads the tenant record behind a routing decision, applies
// vertical enrichment, and renders the selected template artifact.
package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pagesmith/pagesmith/internal/render"
	"github.com/pagesmith/pagesmith/internal/routing"
	"github.com/pagesmith/pagesmith/internal/store"
	"github.com/pagesmith/pagesmith/pkg/models"
)

var ErrTenantNotFound = errors.New("tenant not found")
var ErrUnknownSectionTemplate = errors.New("unknown section template")

// plumberCollection is the collection whose verticals get location enrichment.
const plumberCollection = "plumber"

// DefaultSectionMap maps section template names to template paths for the
// shared layout. Fixed at startup; never mutated.
func DefaultSectionMap() map[string]string {
	return map[string]string{
		"header 1": "header/header1",
		"footer 1": "footer/footer1",
	}
}

// Composer builds render contexts for resolved tenants and hands them to the
// renderer.
type Composer struct {
	store             store.Store
	renderer          render.Renderer
	sectionMap        map[string]string
	baseURL           string
	mapsAPIKey        string
	defaultCollection string
}

// New creates a Composer. defaultCollection is used when the routing decision
// carries no vertical.
func New(s store.Store, r render.Renderer, sectionMap map[string]string, baseURL, mapsAPIKey, defaultCollection string) *Composer {
	return &Composer{
		store:             s,
		renderer:          r,
		sectionMap:        sectionMap,
		baseURL:           baseURL,
		mapsAPIKey:        mapsAPIKey,
		defaultCollection: defaultCollection,
	}
}

// Compose fetches the tenant for decision and renders its page. requestPath
// is the original request path, used to build the absolute page URL.
//
// Errors: ErrTenantNotFound when the slug has no record in the resolved
// collection, ErrUnknownSectionTemplate when a layout section's template id
// is absent from the section map. Anything else is a render failure the
// handler reports generically.
func (c *Composer) Compose(ctx context.Context, decision *routing.Decision, requestPath string) ([]byte, error) {
	collection := c.defaultCollection
	if decision.Vertical != nil {
		collection = decision.Vertical.Collection
	}

	company, err := c.store.FindBySlug(ctx, collection, decision.Slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}

	if decision.Vertical != nil && decision.Vertical.Collection == plumberCollection {
		EnrichLocation(company, c.mapsAPIKey)
	}

	data, err := renderContext(company, c.baseURL+requestPath)
	if err != nil {
		return nil, err
	}

	if decision.Vertical == nil {
		// Every section must resolve through the section map before the
		// layout runs; a blank section is not an acceptable fallback.
		for _, section := range company.Sections {
			if _, ok := c.sectionMap[section.TemplateName]; !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownSectionTemplate, section.TemplateName)
			}
		}
		data["sectionMap"] = c.sectionMap
		return c.renderer.Render("layout", data)
	}

	sub := first(decision.SubPath)
	if sub == "services" {
		// A bare /services path renders with an empty service_index rather
		// than failing.
		index, _, _ := strings.Cut(second(decision.SubPath), ".")
		data["service_index"] = index
		return c.renderer.Render(decision.Vertical.TemplateRoot+"/services-inner", data)
	}
	return c.renderer.Render(decision.Vertical.TemplateRoot+"/"+sub, data)
}

// EnrichLocation fills the company's contact location with a Google Maps
// embed URL built from its name and address. A location that is already set
// is never overwritten, so repeated enrichment is a no-op.
func EnrichLocation(company *models.Company, apiKey string) {
	if company.Location != "" {
		return
	}
	company.Location = fmt.Sprintf(
		"https://www.google.com/maps/embed/v1/place?q=%s+%s&key=%s",
		url.QueryEscape(company.Name), url.QueryEscape(company.Address), apiKey)
}

// renderContext flattens the company record into the map handed to templates,
// with the resolved absolute URL under "url".
func renderContext(company *models.Company, pageURL string) (map[string]any, error) {
	raw, err := json.Marshal(company)
	if err != nil {
		return nil, fmt.Errorf("encode render context: %w", err)
	}
	data := make(map[string]any)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode render context: %w", err)
	}
	data["url"] = pageURL
	return data, nil
}

func first(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func second(parts []string) string {
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
