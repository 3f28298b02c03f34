// Package templates renders the simulated phishing emails and the lesson
// page with the Liquid template language. Scenario bodies are Liquid
// templates personalized per target with the company info and the signed
// tracking link.
package templates

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/phishing-trainer/internal/domain"
)

// Engine wraps a Liquid engine with custom filters and compiled-template
// caching keyed by scenario type.
type Engine struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewEngine creates a template engine with the custom filters registered.
func NewEngine() *Engine {
	e := &Engine{engine: liquid.NewEngine()}
	e.registerFilters()
	return e
}

func (e *Engine) registerFilters() {
	// Fallback value: {{ first_name | default: "colleague" }}
	e.engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		strVal := fmt.Sprintf("%v", value)
		if strVal == "" || strVal == "<nil>" {
			return defaultVal
		}
		return value
	})

	// Title case: {{ company_name | titlecase }}
	e.engine.RegisterFilter("titlecase", func(s string) string {
		return strings.Title(strings.ToLower(s))
	})

	// URL encode: {{ email | urlencode }}
	e.engine.RegisterFilter("urlencode", func(s string) string {
		return url.QueryEscape(s)
	})

	// HTML escape: {{ user_input | escape }}
	e.engine.RegisterFilter("escape", func(s string) string {
		return html.EscapeString(s)
	})

	// Extract domain from email: {{ email | email_domain }}
	e.engine.RegisterFilter("email_domain", func(email string) string {
		parts := strings.Split(email, "@")
		if len(parts) == 2 {
			return parts[1]
		}
		return ""
	})

	// Mask email for the lesson page: {{ email | mask_email }}
	e.engine.RegisterFilter("mask_email", func(email string) string {
		parts := strings.Split(email, "@")
		if len(parts) != 2 {
			return email
		}
		local := parts[0]
		if len(local) <= 2 {
			return local + "***@" + parts[1]
		}
		return local[:2] + "***@" + parts[1]
	})
}

// Parse compiles a template string and reports syntax errors.
func (e *Engine) Parse(templateStr string) error {
	_, err := e.engine.ParseString(templateStr)
	return err
}

// Render processes a template with the given bindings. Compiled templates
// are cached under cacheKey when one is provided.
func (e *Engine) Render(cacheKey, templateStr string, ctx map[string]interface{}) (string, error) {
	if cacheKey != "" {
		if cached, ok := e.cache.Load(cacheKey); ok {
			return cached.(*liquid.Template).RenderString(ctx)
		}
	}

	tpl, err := e.engine.ParseString(templateStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	if cacheKey != "" {
		e.cache.Store(cacheKey, tpl)
	}
	return tpl.RenderString(ctx)
}

// Email is a rendered simulation email ready for the sending collaborator.
type Email struct {
	Subject string
	HTML    string
}

// RenderEmail renders the scenario email for one target. Unknown scenario
// types fall back to the credential-theft template so a typo in a stored
// campaign never blocks a send.
func (e *Engine) RenderEmail(c *domain.Campaign, t *domain.Target) (*Email, error) {
	sc, ok := scenarios[c.Scenario.Type]
	if !ok {
		sc = scenarios[domain.ScenarioCredentialTheft]
	}

	subjectTpl := sc.Subject
	bodyTpl := sc.BodyHTML
	if c.Email != nil {
		if c.Email.Subject != "" {
			subjectTpl = c.Email.Subject
		}
		if c.Email.BodyHTML != "" {
			bodyTpl = c.Email.BodyHTML
		}
	}

	ctx := map[string]interface{}{
		"company_name":    c.Company.Name,
		"company_website": c.Company.Website,
		"company_news":    c.Company.News,
		"recipient":       t.Email,
		"track_url":       t.TrackURL,
		"difficulty":      c.Scenario.Difficulty,
	}

	subject, err := e.Render(c.Scenario.Type+"/subject", subjectTpl, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering subject: %w", err)
	}
	body, err := e.Render(c.Scenario.Type+"/body", bodyTpl, ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering body: %w", err)
	}
	return &Email{Subject: subject, HTML: body}, nil
}

// ClearCache drops all compiled templates. Callers use it after editing a
// campaign's stored email content, since cache keys are scenario-scoped.
func (e *Engine) ClearCache() {
	e.cache = sync.Map{}
}
