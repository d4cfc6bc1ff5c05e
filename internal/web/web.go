// Package web renders the server-side pages: the landing page inside its
// header-and-sections shell and the dashboard pages inside the header-and-sidebar
// shell.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates content
var assets embed.FS

// Page names accepted by Render.
const (
	PageLanding   = "landing"
	PageDashboard = "dashboard"
	PageBilling   = "billing"
	PageProfile   = "profile"
)

// pageLayouts maps each page to the shell it is nested in.
var pageLayouts = map[string]string{
	PageLanding:   "landing",
	PageDashboard: "dashboard",
	PageBilling:   "dashboard",
	PageProfile:   "dashboard",
}

// landingSections are rendered in order from content/<id>.md.
var landingSections = []string{"hero", "features", "pricing", "faq"}

// NavItem is one sidebar link.
type NavItem struct {
	Page  string
	Label string
	Href  string
}

// Navigation is the dashboard sidebar, top to bottom.
var Navigation = []NavItem{
	{Page: PageDashboard, Label: "Overview", Href: "/dashboard"},
	{Page: PageBilling, Label: "Billing", Href: "/dashboard/billing"},
	{Page: PageProfile, Label: "Profile", Href: "/dashboard/profile"},
}

// markdown escapes raw HTML in section sources.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithXHTML(),
	),
)

// Section is one rendered block of landing-page copy.
type Section struct {
	ID   string
	HTML template.HTML
}

// LandingPage is the data for PageLanding.
type LandingPage struct {
	Sections []Section
}

// Viewer is the signed-in user shown in the dashboard header.
type Viewer struct {
	Name    string
	Email   string
	Picture string
}

// SubscriptionView is the billing summary.
type SubscriptionView struct {
	Plan              string
	Status            string
	CancelAtPeriodEnd bool
	CurrentPeriodEnd  time.Time
}

// ProfileView is the locally synced user record.
type ProfileView struct {
	Name          string
	Email         string
	Role          string
	EmailVerified bool
	LastLogin     *time.Time
	CreatedAt     time.Time
}

// DashboardPage is the data for every dashboard page.
type DashboardPage struct {
	Title        string
	Active       string
	Viewer       Viewer
	CSRFToken    string
	Subscription *SubscriptionView
	Profile      *ProfileView
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages    map[string]*template.Template
	sections []Section
}

var funcs = template.FuncMap{
	"nav": func() []NavItem { return Navigation },
	"date": func(t time.Time) string {
		return t.UTC().Format("Jan 2, 2006")
	},
}

// New parses every page template and renders the landing sections.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageLayouts))}

	for page, layout := range pageLayouts {
		tpl, err := template.New(page).Funcs(funcs).ParseFS(assets,
			"templates/layout_"+layout+".html",
			"templates/partials/*.html",
			"templates/pages/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", page, err)
		}
		r.pages[page] = tpl
	}

	for _, id := range landingSections {
		src, err := assets.ReadFile("content/" + id + ".md")
		if err != nil {
			return nil, fmt.Errorf("reading section %s: %w", id, err)
		}
		var buf bytes.Buffer
		if err := markdown.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("rendering section %s: %w", id, err)
		}
		r.sections = append(r.sections, Section{ID: id, HTML: template.HTML(buf.String())})
	}

	return r, nil
}

// Landing renders the landing page.
func (r *Renderer) Landing(w io.Writer) error {
	return r.Render(w, PageLanding, LandingPage{Sections: r.sections})
}

// Render executes page into w. Output is buffered so a failed render writes nothing.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout:"+pageLayouts[page], data); err != nil {
		return fmt.Errorf("rendering page %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
