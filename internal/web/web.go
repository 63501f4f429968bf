// Package web serves the hero wiki as a small form-driven website, every
// search step is a POST of the previous page's form.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"herowiki/internal/chart"
	"herowiki/internal/components/telemetry"
	"herowiki/internal/db"
	"herowiki/internal/heroes"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	report_web_render = "web.render"
	report_web_query  = "web.query"
)

// Store is the read side of the hero database.
type Store interface {
	Hero(ctx context.Context, name string) (heroes.Hero, error)
	HeroesByRole(ctx context.Context, role heroes.Role) ([]heroes.Hero, error)
	AbilitiesByName(ctx context.Context, name string) ([]heroes.Ability, error)
	AbilitiesByHero(ctx context.Context, heroName string) ([]heroes.Ability, error)
}

var pages = []string{
	"index",
	"search_hero",
	"search_role",
	"search_ability",
	"search_cmp",
	"hero",
	"role",
	"ability",
	"hero_ability",
	"cmp",
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

type Server struct {
	store     Store
	templates map[string]*template.Template
	tel       telemetry.API
}

func NewServer(store Store, tel telemetry.API) (*Server, error) {
	templates := map[string]*template.Template{}
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			fmt.Sprintf("templates/%s.html", page),
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return &Server{
		store:     store,
		templates: templates,
		tel:       telemetry.NewScopedAPI("web", tel),
	}, nil
}

// Handler routes every page of the site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /search_type", s.handleSearchType)
	mux.HandleFunc("POST /search_type/hero", s.handleSearchHero)
	mux.HandleFunc("POST /search_type/role", s.handleSearchRole)
	mux.HandleFunc("POST /search_type/role/hero", s.handleRoleHero)
	mux.HandleFunc("POST /search_type/ability", s.handleSearchAbility)
	mux.HandleFunc("POST /search_type/ability/hero", s.handleHeroAbility)
	mux.HandleFunc("POST /search_type/cmp", s.handleSearchCmp)
	return otelhttp.NewHandler(mux, "herowiki.web")
}

func (s *Server) render(w http.ResponseWriter, page string, data any) {
	var buf bytes.Buffer
	err := s.templates[page].ExecuteTemplate(&buf, "layout", data)
	if err != nil {
		s.tel.ReportBroken(report_web_render, err, page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) queryFailed(w http.ResponseWriter, err error, params ...any) {
	s.tel.ReportBroken(report_web_query, append([]any{err}, params...)...)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// formValue returns a trimmed required form field, answering 400 itself
// when it is missing.
func formValue(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := strings.TrimSpace(r.PostFormValue(name))
	if value == "" {
		http.Error(w, fmt.Sprintf("missing form field '%s'", name), http.StatusBadRequest)
		return "", false
	}
	return value, true
}

type abilityView struct {
	heroes.Ability
	StatLines []string
}

func newAbilityView(a heroes.Ability) abilityView {
	var lines []string
	for _, line := range strings.Split(strings.Trim(a.Stats, "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return abilityView{Ability: a, StatLines: lines}
}

func newAbilityViews(list []heroes.Ability) []abilityView {
	out := make([]abilityView, len(list))
	for i, a := range list {
		out[i] = newAbilityView(a)
	}
	return out
}

type rolesPage struct {
	Roles   []heroes.Role
	Metrics []chart.Metric
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index", nil)
}

func (s *Server) handleSearchType(w http.ResponseWriter, r *http.Request) {
	option, ok := formValue(w, r, "search_option")
	if !ok {
		return
	}
	switch option {
	case "heroes":
		s.render(w, "search_hero", nil)
	case "abilities":
		s.render(w, "search_ability", nil)
	default:
		s.render(w, "search_cmp", rolesPage{Roles: heroes.Roles, Metrics: chart.Metrics})
	}
}

func (s *Server) handleSearchHero(w http.ResponseWriter, r *http.Request) {
	option, ok := formValue(w, r, "search_hero_option")
	if !ok {
		return
	}
	if option != "name" {
		s.render(w, "search_role", rolesPage{Roles: heroes.Roles})
		return
	}
	s.renderHero(w, r)
}

func (s *Server) handleRoleHero(w http.ResponseWriter, r *http.Request) {
	s.renderHero(w, r)
}

type heroPage struct {
	Query     string
	Hero      *heroes.Hero
	Abilities []abilityView
}

func (s *Server) renderHero(w http.ResponseWriter, r *http.Request) {
	name, ok := formValue(w, r, "hero_name")
	if !ok {
		return
	}

	hero, err := s.store.Hero(r.Context(), name)
	if errors.Is(err, db.ErrNotFound) {
		s.render(w, "hero", heroPage{Query: name})
		return
	}
	if err != nil {
		s.queryFailed(w, err, name)
		return
	}
	s.render(w, "hero", heroPage{
		Query:     name,
		Hero:      &hero,
		Abilities: newAbilityViews(hero.Abilities),
	})
}

type rolePage struct {
	Role   string
	Heroes []heroes.Hero
}

func (s *Server) handleSearchRole(w http.ResponseWriter, r *http.Request) {
	role, ok := formValue(w, r, "search_role_option")
	if !ok {
		return
	}
	list, err := s.store.HeroesByRole(r.Context(), heroes.Role(role))
	if err != nil {
		s.queryFailed(w, err, role)
		return
	}
	s.render(w, "role", rolePage{Role: role, Heroes: list})
}

type abilityPage struct {
	Query   string
	Ability *abilityView
}

type heroAbilityPage struct {
	HeroName  string
	Abilities []abilityView
}

func (s *Server) handleSearchAbility(w http.ResponseWriter, r *http.Request) {
	option, ok := formValue(w, r, "search_ability_option")
	if !ok {
		return
	}
	if option == "name" {
		s.renderAbility(w, r)
		return
	}

	heroName, ok := formValue(w, r, "hero_name")
	if !ok {
		return
	}
	list, err := s.store.AbilitiesByHero(r.Context(), heroName)
	if err != nil {
		s.queryFailed(w, err, heroName)
		return
	}
	s.render(w, "hero_ability", heroAbilityPage{
		HeroName:  heroName,
		Abilities: newAbilityViews(list),
	})
}

func (s *Server) handleHeroAbility(w http.ResponseWriter, r *http.Request) {
	s.renderAbility(w, r)
}

func (s *Server) renderAbility(w http.ResponseWriter, r *http.Request) {
	name, ok := formValue(w, r, "ability_name")
	if !ok {
		return
	}
	list, err := s.store.AbilitiesByName(r.Context(), name)
	if err != nil {
		s.queryFailed(w, err, name)
		return
	}
	page := abilityPage{Query: name}
	if len(list) > 0 {
		view := newAbilityView(list[0])
		page.Ability = &view
	}
	s.render(w, "ability", page)
}

type cmpPage struct {
	Role   string
	Metric string
	Chart  template.HTML
}

func (s *Server) handleSearchCmp(w http.ResponseWriter, r *http.Request) {
	roleOption, ok := formValue(w, r, "search_role_option")
	if !ok {
		return
	}
	metricOption, ok := formValue(w, r, "search_cmp_option")
	if !ok {
		return
	}

	metric, err := chart.ParseMetric(metricOption)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	role := heroes.Role(roleOption)
	if strings.EqualFold(roleOption, "all") {
		role = ""
	}

	list, err := s.store.HeroesByRole(r.Context(), role)
	if err != nil {
		s.queryFailed(w, err, roleOption)
		return
	}

	page := cmpPage{Role: roleOption, Metric: metric.String()}
	if len(list) > 0 {
		page.Chart, err = chart.RenderSVG(chart.Build(list, metric))
		if err != nil {
			s.tel.ReportBroken(report_web_render, err, "chart", strconv.Itoa(int(metric)))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	s.render(w, "cmp", page)
}
