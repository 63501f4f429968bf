package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"herowiki/internal/components/telemetry"
	"herowiki/internal/db"
	"herowiki/internal/heroes"
	"herowiki/lib/testutil"

	"github.com/stretchr/testify/require"
)

func seedStore(t testing.TB) db.Store {
	store := db.NewStore(testutil.OpenDB(t, db.Schema))

	ana := heroes.New("Ana")
	ana.Role = heroes.ROLE_SUPPORT
	ana.Description = "A veteran sniper."
	ana.Health = "200"
	ana.PickRate = 30
	ana.Abilities = []heroes.Ability{
		{Name: "Sleep Dart", Description: "Puts an enemy to sleep.", Stats: "Type: Projectile\nDuration: 5 seconds.\n"},
	}
	reinhardt := heroes.New("Reinhardt")
	reinhardt.Role = heroes.ROLE_TANK
	reinhardt.Health = "300"
	reinhardt.PickRate = 10
	reinhardt.Abilities = []heroes.Ability{
		{Name: "Charge", Description: "Charges <forward>."},
	}

	require.NoError(t, store.Replace(context.Background(), []heroes.Hero{ana, reinhardt}))
	return store
}

func newTestServer(t testing.TB, store Store) (http.Handler, *telemetry.RecorderAPI) {
	tel := telemetry.NewRecorderAPI()
	server, err := NewServer(store, tel)
	require.NoError(t, err)
	return server.Handler(), tel
}

func post(t testing.TB, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	handler, _ := newTestServer(t, seedStore(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `action="/search_type"`)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchFlow(t *testing.T) {
	handler, _ := newTestServer(t, seedStore(t))

	testCases := []struct {
		name     string
		path     string
		form     url.Values
		contains []string
	}{
		{
			name:     "search type heroes",
			path:     "/search_type",
			form:     url.Values{"search_option": {"heroes"}},
			contains: []string{`action="/search_type/hero"`},
		},
		{
			name:     "search type abilities",
			path:     "/search_type",
			form:     url.Values{"search_option": {"abilities"}},
			contains: []string{`action="/search_type/ability"`},
		},
		{
			name:     "search type comparison",
			path:     "/search_type",
			form:     url.Values{"search_option": {"cmp"}},
			contains: []string{`<option value="4">Pick Rate</option>`, `value="Tank"`},
		},
		{
			name:     "hero by name",
			path:     "/search_type/hero",
			form:     url.Values{"search_hero_option": {"name"}, "hero_name": {"ana"}},
			contains: []string{"A veteran sniper.", "<li>Type: Projectile</li>", "<li>Duration: 5 seconds.</li>"},
		},
		{
			name:     "unknown hero",
			path:     "/search_type/hero",
			form:     url.Values{"search_hero_option": {"name"}, "hero_name": {"Nobody"}},
			contains: []string{`No hero named "Nobody"`},
		},
		{
			name:     "hero by role asks for the role",
			path:     "/search_type/hero",
			form:     url.Values{"search_hero_option": {"role"}},
			contains: []string{`action="/search_type/role"`, `value="Support"`},
		},
		{
			name:     "role listing",
			path:     "/search_type/role",
			form:     url.Values{"search_role_option": {"Tank"}},
			contains: []string{`value="Reinhardt"`},
		},
		{
			name:     "hero from role listing",
			path:     "/search_type/role/hero",
			form:     url.Values{"hero_name": {"Reinhardt"}},
			contains: []string{"Charges &lt;forward&gt;."},
		},
		{
			name:     "ability by name",
			path:     "/search_type/ability",
			form:     url.Values{"search_ability_option": {"name"}, "ability_name": {"sleep dart"}},
			contains: []string{"Sleep Dart <small>(Ana)</small>"},
		},
		{
			name:     "abilities by hero",
			path:     "/search_type/ability",
			form:     url.Values{"search_ability_option": {"hero"}, "hero_name": {"Ana"}},
			contains: []string{"Abilities of Ana", `value="Sleep Dart"`},
		},
		{
			name:     "ability from hero listing",
			path:     "/search_type/ability/hero",
			form:     url.Values{"ability_name": {"Charge"}},
			contains: []string{"Charge <small>(Reinhardt)</small>"},
		},
		{
			name:     "comparison pie",
			path:     "/search_type/cmp",
			form:     url.Values{"search_role_option": {"All"}, "search_cmp_option": {"4"}},
			contains: []string{"<svg", "chart-pie", "Ana: 30 (75.0%)"},
		},
		{
			name:     "comparison bar by role",
			path:     "/search_type/cmp",
			form:     url.Values{"search_role_option": {"Tank"}, "search_cmp_option": {"1"}},
			contains: []string{"chart-bar", "Reinhardt"},
		},
		{
			name:     "comparison without heroes",
			path:     "/search_type/cmp",
			form:     url.Values{"search_role_option": {"Damage"}, "search_cmp_option": {"1"}},
			contains: []string{"No heroes found"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			rec := post(t, handler, test.path, test.form)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			for _, s := range test.contains {
				require.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestBadRequests(t *testing.T) {
	handler, _ := newTestServer(t, seedStore(t))

	rec := post(t, handler, "/search_type/hero", url.Values{"search_hero_option": {"name"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, handler, "/search_type/cmp", url.Values{"search_role_option": {"All"}, "search_cmp_option": {"12"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search_type", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type brokenStore struct{}

func (brokenStore) Hero(context.Context, string) (heroes.Hero, error) {
	return heroes.Hero{}, errors.New("database is locked")
}

func (brokenStore) HeroesByRole(context.Context, heroes.Role) ([]heroes.Hero, error) {
	return nil, errors.New("database is locked")
}

func (brokenStore) AbilitiesByName(context.Context, string) ([]heroes.Ability, error) {
	return nil, errors.New("database is locked")
}

func (brokenStore) AbilitiesByHero(context.Context, string) ([]heroes.Ability, error) {
	return nil, errors.New("database is locked")
}

func TestStoreFailure(t *testing.T) {
	handler, tel := newTestServer(t, brokenStore{})

	rec := post(t, handler, "/search_type/role", url.Values{"search_role_option": {"Tank"}})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, tel.Find("broken", report_web_query), 1)
}
