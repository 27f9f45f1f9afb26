package ginserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loftcal/internal/app/commands"
	"loftcal/internal/app/dto"
	availabilityapp "loftcal/internal/app/handlers/availability"
	overridesapp "loftcal/internal/app/handlers/overrides"
	"loftcal/internal/app/middleware"
	"loftcal/internal/app/outbox"
	"loftcal/internal/app/policies"
	"loftcal/internal/app/queries"
	domain "loftcal/internal/domain/availability"
	"loftcal/internal/infra/i18n"
	"loftcal/internal/infra/obs"
	"loftcal/internal/infra/storage/memory"
)

type recordingStore struct {
	keys []string
}

func (s *recordingStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "https://exports.test/" + key, nil
}

type fixture struct {
	router http.Handler
	box    *memory.Outbox
	store  *recordingStore
}

func newFixture(t *testing.T, store policies.ObjectStore) fixture {
	t.Helper()
	ctx := context.Background()
	factory := memory.NewFactory()
	if err := factory.Properties.Save(ctx, domain.Property{ID: "loft-1", Name: "Loft Bab El Oued", OwnerID: "owner-1"}); err != nil {
		t.Fatalf("seed loft: %v", err)
	}
	if err := factory.Properties.Save(ctx, domain.Property{ID: "loft-123-456-789", OwnerID: "owner-2"}); err != nil {
		t.Fatalf("seed loft: %v", err)
	}
	if err := factory.Reservations.Save(ctx, domain.ReservationInterval{ID: "r1", PropertyID: "loft-1", CheckIn: "2024-05-01", CheckOut: "2024-05-03", Status: domain.ReservationConfirmed}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	box := memory.NewOutbox()
	now := func() time.Time { return time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC) }
	renderer := &availabilityapp.Renderer{
		UoWFactory:    factory,
		Translate:     i18n.MustNew().Translate,
		DefaultLocale: domain.LocaleFrench,
		Location:      time.UTC,
		MaxWindowDays: 62,
		Outbox:        box,
		Encoder:       outbox.JSONEventEncoder{},
		Now:           now,
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetAvailabilityQuery{}.Key(), &availabilityapp.GetAvailabilityHandler{Renderer: renderer})
	queries.RegisterHandler(queryBus, availabilityapp.GetLoftCalendarQuery{}.Key(), &availabilityapp.GetLoftCalendarHandler{Renderer: renderer})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, availabilityapp.ExportAvailabilityCommand{}.Key(), &availabilityapp.ExportAvailabilityHandler{Renderer: renderer, Store: store})
	commands.RegisterHandler(commandBus, overridesapp.SetOverrideCommand{}.Key(), &overridesapp.SetOverrideHandler{Now: now})
	commands.RegisterHandler(commandBus, overridesapp.ClearOverrideCommand{}.Key(), &overridesapp.ClearOverrideHandler{Now: now})

	cmds := middleware.ChainCommands(commandBus,
		middleware.RequireActor(),
		middleware.Idempotency(memory.NewIdempotencyStore(time.Hour), time.Hour),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box, outbox.JSONEventEncoder{}),
	)
	router := NewRouter("test", obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Availability: AvailabilityHandler{Queries: queryBus, Commands: cmds},
		Overrides:    OverrideHandler{Commands: cmds},
	})
	rs, _ := store.(*recordingStore)
	return fixture{router: router, box: box, store: rs}
}

func (f fixture) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func TestBoard(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/v1/availability?from=2024-05-01&to=2024-05-05", "", map[string]string{"Accept-Language": "en-US,en;q=0.9"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(obs.RequestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
	board := decode[dto.AvailabilityBoard](t, rec)
	if board.Locale != "en" || board.Today != "2024-05-02" {
		t.Fatalf("unexpected board header %+v", board)
	}
	if len(board.Lofts) != 2 {
		t.Fatalf("expected 2 lofts, got %d", len(board.Lofts))
	}
	first := board.Lofts[0]
	if !first.IsOccupiedToday || first.Days[0].Status != "occupied" || first.Days[0].Title != "Occupied - Loft Bab El Oued" {
		t.Fatalf("unexpected first loft %+v", first)
	}
	if first.Days[3].Status != "available" || first.Days[3].Title != "" {
		t.Fatalf("available days carry no title, got %+v", first.Days[3])
	}
	if board.Summary["occupied"] != 3 || board.Summary["available"] != 7 {
		t.Fatalf("unexpected summary %v", board.Summary)
	}
}

func TestBoardFilters(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/v1/availability?from=2024-05-01&to=2024-05-02&owner_id=owner-2", "", nil)
	board := decode[dto.AvailabilityBoard](t, rec)
	if len(board.Lofts) != 1 || board.Lofts[0].ID != "loft-123-456-789" {
		t.Fatalf("owner filter not applied: %+v", board.Lofts)
	}
	rec = f.do(t, http.MethodGet, "/api/v1/availability?from=2024-05-01&to=2024-05-02&property_id=loft-1,loft-1", "", nil)
	board = decode[dto.AvailabilityBoard](t, rec)
	if len(board.Lofts) != 1 || board.Lofts[0].ID != "loft-1" {
		t.Fatalf("id filter not applied: %+v", board.Lofts)
	}
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t, nil)
	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		headers map[string]string
		want    int
	}{
		{name: "malformed window", method: http.MethodGet, target: "/api/v1/availability?from=2024-02-30&to=2024-03-01", want: http.StatusBadRequest},
		{name: "window too large", method: http.MethodGet, target: "/api/v1/availability?from=2024-01-01&to=2024-12-31", want: http.StatusBadRequest},
		{name: "unknown loft", method: http.MethodGet, target: "/api/v1/lofts/ghost/calendar?from=2024-05-01&to=2024-05-02", want: http.StatusNotFound},
		{name: "override without actor", method: http.MethodPut, target: "/api/v1/lofts/loft-1/overrides/2024-05-04", body: `{"is_available":false}`, want: http.StatusUnauthorized},
		{name: "override on unknown loft", method: http.MethodPut, target: "/api/v1/lofts/ghost/overrides/2024-05-04", body: `{"is_available":false}`, headers: map[string]string{ActorHeader: "ops"}, want: http.StatusNotFound},
		{name: "override bad date", method: http.MethodPut, target: "/api/v1/lofts/loft-1/overrides/04-05-2024", body: `{"is_available":false}`, headers: map[string]string{ActorHeader: "ops"}, want: http.StatusBadRequest},
		{name: "clear missing override", method: http.MethodDelete, target: "/api/v1/lofts/loft-1/overrides/2024-05-04", headers: map[string]string{ActorHeader: "ops"}, want: http.StatusNotFound},
		{name: "export without storage", method: http.MethodPost, target: "/api/v1/availability/exports", body: `{"from":"2024-05-01","to":"2024-05-02"}`, headers: map[string]string{ActorHeader: "ops"}, want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.target, tt.body, tt.headers)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestOverrideLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ops := map[string]string{ActorHeader: "ops-7"}

	rec := f.do(t, http.MethodPut, "/api/v1/lofts/loft-123-456-789/overrides/2024-05-04", `{"is_available":false,"reason":"Fuite d'eau, maintenance"}`, ops)
	if rec.Code != http.StatusOK {
		t.Fatalf("set status %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[dto.OverrideResult](t, rec); got.Status != "maintenance" {
		t.Fatalf("unexpected override result %+v", got)
	}
	if pending := f.box.Pending(); len(pending) != 1 || pending[0].Name != "override.set" {
		t.Fatalf("expected one override.set record, got %+v", pending)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/lofts/loft-123-456-789/calendar?from=2024-05-03&to=2024-05-05&locale=fr", "", nil)
	cal := decode[dto.LoftCalendar](t, rec)
	if len(cal.Days) != 3 || cal.Days[1].Title != "Maintenance - Loft 789" {
		t.Fatalf("unexpected calendar %+v", cal)
	}

	rec = f.do(t, http.MethodDelete, "/api/v1/lofts/loft-123-456-789/overrides/2024-05-04", "", ops)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status %d: %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodGet, "/api/v1/lofts/loft-123-456-789/calendar?from=2024-05-04&to=2024-05-04", "", nil)
	cal = decode[dto.LoftCalendar](t, rec)
	if cal.Days[0].Status != "available" {
		t.Fatalf("cleared day must be available, got %+v", cal.Days[0])
	}
}

func TestExportIdempotency(t *testing.T) {
	store := &recordingStore{}
	f := newFixture(t, store)
	headers := map[string]string{ActorHeader: "ops", IdempotencyHeader: "export-1"}
	body := `{"from":"2024-05-01","to":"2024-05-07","locale":"ar"}`

	first := f.do(t, http.MethodPost, "/api/v1/availability/exports", body, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", first.Code, first.Body.String())
	}
	res := decode[dto.ExportResult](t, first)
	if res.Lofts != 2 || !strings.HasPrefix(res.Key, "exports/availability/2024-05-01_2024-05-07/") {
		t.Fatalf("unexpected export %+v", res)
	}

	again := f.do(t, http.MethodPost, "/api/v1/availability/exports", body, headers)
	if again.Code != http.StatusCreated {
		t.Fatalf("replay status %d", again.Code)
	}
	if decode[dto.ExportResult](t, again).Key != res.Key || len(f.store.keys) != 1 {
		t.Fatalf("replay must not upload again (uploads: %v)", f.store.keys)
	}

	conflict := f.do(t, http.MethodPost, "/api/v1/availability/exports", `{"from":"2024-05-01","to":"2024-05-08"}`, headers)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected conflict, got %d", conflict.Code)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	if rec := f.do(t, http.MethodGet, "/livez", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("livez %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("readyz %d", rec.Code)
	}
}
