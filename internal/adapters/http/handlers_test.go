package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/dayroute/internal/adapters/http"
	"github.com/samirrijal/dayroute/internal/adapters/valkey"
	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/usecases"
)

// ---- Mocks ----

type mockFuelRepo struct {
	latestFn func(ctx context.Context, region string) (domain.FuelPrice, error)
	upsertFn func(ctx context.Context, price domain.FuelPrice) error
	listFn   func(ctx context.Context) ([]domain.FuelPrice, error)
}

func (m *mockFuelRepo) Latest(ctx context.Context, region string) (domain.FuelPrice, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, region)
	}
	return domain.FuelPrice{}, domain.ErrNotFound
}
func (m *mockFuelRepo) Upsert(ctx context.Context, price domain.FuelPrice) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, price)
	}
	return nil
}
func (m *mockFuelRepo) List(ctx context.Context) ([]domain.FuelPrice, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockDispatcher struct {
	startFn  func(ctx context.Context, days []domain.DayPlanRequest) (string, error)
	resultFn func(ctx context.Context, id string) ([]domain.DayPlanResult, bool, error)
}

func (m *mockDispatcher) Start(ctx context.Context, days []domain.DayPlanRequest) (string, error) {
	if m.startFn != nil {
		return m.startFn(ctx, days)
	}
	return "batch-1", nil
}
func (m *mockDispatcher) Result(ctx context.Context, id string) ([]domain.DayPlanResult, bool, error) {
	if m.resultFn != nil {
		return m.resultFn(ctx, id)
	}
	return nil, false, nil
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return errors.New("connection refused")
}
func (failingCache) Delete(ctx context.Context, key string) error {
	return errors.New("connection refused")
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	fuel := usecases.NewFuelPriceService(&mockFuelRepo{}, "default", 1.45)
	d := &handler.Dependencies{
		Itineraries: usecases.NewItineraryService(nil, nil, nil, fuel, usecases.ItineraryConfig{}),
		Fuel:        fuel,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, readBody(t, resp.Body)
}

func decodeAPIError(t *testing.T, body []byte) handler.APIError {
	t.Helper()
	var e handler.APIError
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error body %s: %v", body, err)
	}
	return e
}

const threeStops = `{
	"activities": [
		{"id": "A", "title": "Cathedral", "category": "sightseeing", "location": {"lat": 0, "lon": 0},
		 "time_slot": {"start": "2026-10-19T09:00:00Z", "end": "2026-10-19T10:00:00Z"}},
		{"id": "C", "title": "Market", "category": "shopping", "location": {"lat": 1, "lon": 1},
		 "time_slot": {"start": "2026-10-19T11:00:00Z", "end": "2026-10-19T12:00:00Z"}},
		{"id": "B", "title": "Lunch", "category": "dining", "location": {"lat": 0, "lon": 1},
		 "time_slot": {"start": "2026-10-19T13:00:00Z", "end": "2026-10-19T14:00:00Z"}}
	]
}`

// ---- Itinerary handler tests ----

func TestOptimize_Success(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := do(t, app, "POST", "/v1/itineraries/optimize", threeStops)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var res domain.DayPlanResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ID == "" {
		t.Error("expected an id")
	}
	var order []string
	for _, a := range res.Result.OptimizedActivities {
		order = append(order, a.ID)
	}
	if strings.Join(order, ",") != "A,B,C" {
		t.Errorf("expected order A,B,C, got %v", order)
	}
	if math.Abs(res.Result.TotalDistanceKm-222.39) > 0.05 {
		t.Errorf("expected ~222.39 km, got %.2f", res.Result.TotalDistanceKm)
	}
	if got := res.Result.OptimizedActivities[1].Category; got != domain.CategoryDining {
		t.Errorf("expected dining for B, got %v", got)
	}
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	if !res.Result.OptimizedActivities[0].TimeSlot.Start.Equal(start) {
		t.Errorf("expected A to keep 09:00, got %v", res.Result.OptimizedActivities[0].TimeSlot.Start)
	}
}

func TestOptimize_EmptyDay(t *testing.T) {
	app := setupApp(makeDeps())

	status, body := do(t, app, "POST", "/v1/itineraries/optimize", `{"activities": []}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var res domain.DayPlanResult
	_ = json.Unmarshal(body, &res)
	if len(res.Result.Suggestions) != 1 || !strings.Contains(res.Result.Suggestions[0], "Add activities") {
		t.Errorf("expected the add-activities suggestion, got %v", res.Result.Suggestions)
	}
}

func TestOptimize_StrictDuplicateID(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{
		"activities": [
			{"id": "x", "category": "dining", "location": {"lat": 1, "lon": 1}},
			{"id": "x", "category": "dining", "location": {"lat": 2, "lon": 2}}
		],
		"options": {"validation": "strict"}
	}`
	status, resp := do(t, app, "POST", "/v1/itineraries/optimize", body)
	if status != 422 {
		t.Fatalf("expected 422, got %d: %s", status, resp)
	}
	e := decodeAPIError(t, resp)
	if e.Code != "validation_failed" {
		t.Errorf("expected validation_failed, got %q", e.Code)
	}
	if e.Kind != string(domain.KindDuplicateID) {
		t.Errorf("expected kind duplicate_id, got %q", e.Kind)
	}
	if e.ActivityID != "x" {
		t.Errorf("expected activity x, got %q", e.ActivityID)
	}
}

func TestOptimize_LenientReportsConflicts(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{
		"activities": [
			{"id": "a", "category": "sightseeing", "location": {"lat": 0, "lon": 0}, "is_locked": true,
			 "time_slot": {"start": "2026-10-19T09:00:00Z", "end": "2026-10-19T10:00:00Z"}},
			{"id": "b", "category": "sightseeing", "location": {"lat": 0, "lon": 1}, "is_locked": true,
			 "time_slot": {"start": "2026-10-19T10:05:00Z", "end": "2026-10-19T11:00:00Z"}}
		]
	}`
	status, resp := do(t, app, "POST", "/v1/itineraries/optimize", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var res domain.DayPlanResult
	_ = json.Unmarshal(resp, &res)
	if len(res.Result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(res.Result.Conflicts))
	}
	if res.Result.Conflicts[0].ActivityID != "b" {
		t.Errorf("expected conflict on b, got %q", res.Result.Conflicts[0].ActivityID)
	}
}

func TestOptimize_UnknownCategory(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"activities": [{"id": "a", "category": "skydiving", "location": {"lat": 1, "lon": 1}}]}`
	status, resp := do(t, app, "POST", "/v1/itineraries/optimize", body)
	if status != 400 {
		t.Fatalf("expected 400, got %d: %s", status, resp)
	}
	e := decodeAPIError(t, resp)
	if _, ok := e.Fields["activities[0].category"]; !ok {
		t.Errorf("expected a field error for activities[0].category, got %v", e.Fields)
	}
}

func TestOptimize_BadOptions(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"activities": [], "options": {"travel_mode": "teleport", "vehicle_type": "rocket", "max_detour_km": -1}}`
	status, resp := do(t, app, "POST", "/v1/itineraries/optimize", body)
	if status != 400 {
		t.Fatalf("expected 400, got %d: %s", status, resp)
	}
	e := decodeAPIError(t, resp)
	for _, f := range []string{"options.travel_mode", "options.vehicle_type", "options.max_detour_km"} {
		if _, ok := e.Fields[f]; !ok {
			t.Errorf("expected a field error for %s, got %v", f, e.Fields)
		}
	}
}

func TestOptimize_MissingLocation(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "POST", "/v1/itineraries/optimize", `{"activities": [{"id": "a"}]}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d: %s", status, resp)
	}
	e := decodeAPIError(t, resp)
	if _, ok := e.Fields["activities[0].location"]; !ok {
		t.Errorf("expected a field error for activities[0].location, got %v", e.Fields)
	}
}

func TestOptimize_MalformedBody(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "POST", "/v1/itineraries/optimize", `{"activities": [`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	if e := decodeAPIError(t, resp); e.Code != "bad_request" {
		t.Errorf("expected bad_request, got %q", e.Code)
	}
}

func TestBatch_KeepsOrder(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"days": [
		{"activities": [{"id": "d1", "category": "dining", "location": {"lat": 1, "lon": 1}}]},
		{"activities": [{"id": "d2", "category": "dining", "location": {"lat": 2, "lon": 2}}]}
	]}`
	status, resp := do(t, app, "POST", "/v1/itineraries/batch", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var out struct {
		Results []domain.DayPlanResult `json:"results"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out.Results))
	}
	if out.Results[0].Result.OptimizedActivities[0].ID != "d1" || out.Results[1].Result.OptimizedActivities[0].ID != "d2" {
		t.Error("expected results in request order")
	}
}

func TestBatch_NoDays(t *testing.T) {
	app := setupApp(makeDeps())

	status, _ := do(t, app, "POST", "/v1/itineraries/batch", `{"days": []}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestAsyncBatch_NotConfigured(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "POST", "/v1/itineraries/batch/async", `{"days": [{"activities": []}]}`)
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
	if e := decodeAPIError(t, resp); e.Code != "unavailable" {
		t.Errorf("expected unavailable, got %q", e.Code)
	}
}

func TestAsyncBatch_StartAndStatus(t *testing.T) {
	var started int
	dispatcher := &mockDispatcher{
		startFn: func(ctx context.Context, days []domain.DayPlanRequest) (string, error) {
			started = len(days)
			return "itinerary-batch-42", nil
		},
		resultFn: func(ctx context.Context, id string) ([]domain.DayPlanResult, bool, error) {
			if id != "itinerary-batch-42" {
				return nil, false, domain.ErrNotFound
			}
			return []domain.DayPlanResult{{ID: "r1"}}, true, nil
		},
	}
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Batches = usecases.NewBatchService(dispatcher, 31)
	}))

	status, resp := do(t, app, "POST", "/v1/itineraries/batch/async", `{"days": [{"activities": []}, {"activities": []}]}`)
	if status != 202 {
		t.Fatalf("expected 202, got %d: %s", status, resp)
	}
	if started != 2 {
		t.Errorf("expected 2 days dispatched, got %d", started)
	}
	var accepted domain.BatchStatus
	_ = json.Unmarshal(resp, &accepted)
	if accepted.ID != "itinerary-batch-42" || accepted.Status != domain.BatchRunning {
		t.Errorf("unexpected accepted body: %+v", accepted)
	}

	status, resp = do(t, app, "GET", "/v1/itineraries/batch/itinerary-batch-42", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var done domain.BatchStatus
	_ = json.Unmarshal(resp, &done)
	if done.Status != domain.BatchCompleted || len(done.Results) != 1 {
		t.Errorf("expected completed with 1 result, got %+v", done)
	}

	status, _ = do(t, app, "GET", "/v1/itineraries/batch/unknown", "")
	if status != 404 {
		t.Errorf("expected 404 for unknown batch, got %d", status)
	}
}

func TestClusters(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{
		"activities": [
			{"id": "a", "location": {"lat": 43.2630, "lon": -2.9350}},
			{"id": "b", "location": {"lat": 43.2640, "lon": -2.9360}},
			{"id": "c", "location": {"lat": 40.4168, "lon": -3.7038}}
		],
		"max_distance_km": 1
	}`
	status, resp := do(t, app, "POST", "/v1/itineraries/clusters", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var out struct {
		Clusters []domain.Cluster `json:"clusters"`
	}
	_ = json.Unmarshal(resp, &out)
	if len(out.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(out.Clusters))
	}
	if len(out.Clusters[0].Activities) != 2 {
		t.Errorf("expected first cluster of 2, got %d", len(out.Clusters[0].Activities))
	}
}

func TestTiming(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"activities": [
		{"id": "museum", "category": "sightseeing", "location": {"lat": 0, "lon": 0},
		 "time_slot": {"start": "2026-10-19T12:00:00Z", "end": "2026-10-19T13:00:00Z"}}
	]}`
	status, resp := do(t, app, "POST", "/v1/itineraries/timing", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var out domain.TimingAdvice
	_ = json.Unmarshal(resp, &out)
	if len(out.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %v", out.Suggestions)
	}
}

// ---- Geo handler tests ----

func TestDistance_Success(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "GET", "/v1/distance?from_lat=0&from_lon=0&to_lat=1&to_lon=0", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var out struct {
		DistanceKm float64 `json:"distance_km"`
	}
	_ = json.Unmarshal(resp, &out)
	if math.Abs(out.DistanceKm-111.19) > 0.01 {
		t.Errorf("expected ~111.19 km, got %.3f", out.DistanceKm)
	}
}

func TestDistance_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "GET", "/v1/distance?from_lat=1", "")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	e := decodeAPIError(t, resp)
	if len(e.Fields) != 3 {
		t.Errorf("expected 3 missing fields, got %v", e.Fields)
	}
}

func TestDistance_OutOfRange(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "GET", "/v1/distance?from_lat=91&from_lon=0&to_lat=0&to_lon=0", "")
	if status != 422 {
		t.Fatalf("expected 422, got %d", status)
	}
	if e := decodeAPIError(t, resp); e.Kind != string(domain.KindInvalidCoordinate) {
		t.Errorf("expected invalid_coordinate, got %q", e.Kind)
	}
}

func TestDistance_ETag(t *testing.T) {
	app := setupApp(makeDeps())
	target := "/v1/distance?from_lat=0&from_lon=0&to_lat=0&to_lon=1"

	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("If-None-Match", etag)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

func TestTravelTime(t *testing.T) {
	app := setupApp(makeDeps())

	tests := []struct {
		query string
		want  int
	}{
		{"distance_km=10&mode=walking", 120},
		{"distance_km=10", 24},
		{"distance_km=10&mode=public_transport", 30},
		{"distance_km=0&mode=driving", 0},
	}
	for _, tt := range tests {
		status, resp := do(t, app, "GET", "/v1/travel-time?"+tt.query, "")
		if status != 200 {
			t.Fatalf("%s: expected 200, got %d: %s", tt.query, status, resp)
		}
		var out struct {
			Minutes int `json:"minutes"`
		}
		_ = json.Unmarshal(resp, &out)
		if out.Minutes != tt.want {
			t.Errorf("%s: expected %d minutes, got %d", tt.query, tt.want, out.Minutes)
		}
	}
}

func TestTravelTime_BadMode(t *testing.T) {
	app := setupApp(makeDeps())

	status, _ := do(t, app, "GET", "/v1/travel-time?distance_km=3&mode=teleport", "")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

// ---- Fuel price handler tests ----

func TestPutFuelPrice(t *testing.T) {
	var stored domain.FuelPrice
	repo := &mockFuelRepo{
		upsertFn: func(ctx context.Context, price domain.FuelPrice) error {
			stored = price
			return nil
		},
	}
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Fuel = usecases.NewFuelPriceService(repo, "default", 1.45)
	}))

	status, resp := do(t, app, "PUT", "/v1/fuel-prices/basque-country", `{"price_per_liter": 1.62}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	if stored.Region != "basque-country" || stored.PricePerLiter != 1.62 || stored.Currency != "EUR" {
		t.Errorf("unexpected stored price: %+v", stored)
	}
}

func TestPutFuelPrice_Invalid(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "PUT", "/v1/fuel-prices/default", `{"price_per_liter": 0, "currency": "eu"}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	e := decodeAPIError(t, resp)
	if _, ok := e.Fields["price_per_liter"]; !ok {
		t.Errorf("expected price_per_liter field error, got %v", e.Fields)
	}
	if _, ok := e.Fields["currency"]; !ok {
		t.Errorf("expected currency field error, got %v", e.Fields)
	}
}

func TestListFuelPrices_Pagination(t *testing.T) {
	repo := &mockFuelRepo{
		listFn: func(ctx context.Context) ([]domain.FuelPrice, error) {
			return []domain.FuelPrice{
				{Region: "a", PricePerLiter: 1.4},
				{Region: "b", PricePerLiter: 1.5},
				{Region: "c", PricePerLiter: 1.6},
			}, nil
		},
	}
	app := setupApp(makeDeps(func(d *handler.Dependencies) {
		d.Fuel = usecases.NewFuelPriceService(repo, "default", 1.45)
	}))

	req := httptest.NewRequest("GET", "/v1/fuel-prices?offset=1&limit=1", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Data       []domain.FuelPrice `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(readBody(t, resp.Body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != 1 || out.Data[0].Region != "b" {
		t.Errorf("expected region b, got %+v", out.Data)
	}
	if out.Pagination.Total != 3 {
		t.Errorf("expected total 3, got %d", out.Pagination.Total)
	}
	link := resp.Header.Get("Link")
	if !strings.Contains(link, `rel="next"`) || !strings.Contains(link, `rel="prev"`) {
		t.Errorf("expected next and prev links, got %q", link)
	}
}

func TestCurrentFuelPrice_Fallback(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "GET", "/v1/fuel-prices/current", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var price domain.FuelPrice
	_ = json.Unmarshal(resp, &price)
	if price.PricePerLiter != 1.45 {
		t.Errorf("expected fallback 1.45, got %v", price.PricePerLiter)
	}
}

// ---- System handler tests ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "GET", "/v1/health", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(resp), `"healthy"`) {
		t.Errorf("unexpected body: %s", resp)
	}
}

func TestReady_NothingConfigured(t *testing.T) {
	app := setupApp(makeDeps())

	status, resp := do(t, app, "GET", "/v1/ready", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var out struct {
		Checks map[string]string `json:"checks"`
	}
	_ = json.Unmarshal(resp, &out)
	if out.Checks["database"] != "not configured" {
		t.Errorf("expected database not configured, got %q", out.Checks["database"])
	}
}

func readyChecks(t *testing.T, app *fiber.App) (int, map[string]string) {
	t.Helper()
	status, resp := do(t, app, "GET", "/v1/ready", "")
	var out struct {
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return status, out.Checks
}

func TestReady_ReportsCacheBreaker(t *testing.T) {
	guard := valkey.NewBreakerCache(failingCache{}, valkey.DefaultBreakerSettings(), nil)
	app := setupApp(makeDeps(func(d *handler.Dependencies) { d.CacheGuard = guard }))

	status, checks := readyChecks(t, app)
	if status != 200 {
		t.Fatalf("expected 200 while breaker is closed, got %d", status)
	}
	if checks["cache_breaker"] != "closed" {
		t.Errorf("expected closed, got %q", checks["cache_breaker"])
	}

	for i := 0; i < 5; i++ {
		_, _ = guard.Get(context.Background(), "k")
	}

	status, checks = readyChecks(t, app)
	if status != 503 {
		t.Fatalf("expected 503 while breaker is open, got %d", status)
	}
	if checks["cache_breaker"] != "open" {
		t.Errorf("expected open, got %q", checks["cache_breaker"])
	}
}

func TestGraphQL_Distance(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"query": "{ distance(from: {lat: 0, lon: 0}, to: {lat: 1, lon: 0}) travelTime(distance_km: 10, mode: \"walking\") }"}`
	status, resp := do(t, app, "POST", "/graphql", body)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var out struct {
		Data struct {
			Distance   float64 `json:"distance"`
			TravelTime int     `json:"travelTime"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	if math.Abs(out.Data.Distance-111.19) > 0.01 {
		t.Errorf("expected ~111.19 km, got %.3f", out.Data.Distance)
	}
	if out.Data.TravelTime != 120 {
		t.Errorf("expected 120 minutes, got %d", out.Data.TravelTime)
	}
}

func TestGraphQL_Optimize(t *testing.T) {
	app := setupApp(makeDeps())

	query := `{ optimize(activities: [` +
		`{id: \"A\", category: \"sightseeing\", location: {lat: 0, lon: 0}},` +
		`{id: \"C\", category: \"shopping\", location: {lat: 1, lon: 1}},` +
		`{id: \"B\", category: \"dining\", location: {lat: 0, lon: 1}}` +
		`], options: {travel_mode: \"driving\"}) { id result { algorithm optimized_activities { id category } } } }`
	status, resp := do(t, app, "POST", "/graphql", `{"query": "`+query+`"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, resp)
	}
	var out struct {
		Data struct {
			Optimize struct {
				ID     string `json:"id"`
				Result struct {
					Algorithm  string `json:"algorithm"`
					Activities []struct {
						ID       string `json:"id"`
						Category string `json:"category"`
					} `json:"optimized_activities"`
				} `json:"result"`
			} `json:"optimize"`
		} `json:"data"`
		Errors []any `json:"errors"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	acts := out.Data.Optimize.Result.Activities
	if len(acts) != 3 || acts[0].ID != "A" || acts[1].ID != "B" || acts[2].ID != "C" {
		t.Errorf("expected A,B,C, got %+v", acts)
	}
	if acts[1].Category != "dining" {
		t.Errorf("expected dining, got %q", acts[1].Category)
	}
	if out.Data.Optimize.Result.Algorithm != "nearest_neighbor" {
		t.Errorf("expected nearest_neighbor, got %q", out.Data.Optimize.Result.Algorithm)
	}
}

func TestGraphQL_EmptyQuery(t *testing.T) {
	app := setupApp(makeDeps())

	status, _ := do(t, app, "POST", "/graphql", `{"query": ""}`)
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}
