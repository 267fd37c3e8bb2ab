package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards"
	"github.com/anrtools/anr-companion/internal/anr/legality"
	"github.com/anrtools/anr-companion/internal/anr/snapshot"
	"github.com/anrtools/anr-companion/internal/metrics"
	"github.com/anrtools/anr-companion/internal/storage"
)

func intPtr(n int) *int { return &n }

// testPool builds a small Corp card pool: one identity plus enough distinct
// cards to assemble decks with.
func testPool() []*cards.Card {
	pool := []*cards.Card{
		{
			Code: "20064", Title: "Haas-Bioroid: Architects of Tomorrow",
			Side: cards.SideCorp, Faction: "Haas-Bioroid", Type: cards.TypeIdentity,
			SetName: "Revised Core Set", NormalizedTitle: "haas-bioroid-architects-of-tomorrow",
			MinimumDeckSize: 45, InfluenceLimit: 15,
		},
		{
			Code: "20110", Title: "Hedge Fund", Side: cards.SideCorp,
			Faction: "Neutral", Type: "Operation", SetName: "Revised Core Set",
			NormalizedTitle: "hedge-fund",
		},
	}
	for i := 0; i < 20; i++ {
		pool = append(pool, &cards.Card{
			Code:            fmt.Sprintf("21%03d", i),
			Title:           fmt.Sprintf("Test Asset %d", i),
			Side:            cards.SideCorp,
			Faction:         "Haas-Bioroid",
			Type:            cards.TypeAsset,
			SetName:         "Revised Core Set",
			NormalizedTitle: fmt.Sprintf("test-asset-%d", i),
		})
	}
	for i := 0; i < 6; i++ {
		pool = append(pool, &cards.Card{
			Code:            fmt.Sprintf("22%03d", i),
			Title:           fmt.Sprintf("Test Agenda %d", i),
			Side:            cards.SideCorp,
			Faction:         "Haas-Bioroid",
			Type:            cards.TypeAgenda,
			AgendaPoints:    intPtr(2),
			SetName:         "Revised Core Set",
			NormalizedTitle: fmt.Sprintf("test-agenda-%d", i),
		})
	}
	return pool
}

func testServer(t *testing.T) *Server {
	t.Helper()

	store := snapshot.NewStore()
	sets := []cards.CardSet{
		{Name: "Revised Core Set", BigBox: true, Available: time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
	store.Replace(snapshot.New(testPool(), sets, &cards.MWL{
		Name:      "NAPD MWL 2.0",
		DateStart: time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC),
		Cards:     map[string]cards.MWLEntry{},
	}))

	engine := legality.NewEngine(legality.Options{
		Now: func() time.Time { return time.Date(2017, 11, 1, 0, 0, 0, 0, time.UTC) },
	})

	cfg := storage.DefaultConfig(":memory:")
	cfg.AutoMigrate = true
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewServer(DefaultConfig(), store, engine, db, metrics.NewEngineMetrics())
}

// buildList assembles a 45 card deck list with exactly 20 agenda points.
func buildList() string {
	list := "Haas-Bioroid: Architects of Tomorrow\n"
	// 10 agenda copies for 20 points: five agendas at 2 copies.
	for i := 0; i < 5; i++ {
		list += fmt.Sprintf("2x Test Agenda %d\n", i)
	}
	// 32 more cards.
	for i := 0; i < 16; i++ {
		list += fmt.Sprintf("2x Test Asset %d\n", i)
	}
	list += "3x Hedge Fund\n"
	return list
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
}

func TestCheckDeck(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/decks/check", map[string]string{"list": buildList()})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			Status *legality.DeckStatus `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Status == nil {
		t.Fatal("no status in response")
	}
	if body.Data.Status.Overall != legality.StatusLegal {
		t.Errorf("overall = %q, want %q (formats: %+v)", body.Data.Status.Overall, legality.StatusLegal, body.Data.Status.Formats)
	}
	if !body.Data.Status.Formats[legality.FormatValid].Legal {
		t.Error("construction check failed for a valid deck")
	}
}

func TestCheckDeckRejectsBadContentType(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decks/check", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestDeckLifecycle(t *testing.T) {
	s := testServer(t)

	// Create
	rec := doJSON(t, s, http.MethodPost, "/api/v1/decks", map[string]string{
		"name": "HB Asset Spam",
		"list": buildList(),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			ID        string               `json:"id"`
			CardCount int                  `json:"card_count"`
			Status    *legality.DeckStatus `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.ID == "" {
		t.Fatal("created deck has no id")
	}
	if created.Data.CardCount != 45 {
		t.Errorf("card count = %d, want 45", created.Data.CardCount)
	}

	// Get
	rec = doJSON(t, s, http.MethodGet, "/api/v1/decks/"+created.Data.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// List
	rec = doJSON(t, s, http.MethodGet, "/api/v1/decks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	// Status endpoint reuses the stored verdict.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/decks/"+created.Data.ID+"/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d, body %s", rec.Code, rec.Body.String())
	}
	var statusBody struct {
		Data *legality.DeckStatus `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &statusBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if statusBody.Data == nil || statusBody.Data.Overall != created.Data.Status.Overall {
		t.Errorf("status mismatch: %+v vs %+v", statusBody.Data, created.Data.Status)
	}

	// Rename
	rec = doJSON(t, s, http.MethodPut, "/api/v1/decks/"+created.Data.ID, map[string]string{"name": "HB Asset Spam v2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Delete
	rec = doJSON(t, s, http.MethodDelete, "/api/v1/decks/"+created.Data.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/v1/decks/"+created.Data.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
}

func TestCreateDeckRejectsUnknownIdentity(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/v1/decks", map[string]string{
		"name": "Mystery",
		"list": "3x Hedge Fund\n",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCardEndpoints(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/cards/20110", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get card = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/cards/99999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown card = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/cards/title/hedge%20fund", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get by title = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/cards?type=Agenda", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered cards = %d", rec.Code)
	}
	var body struct {
		Data []*cards.Card `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 6 {
		t.Errorf("agenda filter returned %d cards, want 6", len(body.Data))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/sets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sets = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/v1/mwl", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mwl = %d", rec.Code)
	}
}

func TestSystemEndpoints(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/system/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("system status = %d", rec.Code)
	}
	var body struct {
		Data struct {
			CardCount int    `json:"card_count"`
			MWL       string `json:"mwl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.CardCount != len(testPool()) {
		t.Errorf("card count = %d, want %d", body.Data.CardCount, len(testPool()))
	}
	if body.Data.MWL != "NAPD MWL 2.0" {
		t.Errorf("mwl = %q", body.Data.MWL)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/system/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics = %d", rec.Code)
	}

	// No refresh hook configured.
	rec = doJSON(t, s, http.MethodPost, "/api/v1/system/refresh", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("refresh = %d, want 503", rec.Code)
	}
}
