package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"example.com/bankquest/backend/internal/config"
	"example.com/bankquest/backend/internal/database"
	"example.com/bankquest/backend/internal/repository"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/balances/"):
			_, _ = io.WriteString(w, "250000")
		case strings.HasPrefix(r.URL.Path, "/transactions/"):
			_, _ = io.WriteString(w, `[
				{"transactionId": 1, "fromAccountNum": "alice", "toAccountNum": "1011226111", "amount": 1599, "description": "Coffee", "timestamp": "2026-10-01T10:00:00Z"},
				{"transactionId": 2, "fromAccountNum": "9999999999", "toAccountNum": "alice", "amount": 100000, "description": "Salary", "timestamp": "2026-10-01T09:00:00Z"}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	return upstream
}

func testConfig(upstreamURL string) config.Config {
	return config.Config{
		Env:     "test",
		Version: "9.9.9",
		AI: config.AIConfig{
			Provider: config.ProviderNone,
			Timeout:  time.Second,
		},
		Upstream: config.UpstreamConfig{
			BalanceURL:  upstreamURL,
			HistoryURL:  upstreamURL,
			Timeout:     time.Second,
			DemoUserID:  "demo_user",
			RecentLimit: 20,
		},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{PerMinute: 6000, Burst: 1000},
	}
}

func newTestServer(t *testing.T, cfg config.Config) *echo.Echo {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store := repository.NewSQLiteStore(db)
	t.Cleanup(func() { _ = store.Close() })

	e, err := New(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)), store)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	return e
}

func doRequest(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

var bearer = map[string]string{echo.HeaderAuthorization: "Bearer token"}

// TestServiceEndpoints проверяет служебные маршруты.
func TestServiceEndpoints(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))

	rec := doRequest(e, http.MethodGet, "/ready", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("ready: %d %q", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/version", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "9.9.9" {
		t.Fatalf("version: %d %q", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["status"] != "ok" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}
}

// TestAuthorizationRequired проверяет 401 без заголовка Authorization.
func TestAuthorizationRequired(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))

	for _, target := range []string{"/user-profile/alice", "/challenges/alice", "/additional-tasks/alice"} {
		rec := doRequest(e, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, rec.Code)
		}
		if decodeBody(t, rec)["error"] != "Authorization header required" {
			t.Fatalf("%s: unexpected body %q", target, rec.Body.String())
		}
	}
}

// TestUserProfile проверяет сборку профиля и имя из токена.
func TestUserProfile(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": "Alice"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec := doRequest(e, http.MethodGet, "/user-profile/alice", "", map[string]string{echo.HeaderAuthorization: "Bearer " + token})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["user_name"] != "Alice" {
		t.Fatalf("expected Alice, got %v", body["user_name"])
	}
	if body["balance"] != float64(2500) {
		t.Fatalf("expected balance 2500, got %v", body["balance"])
	}
	if body["transaction_count"] != float64(2) {
		t.Fatalf("expected 2 transactions, got %v", body["transaction_count"])
	}
	if body["user_goal"] != nil {
		t.Fatalf("expected no goal, got %v", body["user_goal"])
	}
}

// TestGoalRoundTrip проверяет сохранение цели и ее последующее чтение.
func TestGoalRoundTrip(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))

	rec := doRequest(e, http.MethodGet, "/goals/alice", "", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["goal"] != nil {
		t.Fatalf("expected empty goal, got %d %q", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodPost, "/goals/alice", `{"goal": "   "}`, nil)
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Goal is required" {
		t.Fatalf("expected 400 Goal is required, got %d %q", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodPost, "/goals/alice", `{"goal": "Save $500 for vacation"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("set goal: %d %q", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Goal set successfully" || body["user_id"] != "alice" {
		t.Fatalf("unexpected set response: %v", body)
	}
	parsed := body["parsed_goal"].(map[string]any)
	if parsed["amount"] != float64(500) || parsed["category"] != "vacation" {
		t.Fatalf("unexpected parsed goal: %v", parsed)
	}

	rec = doRequest(e, http.MethodGet, "/goals/alice", "", nil)
	body = decodeBody(t, rec)
	if body["goal"] != "Save $500 for vacation" || body["status"] != "active" {
		t.Fatalf("unexpected stored goal: %v", body)
	}
	if body["created_at"] == nil {
		t.Fatalf("expected created_at")
	}
}

// TestChallengeFallbackIsStored проверяет, что запасной челлендж сохраняется в истории.
func TestChallengeFallbackIsStored(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))

	rec := doRequest(e, http.MethodPost, "/goals/alice", `{"goal": "Buy a laptop for $1000"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("set goal: %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/challenges/alice", "", bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate challenge: %d %q", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["source"] != "fallback" {
		t.Fatalf("expected fallback source, got %v", body["source"])
	}
	if body["title"] != "Weekly Saver" || body["user_balance"] != float64(2500) {
		t.Fatalf("unexpected challenge: %v", body)
	}
	if body["user_goal"] != "Buy a laptop for $1000" {
		t.Fatalf("expected user goal in response, got %v", body["user_goal"])
	}
	if tips := body["tips"].([]any); len(tips) != 3 {
		t.Fatalf("expected 3 tips, got %d", len(tips))
	}

	rec = doRequest(e, http.MethodGet, "/challenges/alice/history", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: %d", rec.Code)
	}
	history := decodeBody(t, rec)["challenges"].([]any)
	if len(history) != 1 {
		t.Fatalf("expected 1 stored challenge, got %d", len(history))
	}
	stored := history[0].(map[string]any)
	if stored["id"] != body["challenge_id"] || stored["source"] != "fallback" {
		t.Fatalf("stored challenge mismatch: %v vs %v", stored, body["challenge_id"])
	}
}

// TestGamificationEndpoints проверяет значки, серии, рейтинг, эмодзи и задания.
func TestGamificationEndpoints(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))

	rec := doRequest(e, http.MethodGet, "/achievements/alice?xp=120&level=2", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("achievements: %d %q", rec.Code, rec.Body.String())
	}
	if achievements := decodeBody(t, rec)["achievements"].([]any); len(achievements) == 0 {
		t.Fatalf("expected achievements")
	}

	rec = doRequest(e, http.MethodGet, "/streak-message/alice?current_streak=7", "", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["motivational_message"] == "" {
		t.Fatalf("streak: %d %q", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/leaderboard-context/alice?position=3", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(decodeBody(t, rec)["position_message"].(string), "#3") {
		t.Fatalf("leaderboard: %d %q", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodPost, "/generate-emoji", `{"goal": ""}`, nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["emoji"] != "💰" {
		t.Fatalf("emoji: %d %q", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/additional-tasks/alice", "", bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("tasks: %d %q", rec.Code, rec.Body.String())
	}
	if tasks := decodeBody(t, rec)["tasks"].([]any); len(tasks) == 0 {
		t.Fatalf("expected tasks")
	}
}

// TestQueryValidation проверяет 400 на некорректные query-параметры.
func TestQueryValidation(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))

	cases := []string{
		"/achievements/alice?xp=lots",
		"/achievements/alice?level=0",
		"/leaderboard-context/alice?position=-1",
		"/challenges/alice/history?limit=500",
	}
	for _, target := range cases {
		rec := doRequest(e, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

// TestRateLimit проверяет ограничение частоты запросов к генерации.
func TestRateLimit(t *testing.T) {
	cfg := testConfig(newUpstream(t).URL)
	cfg.RateLimit = config.RateLimitConfig{PerMinute: 1, Burst: 1}
	e := newTestServer(t, cfg)

	first := doRequest(e, http.MethodPost, "/generate-emoji", `{"goal": "trip"}`, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first request: %d", first.Code)
	}

	second := doRequest(e, http.MethodPost, "/generate-emoji", `{"goal": "trip"}`, nil)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}

	if rec := doRequest(e, http.MethodGet, "/ready", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("ready must not be limited, got %d", rec.Code)
	}
}

// TestNotificationStream проверяет доставку события goal_set в SSE-поток.
func TestNotificationStream(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/notifications/alice/stream", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get(echo.HeaderContentType); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	if event := readEvent(t, reader); event != "connected" {
		t.Fatalf("expected connected event, got %q", event)
	}

	post, err := http.Post(srv.URL+"/goals/alice", echo.MIMEApplicationJSON, strings.NewReader(`{"goal": "Build emergency fund"}`))
	if err != nil {
		t.Fatalf("post goal: %v", err)
	}
	_ = post.Body.Close()

	if event := readEvent(t, reader); event != "goal_set" {
		t.Fatalf("expected goal_set event, got %q", event)
	}
}

func readEvent(t *testing.T, reader *bufio.Reader) string {
	t.Helper()

	var event string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case line == "" && event != "":
			return event
		}
	}
}

// TestRateLimitCountsUnauthorizedRequests проверяет, что запросы без токена тоже ограничиваются.
func TestRateLimitCountsUnauthorizedRequests(t *testing.T) {
	cfg := testConfig(newUpstream(t).URL)
	cfg.RateLimit = config.RateLimitConfig{PerMinute: 1, Burst: 1}
	e := newTestServer(t, cfg)

	first := doRequest(e, http.MethodGet, "/challenges/alice", "", nil)
	if first.Code != http.StatusUnauthorized {
		t.Fatalf("first request: expected 401, got %d", first.Code)
	}

	second := doRequest(e, http.MethodGet, "/challenges/alice", "", nil)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
}

// TestNotificationStreamOutlivesWriteTimeout проверяет, что SSE-поток не обрывается по WriteTimeout.
func TestNotificationStreamOutlivesWriteTimeout(t *testing.T) {
	e := newTestServer(t, testConfig(newUpstream(t).URL))
	srv := httptest.NewUnstartedServer(e)
	srv.Config.WriteTimeout = 200 * time.Millisecond
	srv.Start()
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/notifications/bob/stream", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	if event := readEvent(t, reader); event != "connected" {
		t.Fatalf("expected connected event, got %q", event)
	}

	time.Sleep(500 * time.Millisecond)

	post, err := http.Post(srv.URL+"/goals/bob", echo.MIMEApplicationJSON, strings.NewReader(`{"goal": "Save $200"}`))
	if err != nil {
		t.Fatalf("post goal: %v", err)
	}
	_ = post.Body.Close()

	if event := readEvent(t, reader); event != "goal_set" {
		t.Fatalf("expected goal_set event after write timeout, got %q", event)
	}
}
