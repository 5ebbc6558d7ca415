package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-numerals/pkg/history"
	"github.com/goliatone/go-numerals/pkg/roman"
	"github.com/goliatone/go-numerals/pkg/service"
	"github.com/goliatone/go-numerals/pkg/testsupport"
)

func newTestServer(t *testing.T, options ...Option) (*Server, *history.Store, *prometheus.Registry) {
	t.Helper()
	store := testsupport.OpenStore(t)

	reg := prometheus.NewRegistry()
	svc := service.New(service.WithRecorder(store))
	opts := append([]Option{WithJournal(store), WithRegistry(reg)}, options...)
	srv, err := New(context.Background(), svc, opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, store, reg
}

func doRequest(t *testing.T, h http.Handler, method, target string, body url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresService(t *testing.T) {
	if _, err := New(context.Background(), nil); err != ErrNoService {
		t.Fatalf("expected ErrNoService, got %v", err)
	}
}

func TestConvertAPI_Success(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		value string
		want  convertBody
	}{
		{
			value: "1994",
			want: convertBody{
				Input: "1994", Kind: "decimal", Decimal: 1994, Roman: "MCMXCIV",
				ConversionType: history.TypeDecimalToRoman,
				Message:        "1994 is a DecimalNumber, and its converted value is MCMXCIV.",
			},
		},
		{
			value: "mmxxiv",
			want: convertBody{
				Input: "MMXXIV", Kind: "roman", Decimal: 2024, Roman: "MMXXIV",
				ConversionType: history.TypeRomanToDecimal,
				Message:        "MMXXIV is a RomanNumber, and its converted value is 2024.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, "/api/convert?value="+url.QueryEscape(tt.value), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var got convertBody
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertAPI_Errors(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		value    string
		status   int
		kind     string
		messages []string
	}{
		{value: "12ab", status: http.StatusBadRequest, kind: "mixed_format"},
		{value: "", status: http.StatusBadRequest, kind: "malformed_input"},
		{value: "?!", status: http.StatusBadRequest, kind: "malformed_input"},
		{value: "4000", status: http.StatusUnprocessableEntity, kind: "out_of_range"},
		{value: "MMMM", status: http.StatusUnprocessableEntity, kind: "out_of_range"},
		{
			value:    "IIII",
			status:   http.StatusUnprocessableEntity,
			kind:     "rule_violation",
			messages: []string{roman.RuleRepeats.Message()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.value, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, "/api/convert?value="+url.QueryEscape(tt.value), nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var got errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Error.Kind != tt.kind {
				t.Fatalf("kind = %q, want %q", got.Error.Kind, tt.kind)
			}
			if got.Error.Message == "" {
				t.Fatalf("expected error message")
			}
			if diff := cmp.Diff(tt.messages, got.Error.Messages); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertAPI_UpdatesHistoryAndMetrics(t *testing.T) {
	srv, store, _ := newTestServer(t)

	for _, v := range []string{"10", "X", "XIZ", "3"} {
		doRequest(t, srv, http.MethodGet, "/api/convert?value="+v, nil)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/stats", nil)
	var counters history.Counters
	if err := json.Unmarshal(rec.Body.Bytes(), &counters); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	want := history.Counters{Initiated: 1, Requests: 4, RomanToDecimal: 1, DecimalToRoman: 2}
	if diff := cmp.Diff(want, counters); diff != "" {
		t.Fatalf("counters mismatch (-want +got):\n%s", diff)
	}

	lines, err := store.History(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(lines) != 5 {
		t.Fatalf("expected start line plus 4 entries, got %v", lines)
	}

	if got := testutil.ToFloat64(srv.metrics.conversions.WithLabelValues(history.TypeDecimalToRoman)); got != 2 {
		t.Fatalf("decimal_to_roman conversions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(srv.metrics.rejections.WithLabelValues("malformed_input")); got != 1 {
		t.Fatalf("malformed rejections = %v, want 1", got)
	}
}

func TestHistoryAndClearAPI(t *testing.T) {
	srv, _, _ := newTestServer(t)
	doRequest(t, srv, http.MethodGet, "/api/convert?value=7", nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/history", nil)
	var hist historyBody
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	want := []string{
		testsupport.StartLine,
		"7 is a DecimalNumber, and its converted value is VII.",
	}
	if diff := cmp.Diff(want, hist.Entries); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/clear", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/history", nil)
	hist = historyBody{}
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Entries) != 0 {
		t.Fatalf("expected empty history after clear, got %v", hist.Entries)
	}
}

func TestHistoryEndpoints_DisabledWithoutJournal(t *testing.T) {
	srv, err := New(context.Background(), service.New())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	for _, target := range []string{"/api/history", "/api/stats"} {
		rec := doRequest(t, srv, http.MethodGet, target, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d, want 404", target, rec.Code)
		}
	}
	if rec := doRequest(t, srv, http.MethodPost, "/api/clear", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("clear status = %d, want 404", rec.Code)
	}
}

func TestRulesAPI(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/rules", nil)

	var got rulesBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Rules) != len(roman.Rules()) {
		t.Fatalf("expected %d rules, got %d", len(roman.Rules()), len(got.Rules))
	}
	if got.Rules[0].Name != roman.RuleRepeats.Name() {
		t.Fatalf("first rule = %q", got.Rules[0].Name)
	}
}

func TestIndex_RendersConversion(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/", url.Values{"value": {"1994"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "1994 is a DecimalNumber, and its converted value is MCMXCIV.") {
		t.Fatalf("expected result in page, got:\n%s", body)
	}
	if !strings.Contains(body, `class="panel ok"`) {
		t.Fatalf("expected success styling")
	}
}

func TestIndex_SanitizesEchoedInput(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/", url.Values{"value": {`<script>alert(1)</script>`}})
	body := rec.Body.String()
	if strings.Contains(body, "<script>alert") {
		t.Fatalf("script tag echoed into page:\n%s", body)
	}
	if !strings.Contains(body, `class="panel error"`) {
		t.Fatalf("expected error styling")
	}
}

func TestIndex_EchoedInputCannotBreakOutOfAttribute(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/", url.Values{"value": {`x" autofocus onfocus="alert`}})
	body := rec.Body.String()
	if strings.Contains(body, `onfocus="alert`) {
		t.Fatalf("input escaped the value attribute:\n%s", body)
	}
	if !strings.Contains(body, "&#34;") {
		t.Fatalf("expected quotes to be entity-escaped:\n%s", body)
	}
}

func TestIndex_ThemeVariants(t *testing.T) {
	srv, _, _ := newTestServer(t)

	dark := doRequest(t, srv, http.MethodGet, "/?theme=dark", nil).Body.String()
	if !strings.Contains(dark, `data-theme="dark"`) || !strings.Contains(dark, "--background: #18181b;") {
		t.Fatalf("expected dark palette, got:\n%s", dark)
	}

	fallback := doRequest(t, srv, http.MethodGet, "/?theme=sepia", nil).Body.String()
	if !strings.Contains(fallback, `data-theme="light"`) || !strings.Contains(fallback, "--background: #ffffff;") {
		t.Fatalf("expected light fallback, got:\n%s", fallback)
	}
}

func TestIndex_Views(t *testing.T) {
	srv, _, _ := newTestServer(t)
	doRequest(t, srv, http.MethodGet, "/api/convert?value=XL", nil)

	logs := doRequest(t, srv, http.MethodGet, "/?view=logs", nil).Body.String()
	if !strings.Contains(logs, "XL is a RomanNumber, and its converted value is 40.") {
		t.Fatalf("expected log entry in logs view:\n%s", logs)
	}

	data := doRequest(t, srv, http.MethodGet, "/?view=data", nil).Body.String()
	if !strings.Contains(data, history.LabelRomanToDecimal+": 1") {
		t.Fatalf("expected counters in data view:\n%s", data)
	}

	rules := doRequest(t, srv, http.MethodGet, "/?view=rules", nil).Body.String()
	if !strings.Contains(rules, roman.RuleVLD.Name()) {
		t.Fatalf("expected rules view:\n%s", rules)
	}
}

func TestClearForm_Redirects(t *testing.T) {
	srv, store, _ := newTestServer(t)
	doRequest(t, srv, http.MethodGet, "/api/convert?value=5", nil)

	rec := doRequest(t, srv, http.MethodPost, "/clear", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	counters, err := store.Counters(context.Background())
	if err != nil {
		t.Fatalf("counters: %v", err)
	}
	if diff := cmp.Diff(history.Counters{}, counters); diff != "" {
		t.Fatalf("counters not reset (-want +got):\n%s", diff)
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	srv, _, _ := newTestServer(t, WithRateLimit(1, 2), WithClock(func() time.Time { return now }))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, doRequest(t, srv, http.MethodGet, "/api/rules", nil).Code)
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Fatalf("status codes mismatch (-want +got):\n%s", diff)
	}
	if got := testutil.ToFloat64(srv.metrics.limited); got != 1 {
		t.Fatalf("limited counter = %v, want 1", got)
	}

	now = now.Add(time.Second)
	if code := doRequest(t, srv, http.MethodGet, "/api/rules", nil).Code; code != http.StatusOK {
		t.Fatalf("expected token refill, got %d", code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	doRequest(t, srv, http.MethodGet, "/api/convert?value=IC", nil)

	body := doRequest(t, srv, http.MethodGet, "/metrics", nil).Body.String()
	if !strings.Contains(body, `numerals_rejections_total{kind="rule_violation"} 1`) {
		t.Fatalf("expected rejection metric, got:\n%s", body)
	}
}

func TestOpenAPI_DocumentsServedRoutes(t *testing.T) {
	srv, _, _ := newTestServer(t)

	want := []string{
		"GET /api/convert",
		"GET /api/history",
		"GET /api/rules",
		"GET /api/stats",
		"POST /api/clear",
	}
	if diff := cmp.Diff(want, Operations(srv.doc)); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}

	rec := doRequest(t, srv, http.MethodGet, "/openapi.json", nil)
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode openapi.json: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", doc["openapi"])
	}
}
