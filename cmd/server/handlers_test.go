package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Simplici0/automation-roi/internal/report"
	"github.com/Simplici0/automation-roi/internal/roi"
)

type fakeSharer struct {
	shared []report.Summary
	err    error
}

func (f *fakeSharer) ShareReport(_ context.Context, s report.Summary) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.shared = append(f.shared, s)
	return "1700000000.000100", nil
}

func newTestServer(t *testing.T, sharer reportSharer) *server {
	t.Helper()
	srv, err := newServer(roi.DefaultAssumptions(), sharer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	srv.now = func() time.Time { return time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC) }
	return srv
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHome_DefaultScenarioShowsQuickPath(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{"Review Parameters", "Quick Path to Profitability", "Set scrap to 15%", "Set labor cost to ₹6", "Try simple parts"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestHome_ViableScenarioHidesQuickPath(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/?volume=50000&scrap=20&labor=10&complexity=simple")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Automation Recommended") {
		t.Fatalf("expected viable status in body")
	}
	if strings.Contains(body, "Quick Path to Profitability") {
		t.Fatalf("quick path should not render for a viable scenario")
	}
}

func TestHome_OptimizerTabListsInsights(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/?tab=optimizer")
	body := rec.Body.String()
	for _, want := range []string{
		"Increase Scrap Rate Threshold", "Target Higher Labor Cost Operations", "Consider Simpler Parts First", "Volume Impact",
		"14.3%", "₹5.6<", "at 12% ✗", "at ₹5 ✗",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected optimizer tab to contain %q", want)
		}
	}
}

func TestHome_OptimizerTabMarksMetThresholds(t *testing.T) {
	body := get(t, newTestServer(t, nil).routes(), "/?tab=optimizer&volume=50000&scrap=20&labor=10&complexity=simple").Body.String()
	for _, want := range []string{"at 20% ✓", "at ₹10 ✓"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected optimizer tab to contain %q", want)
		}
	}
}

func TestHome_ReportTabHidesShareWithoutSlack(t *testing.T) {
	body := get(t, newTestServer(t, nil).routes(), "/?tab=report").Body.String()
	if !strings.Contains(body, "14 October 2026") {
		t.Fatalf("expected report date in body")
	}
	if strings.Contains(body, "Share to Slack") {
		t.Fatalf("share button should not render when sharing is disabled")
	}

	body = get(t, newTestServer(t, &fakeSharer{}).routes(), "/?tab=report").Body.String()
	if !strings.Contains(body, "Share to Slack") {
		t.Fatalf("expected share button when sharing is enabled")
	}
}

func TestHome_RejectsNonNumericInput(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/?volume=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "volume must be numeric") {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestAPIROI_ClampsInputs(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/api/roi?volume=999999999&scrap=0&labor=7.3&complexity=COMPLEX")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got scenario
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := roi.Inputs{MonthlyVolume: 500000, CurrentScrapRate: 1, LaborCostPerPart: 7.5, Complexity: roi.Complex}
	if got.Inputs != want {
		t.Fatalf("inputs = %+v, want %+v", got.Inputs, want)
	}
}

func TestAPIROI_EncodesUnreachablePaybackAsNull(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/api/roi")

	var raw struct {
		Metrics map[string]any `json:"metrics"`
		Advice  roi.Advice     `json:"advice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if v, ok := raw.Metrics["payback_months"]; !ok || v != nil {
		t.Fatalf("expected null payback_months, got %v (present=%v)", v, ok)
	}
	if raw.Metrics["is_viable"] != false {
		t.Fatalf("expected default scenario to be not viable")
	}
	if len(raw.Advice.QuickFixes) != 3 {
		t.Fatalf("expected 3 quick fixes, got %d", len(raw.Advice.QuickFixes))
	}
}

func TestAPIROI_RejectsUnknownComplexity(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/api/roi?complexity=extreme")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestReportText(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/report.txt")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"Automation ROI Summary Report", "Date: 14 October 2026", "Payback Period:", "N/A"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func postShare(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/report/share", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReportShare_NotConfigured(t *testing.T) {
	rec := postShare(t, newTestServer(t, nil).routes(), url.Values{})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestReportShare_PostsSummary(t *testing.T) {
	sharer := &fakeSharer{}
	form := url.Values{}
	form.Set("volume", "50000")
	form.Set("scrap", "20")
	form.Set("labor", "10")
	form.Set("complexity", "simple")

	rec := postShare(t, newTestServer(t, sharer).routes(), form)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sharer.shared) != 1 {
		t.Fatalf("expected 1 shared report, got %d", len(sharer.shared))
	}
	if !sharer.shared[0].Status.Viable {
		t.Fatalf("expected shared report to be viable")
	}
	if !strings.Contains(rec.Body.String(), "Report shared to Slack.") {
		t.Fatalf("expected success message in body")
	}
}

func TestReportShare_SlackFailure(t *testing.T) {
	rec := postShare(t, newTestServer(t, &fakeSharer{err: errors.New("channel_not_found")}).routes(), url.Values{})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Could not share the report") {
		t.Fatalf("expected error message in body")
	}
}

func TestDebugAssumptions_OnlyInDev(t *testing.T) {
	if rec := get(t, newTestServer(t, nil).routes(), "/debug/assumptions"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside dev, got %d", rec.Code)
	}

	srv := newTestServer(t, nil)
	srv.devRoutes = true
	rec := get(t, srv.routes(), "/debug/assumptions")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 in dev, got %d", rec.Code)
	}

	var got roi.Assumptions
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode assumptions: %v", err)
	}
	if got.UpfrontFee != 25000 || got.Price(roi.Complex) != 5 {
		t.Fatalf("unexpected assumptions: %+v", got)
	}
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestStaticStylesheet(t *testing.T) {
	rec := get(t, newTestServer(t, nil).routes(), "/static/app.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
