package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/automation-roi/internal/inr"
	"github.com/Simplici0/automation-roi/internal/report"
	"github.com/Simplici0/automation-roi/internal/roi"
	"github.com/Simplici0/automation-roi/web"
)

const (
	tabCalculator = "calculator"
	tabOptimizer  = "optimizer"
	tabReport     = "report"

	reportDateLayout = "2 January 2006"
)

// reportSharer posts a summary report somewhere outside the app.
type reportSharer interface {
	ShareReport(ctx context.Context, s report.Summary) (string, error)
}

type server struct {
	assumptions roi.Assumptions
	sharer      reportSharer
	templates   *template.Template
	logger      *slog.Logger
	now         func() time.Time
	devRoutes   bool
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type tabLink struct {
	Label  string
	Href   string
	Active bool
}

type complexityOption struct {
	Value    roi.Complexity
	Label    string
	Price    float64
	Selected bool
}

type quickFixLink struct {
	Label string
	Href  string
}

type inputRanges struct {
	MinVolume, MaxVolume, VolumeStep                        float64
	MinScrapRate, MaxScrapRate, ScrapRateStep               float64
	MinLaborCostPerPart, MaxLaborCostPerPart, LaborCostStep float64
}

type pageViewData struct {
	baseViewData
	Tab            string
	Tabs           []tabLink
	Inputs         roi.Inputs
	Metrics        roi.Metrics
	Advice         roi.Advice
	Assumptions    roi.Assumptions
	Report         report.Summary
	ReportDate     string
	ReportTextHref string
	Ranges         inputRanges
	Complexities   []complexityOption
	QuickFixes     []quickFixLink
	ShareEnabled   bool
}

// scenario is the JSON body of /api/roi.
type scenario struct {
	Inputs  roi.Inputs  `json:"inputs"`
	Metrics roi.Metrics `json:"metrics"`
	Advice  roi.Advice  `json:"advice"`
}

type reportSection struct {
	Title string
	Rows  []report.Row
}

var ranges = inputRanges{
	MinVolume: roi.MinVolume, MaxVolume: roi.MaxVolume, VolumeStep: roi.VolumeStep,
	MinScrapRate: roi.MinScrapRate, MaxScrapRate: roi.MaxScrapRate, ScrapRateStep: roi.ScrapRateStep,
	MinLaborCostPerPart: roi.MinLaborCostPerPart, MaxLaborCostPerPart: roi.MaxLaborCostPerPart, LaborCostStep: roi.LaborCostStep,
}

func newServer(a roi.Assumptions, sharer reportSharer, logger *slog.Logger) (*server, error) {
	templates, err := template.New("layout.html").Funcs(template.FuncMap{
		"currency": inr.Currency,
		"number":   inr.Number,
		"plain":    inr.Plain,
		"fixed":    inr.Fixed,
		"payback":  report.Payback,
		"section": func(title string, rows []report.Row) reportSection {
			return reportSection{Title: title, Rows: rows}
		},
	}).ParseFS(web.Templates, "layout.html", "index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &server{
		assumptions: a,
		sharer:      sharer,
		templates:   templates,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static))))
	r.Get("/", s.handleHome)
	r.Get("/api/roi", s.handleAPIROI)
	r.Get("/report.txt", s.handleReportText)
	r.Post("/report/share", s.handleReportShare)
	r.Get("/healthz", handleHealthz)
	if s.devRoutes {
		r.Get("/debug/assumptions", s.handleDebugAssumptions)
	}
	return r
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	in, err := parseScenarioValues(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.renderPage(w, http.StatusOK, s.pageData(in, parseTab(r.URL.Query().Get("tab")), baseViewData{}))
}

func (s *server) handleAPIROI(w http.ResponseWriter, r *http.Request) {
	in, err := parseScenarioValues(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m := s.assumptions.ComputeMetrics(in)
	writeJSON(w, http.StatusOK, scenario{
		Inputs:  in,
		Metrics: m,
		Advice:  s.assumptions.ComputeAdvice(in, m),
	})
}

func (s *server) handleReportText(w http.ResponseWriter, r *http.Request) {
	in, err := parseScenarioValues(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="roi-report.txt"`)
	_, _ = w.Write([]byte(s.summary(in).Text()))
}

func (s *server) handleReportShare(w http.ResponseWriter, r *http.Request) {
	if s.sharer == nil {
		http.Error(w, "report sharing is not configured", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in, err := parseScenarioValues(r.Form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ts, err := s.sharer.ShareReport(r.Context(), s.summary(in))
	if err != nil {
		s.logger.Error("share report", "error", err, "request_id", middleware.GetReqID(r.Context()))
		s.renderPage(w, http.StatusBadGateway, s.pageData(in, tabReport, baseViewData{ErrorMessage: "Could not share the report. Try again later."}))
		return
	}

	s.logger.Info("report shared", "ts", ts, "viable", s.assumptions.ComputeMetrics(in).IsViable)
	s.renderPage(w, http.StatusOK, s.pageData(in, tabReport, baseViewData{SuccessMessage: "Report shared to Slack."}))
}

// handleDebugAssumptions exposes the assumption set loaded at startup.
func (s *server) handleDebugAssumptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.assumptions)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) summary(in roi.Inputs) report.Summary {
	m := s.assumptions.ComputeMetrics(in)
	return report.Build(s.assumptions, in, m, s.assumptions.ComputeAdvice(in, m), s.now())
}

func (s *server) pageData(in roi.Inputs, tab string, base baseViewData) pageViewData {
	m := s.assumptions.ComputeMetrics(in)
	advice := s.assumptions.ComputeAdvice(in, m)
	summary := report.Build(s.assumptions, in, m, advice, s.now())

	tabs := []tabLink{
		{Label: "Calculator", Href: scenarioHref("/", in, tabCalculator)},
		{Label: "Profitability Guide", Href: scenarioHref("/", in, tabOptimizer)},
		{Label: "Summary Report", Href: scenarioHref("/", in, tabReport)},
	}
	for i, key := range []string{tabCalculator, tabOptimizer, tabReport} {
		tabs[i].Active = key == tab
	}

	options := make([]complexityOption, 0, len(roi.Complexities))
	for _, c := range roi.Complexities {
		options = append(options, complexityOption{
			Value:    c,
			Label:    c.Label(),
			Price:    s.assumptions.Price(c),
			Selected: c == in.Complexity,
		})
	}

	fixes := make([]quickFixLink, 0, len(advice.QuickFixes))
	for _, fix := range advice.QuickFixes {
		fixes = append(fixes, quickFixLink{Label: fix.Label, Href: scenarioHref("/", fix.Inputs, tabCalculator)})
	}

	return pageViewData{
		baseViewData:   base,
		Tab:            tab,
		Tabs:           tabs,
		Inputs:         in,
		Metrics:        m,
		Advice:         advice,
		Assumptions:    s.assumptions,
		Report:         summary,
		ReportDate:     summary.Date.Format(reportDateLayout),
		ReportTextHref: scenarioHref("/report.txt", in, ""),
		Ranges:         ranges,
		Complexities:   options,
		QuickFixes:     fixes,
		ShareEnabled:   s.sharer != nil,
	}
}

func (s *server) renderPage(w http.ResponseWriter, status int, data pageViewData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("render template", "error", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// parseScenarioValues reads volume, scrap, labor and complexity. Missing
// values take the defaults and numeric values are clamped to their sliders.
func parseScenarioValues(values url.Values) (roi.Inputs, error) {
	in := roi.DefaultInputs()

	var err error
	if in.MonthlyVolume, err = parseOptionalFloat(values.Get("volume"), "volume", in.MonthlyVolume); err != nil {
		return in, err
	}
	if in.CurrentScrapRate, err = parseOptionalFloat(values.Get("scrap"), "scrap", in.CurrentScrapRate); err != nil {
		return in, err
	}
	if in.LaborCostPerPart, err = parseOptionalFloat(values.Get("labor"), "labor", in.LaborCostPerPart); err != nil {
		return in, err
	}
	if raw := strings.TrimSpace(values.Get("complexity")); raw != "" {
		if in.Complexity, err = roi.ParseComplexity(raw); err != nil {
			return in, err
		}
	}

	return in.Clamp(), nil
}

func parseOptionalFloat(raw, field string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	return value, nil
}

func parseTab(raw string) string {
	switch raw {
	case tabOptimizer, tabReport:
		return raw
	}
	return tabCalculator
}

func scenarioHref(path string, in roi.Inputs, tab string) string {
	q := url.Values{}
	q.Set("volume", inr.Plain(in.MonthlyVolume))
	q.Set("scrap", inr.Plain(in.CurrentScrapRate))
	q.Set("labor", inr.Plain(in.LaborCostPerPart))
	q.Set("complexity", string(in.Complexity))
	if tab != "" {
		q.Set("tab", tab)
	}
	return path + "?" + q.Encode()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode json response", "error", err)
	}
}
