package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"

	"diet-planner/internal/app"
	"diet-planner/internal/catalog"
	"diet-planner/internal/health"
	"diet-planner/internal/metrics"
	"diet-planner/internal/planner"
)

//go:embed templates/*.html
var templatesFS embed.FS

// maxPhotoBytes caps uploaded photos.
const maxPhotoBytes = 10 << 20

// Server is the browser front-end of the planner.
type Server struct {
	app         *app.App
	tmpl        *template.Template
	adminSecret string
	dataDir     string
	metrics     http.Handler
}

// NewServer parses the page templates. An empty adminSecret disables the admin routes.
func NewServer(a *app.App, adminSecret, dataDir string) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"calories": formatCalories,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Server{app: a, tmpl: tmpl, adminSecret: adminSecret, dataDir: dataDir}, nil
}

// WithMetricsHandler exposes h at /metrics.
func (s *Server) WithMetricsHandler(h http.Handler) *Server {
	s.metrics = h
	return s
}

// RegisterHandlers mounts every route on mux.
func (s *Server) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /plan", s.handlePlan)
	mux.HandleFunc("GET /substitute", s.handleSubstitute)
	mux.HandleFunc("POST /photo", s.handlePhoto)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /admin/usage", s.requireAdmin(s.handleUsage))
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterHandlers(mux)
	return mux
}

type mealRow struct {
	Index       int
	Description string
	Calories    float64
}

type mealSection struct {
	Title string
	Rows  []mealRow
}

type planResult struct {
	BMI           string
	WaterLiters   string
	Sections      []mealSection
	Notes         []string
	TotalCalories float64
}

type pageData struct {
	Input          planner.ProfileInput
	ActivityLevels []catalog.ActivityLevel
	WeightGoals    []catalog.WeightGoal
	Fruits         []string
	Error          string
	Plan           *planResult
	Item           string
	Substitute     string
	Photo          string
}

func (s *Server) newPage(in planner.ProfileInput) pageData {
	return pageData{
		Input:          in,
		ActivityLevels: catalog.ActivityLevels,
		WeightGoals:    catalog.WeightGoals,
		Fruits:         planner.FruitNames(),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, s.newPage(planner.DefaultProfileInput()))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	in := profileInputFromQuery(r)
	page := s.newPage(in)

	profile, err := planner.ParseProfile(in)
	if err != nil {
		page.Error = err.Error()
		s.render(w, http.StatusBadRequest, page)
		return
	}

	m := s.app.ComputeMetrics(profile.WeightKg, profile.HeightCm, profile.ActivityLevel)
	plan := s.app.GeneratePlan(profile)
	page.Plan = buildPlanResult(m, plan)
	s.render(w, http.StatusOK, page)
}

func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	page := s.newPage(planner.DefaultProfileInput())
	page.Item = strings.TrimSpace(r.URL.Query().Get("item"))
	if page.Item == "" {
		page.Error = "item is required"
		s.render(w, http.StatusBadRequest, page)
		return
	}
	page.Substitute = s.app.ResolveSubstitute(page.Item).String()
	s.render(w, http.StatusOK, page)
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	page := s.newPage(planner.DefaultProfileInput())

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		page.Error = "a photo upload is required"
		s.render(w, http.StatusBadRequest, page)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		page.Error = "failed to read photo"
		s.render(w, http.StatusBadRequest, page)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	estimate, err := s.app.EstimatePhoto(r.Context(), data, mimeType)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, app.ErrClassifierDisabled) {
			status = http.StatusServiceUnavailable
		}
		log.Printf("Error estimating photo: %v", err)
		page.Error = err.Error()
		s.render(w, status, page)
		return
	}
	page.Photo = estimate.Message()
	s.render(w, http.StatusOK, page)
}

type usageResponse struct {
	Usage  []metrics.DailyUsage `json:"usage"`
	System metrics.SysHealth    `json:"system"`
}

func (s *Server) handleUsage(w http.ResponseWriter, _ *http.Request) {
	usage, err := s.app.UsageReport(7)
	if err != nil {
		log.Printf("Error fetching usage: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to fetch usage")
		return
	}
	if usage == nil {
		usage = []metrics.DailyUsage{}
	}
	writeJSON(w, http.StatusOK, usageResponse{Usage: usage, System: metrics.GetSysHealth(s.dataDir)})
}

func (s *Server) render(w http.ResponseWriter, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "index.html", page); err != nil {
		log.Printf("Error rendering page: %v", err)
	}
}

func profileInputFromQuery(r *http.Request) planner.ProfileInput {
	q := r.URL.Query()
	return planner.ProfileInput{
		Age:           q.Get("age"),
		HeightCm:      q.Get("height"),
		WeightKg:      q.Get("weight"),
		ActivityLevel: q.Get("activity"),
		WeightGoal:    q.Get("goal"),
		Allergies:     q.Get("allergies"),
		Tea:           q.Get("tea"),
		Fruit:         q.Get("fruit"),
	}
}

func buildPlanResult(m health.Metrics, plan planner.MealPlan) *planResult {
	res := &planResult{
		BMI:           fmt.Sprintf("%.2f", m.BMI),
		WaterLiters:   fmt.Sprintf("%.2f", m.WaterIntakeLiters),
		Notes:         plan.Notes(),
		TotalCalories: plan.TotalCalories,
	}
	for _, mt := range catalog.MealTypes {
		section := mealSection{Title: string(mt)}
		for i, item := range plan.Meals(mt) {
			section.Rows = append(section.Rows, mealRow{Index: i + 1, Description: item.Description, Calories: item.Calories})
		}
		res.Sections = append(res.Sections, section)
	}
	return res
}

func formatCalories(v float64) string {
	return fmt.Sprintf("%g", v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
