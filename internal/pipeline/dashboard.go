package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/couchcryptid/cyclone-risk-service/internal/observability"
	"github.com/google/uuid"
)

// ReportSink accepts city reports for asynchronous publishing.
type ReportSink interface {
	Enqueue(r domain.CityReport) bool
}

// Dashboard orchestrates weather lookups, risk scoring and insight prompts.
// The weather provider, text generator and report sink are optional; a nil
// value disables the corresponding feature.
type Dashboard struct {
	weather domain.WeatherProvider
	insight domain.TextGenerator
	sink    ReportSink
	counter *observability.RequestCounter
	metrics *observability.Metrics
	links   domain.Links
	logger  *slog.Logger
}

// NewDashboard creates a Dashboard.
func NewDashboard(
	weather domain.WeatherProvider,
	insight domain.TextGenerator,
	sink ReportSink,
	counter *observability.RequestCounter,
	metrics *observability.Metrics,
	links domain.Links,
	logger *slog.Logger,
) *Dashboard {
	return &Dashboard{
		weather: weather,
		insight: insight,
		sink:    sink,
		counter: counter,
		metrics: metrics,
		links:   links,
		logger:  logger,
	}
}

// Lookup fetches current conditions for a city and scores them.
func (d *Dashboard) Lookup(ctx context.Context, city string) (domain.CityReport, error) {
	n := d.counter.Inc("lookup")

	report, err := d.lookup(ctx, city, n)
	if err != nil {
		return domain.CityReport{}, err
	}

	d.observe(report.ScoredSample)
	if d.sink != nil {
		d.sink.Enqueue(report)
	}
	d.logger.Info("city assessed",
		"city", report.Location.Query,
		"tier", report.Assessment.Tier,
		"probability", report.Assessment.Probability,
		"request_number", n,
	)
	return report, nil
}

func (d *Dashboard) lookup(ctx context.Context, city string, requestNumber int64) (domain.CityReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.CityReport{}, domain.ErrEmptyLocation
	}
	if d.weather == nil {
		return domain.CityReport{}, domain.ErrWeatherDisabled
	}

	cond, err := d.weather.CurrentConditions(ctx, city)
	if err != nil {
		return domain.CityReport{}, fmt.Errorf("lookup %q: %w", city, err)
	}

	return domain.NewCityReport(uuid.NewString(), cond, requestNumber), nil
}

// Assess scores a caller-supplied reading.
func (d *Dashboard) Assess(_ context.Context, r domain.Reading) domain.ScoredSample {
	d.counter.Inc("assess")
	scored := domain.ScoreReading(r)
	d.observe(scored)
	return scored
}

// Ask forwards a prompt to the text generator. When city is non-empty the
// prompt is prefixed with that city's current conditions and risk; a failed
// lookup leaves the prompt unchanged. The context lookup is neither recorded
// in assessment metrics nor published.
func (d *Dashboard) Ask(ctx context.Context, prompt, city string) (string, error) {
	n := d.counter.Inc("insight")

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.ErrEmptyPrompt
	}
	if d.insight == nil {
		return "", domain.ErrInsightDisabled
	}

	if strings.TrimSpace(city) != "" {
		report, err := d.lookup(ctx, city, n)
		if err != nil {
			d.logger.Warn("insight context lookup failed", "city", city, "error", err)
		} else {
			prompt = "Current conditions:\n" + report.Summary() + "\nQuestion: " + prompt
		}
	}

	reply, err := d.insight.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate insight: %w", err)
	}
	return reply, nil
}

// Links returns the external resource links shown alongside the dashboard.
func (d *Dashboard) Links() domain.Links {
	return d.links
}

// RequestCount returns the number of operations served so far.
func (d *Dashboard) RequestCount() int64 {
	return d.counter.Count()
}

// CheckReadiness reports whether the report sink, if any, is accepting work.
func (d *Dashboard) CheckReadiness(ctx context.Context) error {
	if rc, ok := d.sink.(interface {
		CheckReadiness(context.Context) error
	}); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}

func (d *Dashboard) observe(s domain.ScoredSample) {
	d.metrics.Assessments.WithLabelValues(string(s.Assessment.Tier)).Inc()
	d.metrics.RiskProbability.Observe(s.Assessment.Probability)
	for _, field := range s.Defaulted {
		d.metrics.DefaultedFields.WithLabelValues(field).Inc()
	}
}
