package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	workflowRunTotal    *prometheus.CounterVec
	workflowRunDuration *prometheus.HistogramVec
	stepTotal           *prometheus.CounterVec
	stepDuration        *prometheus.HistogramVec

	lessonPlanTotal  *prometheus.CounterVec
	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			workflowRunTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "workflow_run_total",
					Help: "Total workflow runs by workflow and status.",
				},
				[]string{"workflow", "status"},
			),
			workflowRunDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "workflow_run_duration_seconds",
					Help:    "Workflow run duration in seconds by workflow.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"workflow"},
			),
			stepTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "workflow_step_total",
					Help: "Total workflow step executions by workflow, step, and status.",
				},
				[]string{"workflow", "step", "status"},
			),
			stepDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "workflow_step_duration_seconds",
					Help:    "Workflow step duration in seconds by workflow and step.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"workflow", "step"},
			),
			lessonPlanTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "lesson_plan_total",
					Help: "Total generated lesson plans by objective source tier.",
				},
				[]string{"source"},
			),
			dispatchTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "model_dispatch_total",
					Help: "Total model dispatch calls by provider and status.",
				},
				[]string{"provider", "status"},
			),
			dispatchDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "model_dispatch_duration_seconds",
					Help:    "Model dispatch duration in seconds by provider.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"provider"},
			),
			httpRequestsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total inbound HTTP requests by path and status code.",
				},
				[]string{"path", "code"},
			),
			httpRequestDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "Inbound HTTP request duration in seconds by path.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"path"},
			),
		}

		prometheus.MustRegister(
			m.workflowRunTotal,
			m.workflowRunDuration,
			m.stepTotal,
			m.stepDuration,
			m.lessonPlanTotal,
			m.dispatchTotal,
			m.dispatchDuration,
			m.httpRequestsTotal,
			m.httpRequestDuration,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func RecordWorkflowRun(workflow, status string, duration time.Duration) {
	m := getMetrics()
	m.workflowRunTotal.WithLabelValues(workflow, status).Inc()
	m.workflowRunDuration.WithLabelValues(workflow).Observe(duration.Seconds())
}

func RecordWorkflowStep(workflow, step, status string, duration time.Duration) {
	m := getMetrics()
	m.stepTotal.WithLabelValues(workflow, step, status).Inc()
	m.stepDuration.WithLabelValues(workflow, step).Observe(duration.Seconds())
}

// RecordLessonPlan records where a lesson plan's objective came from:
// "curated", "generated", or "static".
func RecordLessonPlan(source string) {
	getMetrics().lessonPlanTotal.WithLabelValues(source).Inc()
}

func RecordDispatch(provider string, duration time.Duration, success bool) {
	m := getMetrics()
	status := "error"
	if success {
		status = "success"
	}
	m.dispatchTotal.WithLabelValues(provider, status).Inc()
	m.dispatchDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func RecordHTTPRequest(path string, code string, duration time.Duration) {
	m := getMetrics()
	m.httpRequestsTotal.WithLabelValues(path, code).Inc()
	m.httpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
}
