package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FormSaves = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "internfolio_form_saves_total", Help: "Total form draft saves"},
	)
	FormSubmits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "internfolio_form_submits_total", Help: "Total completed form submissions"},
	)
	PDFExports = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "internfolio_pdf_exports_total", Help: "Total PDF exports"},
	)
	PortfolioViews = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "internfolio_portfolio_views_total", Help: "Public portfolio lookups by result code"},
		[]string{"code"},
	)
	GithubUpstreamErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "internfolio_github_upstream_errors_total", Help: "Total per-repository GitHub API failures"},
	)
)

func Register() {
	prometheus.MustRegister(FormSaves, FormSubmits, PDFExports, PortfolioViews, GithubUpstreamErrors)
}
