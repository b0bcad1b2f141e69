package devserver

import (
	"log/slog"
	"net/http"
	"net/http/httputil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/myaxum/myaxum/internal/config"
)

type proxyMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newProxyMetrics(reg prometheus.Registerer) *proxyMetrics {
	m := &proxyMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "devserver",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Total number of proxied requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "devserver",
			Subsystem: "proxy",
			Name:      "request_duration_seconds",
			Help:      "Duration of proxied requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// routeProxy forwards the requests of one ProxyRoute.
type routeProxy struct {
	route   config.ProxyRoute
	handler http.Handler
}

func newRouteProxy(route config.ProxyRoute, m *proxyMetrics, logger *slog.Logger) *routeProxy {
	target := route.TargetOrigin
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			// SetURL joins the target path with the full inbound path, so
			// the prefix is kept, and points Host at the target.
			pr.SetURL(target)
			pr.SetXForwarded()
			if !route.ChangeOrigin {
				pr.Out.Host = pr.In.Host
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("proxy request failed",
				"route", route.PathPrefix,
				"target", target.String(),
				"path", r.URL.Path,
				"error", err,
			)
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":  "upstream unavailable",
				"route":  route.PathPrefix,
				"target": target.String(),
			})
		},
	}

	labels := prometheus.Labels{"route": route.PathPrefix}
	var h http.Handler = rp
	h = promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(labels), h)
	h = promhttp.InstrumentHandlerDuration(m.duration.MustCurryWith(labels), h)

	return &routeProxy{route: route, handler: h}
}

func (p *routeProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}
