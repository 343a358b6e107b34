package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPath is where the scrape endpoint mounts when no path is
// configured.
const DefaultPath = "/debug/prometheus"

// PrometheusController exposes the process metrics endpoint on ops listeners
// such as the one started by `mrp relay`.
type PrometheusController struct {
	path string
}

func NewPrometheusController(path string) *PrometheusController {
	if path == "" {
		path = DefaultPath
	}
	return &PrometheusController{path: path}
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, promhttp.Handler()).Methods(http.MethodGet)
}
