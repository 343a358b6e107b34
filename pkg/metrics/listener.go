package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Listener serves the Prometheus scrape endpoint on its own port, kept
// apart from any business traffic.
type Listener struct {
	srv    *http.Server
	logger *logrus.Entry
}

func NewListener(port int, path string, logger *logrus.Entry) *Listener {
	router := mux.NewRouter()
	NewPrometheusController(path).Register(router)

	return &Listener{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background and drains the listener once ctx is
// done. Startup failures are logged, not returned: a broken scrape
// endpoint must not take the process down.
func (l *Listener) Start(ctx context.Context) {
	go func() {
		l.logger.WithField("addr", l.srv.Addr).Info("metrics listener starting")
		if err := l.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.WithError(err).Warn("metrics listener stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = l.srv.Shutdown(shutdownCtx)
	}()
}
