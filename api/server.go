package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/safing/osicons/log"
)

var (
	router     = mux.NewRouter()
	routerLock sync.RWMutex
)

// RegisterHandler adds a raw handler for the given absolute path.
func RegisterHandler(path string, handler http.Handler) *mux.Route {
	routerLock.Lock()
	defer routerLock.Unlock()

	return router.Handle(path, handler)
}

// Handler returns the API handler with all middlewares.
func Handler() http.Handler {
	return logRequests(checkOrigin(http.HandlerFunc(route)))
}

// route dispatches to the registered handlers. The router redirects unclean
// paths and answers 404 and 405 itself.
func route(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if v := recover(); v != nil {
			log.Errorf("api: %s %s panicked: %v", r.Method, r.URL.Path, v)
			http.Error(w, "Internal Server Error.", http.StatusInternalServerError)
		}
	}()

	routerLock.RLock()
	defer routerLock.RUnlock()

	router.ServeHTTP(w, r)
}

// checkOrigin sets security headers and refuses cross-origin requests from
// hosts that are not allowed. Allowed preflight requests are answered here.
func checkOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Referrer-Policy", "same-origin")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "deny")

		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		originURL, err := url.Parse(origin)
		if err != nil || !originAllowed(originURL, r.Host) {
			log.Warningf("api: denied request from %s with origin %q to host %q", r.RemoteAddr, origin, r.Host)
			http.Error(w, "Cross-Origin Request Denied.", http.StatusForbidden)
			return
		}

		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		h.Set("Access-Control-Max-Age", "60")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func originAllowed(origin *url.URL, host string) bool {
	return origin.Host == host ||
		origin.Hostname() == host ||
		slices.Contains(getAllowedOrigins(), origin.Hostname())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sr := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(sr, r)
		log.Debugf("api: %s %d %s %s (%s)", r.RemoteAddr, sr.status, r.Method, r.RequestURI, time.Since(started))
	})
}

func startServer() {
	server := &http.Server{
		Addr:              listenAddress(),
		Handler:           Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	module.StartServiceWorker("http server", 10*time.Second, func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Warningf("api: failed to shut down http server: %s", err)
			}
		}()

		log.Infof("api: listening on %s", server.Addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
}
