package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/safing/osicons/api"
	"github.com/safing/osicons/config"
	"github.com/safing/osicons/log"
)

const pushInterval = time.Minute

func registerAPI() error {
	api.RegisterHandler("/metrics", http.HandlerFunc(serveMetrics))

	levelParam := []api.Parameter{{
		Method:      http.MethodGet,
		Field:       "level",
		Value:       "user|expert|developer",
		Description: "Only include metrics meant for this expertise level. Defaults to developer.",
	}}

	if err := api.RegisterEndpoint(api.Endpoint{
		Name:        "List Metrics",
		Description: "Returns all metrics with their options and current value.",
		Path:        "metrics/list",
		BelongsTo:   module,
		Parameters:  levelParam,
		StructFunc: func(ar *api.Request) (interface{}, error) {
			return ExportMetrics(config.ParseExpertiseLevel(ar.URL.Query().Get("level"))), nil
		},
	}); err != nil {
		return err
	}

	return api.RegisterEndpoint(api.Endpoint{
		Name:        "Get Metric Values",
		Description: "Returns the current value of all metrics by ID.",
		Path:        "metrics/values",
		BelongsTo:   module,
		Parameters: []api.Parameter{{
			Method:      http.MethodGet,
			Field:       "internal-only",
			Description: "Only include metrics with an internal ID.",
		}},
		StructFunc: func(ar *api.Request) (interface{}, error) {
			return ExportValues(ar.URL.Query().Has("internal-only")), nil
		},
	})
}

func serveMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	WriteMetrics(w, config.ParseExpertiseLevel(r.URL.Query().Get("level")))
}

func pushMetrics(url string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(pushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := pushMetricsTo(ctx, url); err != nil {
					return err
				}
			}
		}
	}
}

func pushMetricsTo(ctx context.Context, url string) error {
	var buf bytes.Buffer
	WriteMetrics(&buf, config.ExpertiseLevelDeveloper)
	if buf.Len() == 0 {
		log.Debug("metrics: nothing to push")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; version=0.0.4")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push to %s failed with %s: %s", url, resp.Status, body)
	}
	return nil
}
