package logs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/grafana/loki-client-go/loki"
	promconfig "github.com/prometheus/common/config"
	slogloki "github.com/samber/slog-loki/v3"

	"github.com/ankurdental/dentaldesk/config"
)

// newLokiHandler pushes records to Loki's push API through the batching
// loki client.
func newLokiHandler(cfg *config.Config, level slog.Level) (slog.Handler, error) {
	endpoint := strings.TrimRight(cfg.Logging.Output.Loki.Endpoint, "/") + "/loki/api/v1/push"

	lc, err := loki.NewDefaultConfig(endpoint)
	if err != nil {
		return nil, fmt.Errorf("loki config: %w", err)
	}
	if cfg.Logging.Output.Loki.Username != "" {
		lc.Client.BasicAuth = &promconfig.BasicAuth{
			Username: cfg.Logging.Output.Loki.Username,
			Password: promconfig.Secret(cfg.Logging.Output.Loki.Password),
		}
	}

	client, err := loki.New(lc)
	if err != nil {
		return nil, fmt.Errorf("loki client: %w", err)
	}

	return slogloki.Option{Level: level, Client: client}.NewLokiHandler(), nil
}
