package es

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Skotchmaster/nail_salon/internal/config"
	"github.com/elastic/go-elasticsearch/v9"
)

// NewClient builds a client and checks the cluster answers.
func NewClient(ctx context.Context, cfg config.ElasticConfig, log *slog.Logger) (*elasticsearch.Client, error) {
	log.Info("elasticsearch_connecting", "url", cfg.URL, "user", cfg.User)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info: %s: %s", res.Status(), body)
	}

	log.Info("elasticsearch_connected")
	return client, nil
}
