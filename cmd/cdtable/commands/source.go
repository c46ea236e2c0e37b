package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andri/cdtable/internal/logger"
	"github.com/andri/cdtable/pkg/config"
	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/k8s"
	"github.com/andri/cdtable/pkg/source"
	"github.com/andri/cdtable/pkg/store"
)

// newTableSource builds the configured row source, connecting to the cluster
// only for the kube kinds.
func newTableSource(ctx context.Context, cfg config.Config) (source.Source, error) {
	var client *k8s.Client
	if source.IsKube(cfg.Source.Kind) {
		var err error
		client, err = newK8sClient(ctx, k8s.ClientConfig{
			Kubeconfig: cfg.Kubernetes.Kubeconfig,
			Context:    cfg.Kubernetes.Context,
			Timeout:    fetchTimeout(cfg),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
		}
	}

	src, err := source.New(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s source: %w", cfg.Source.Kind, err)
	}
	logger.Debug("using source", "kind", cfg.Source.Kind, "name", src.Name())
	return src, nil
}

// openStore opens the configured table config store.
func openStore(cfg config.Config) (store.Store, error) {
	backend, err := store.ParseBackend(cfg.Store.Backend)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(backend, cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", backend, err)
	}
	return st, nil
}

func fetchTimeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.Timeouts.FetchTimeoutSeconds) * time.Second
}

// readOnlyStore serves saved layouts but drops writes.
type readOnlyStore struct {
	datatable.Store
}

func (readOnlyStore) Set(string, string) error { return nil }
