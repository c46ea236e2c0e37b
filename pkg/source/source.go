// Package source produces the rows a table displays: Rook-Ceph objects read
// from Kubernetes, Ceph Dashboard REST endpoints, or a local document.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andri/cdtable/internal/logger"
	"github.com/andri/cdtable/pkg/config"
	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/k8s"
	"github.com/andri/cdtable/pkg/retry"
)

// Source kinds accepted by New.
const (
	KindNodes       = "nodes"
	KindDeployments = "deployments"
	KindPods        = "pods"
	KindDashboard   = "dashboard"
	KindFile        = "file"
)

var (
	// ErrNoKubeClient is returned by New for a kube kind without a client.
	ErrNoKubeClient = errors.New("kubernetes client required")

	// ErrNoColumns is returned by Prime when the fetched data yields no columns.
	ErrNoColumns = errors.New("source has no columns")
)

// Source is a named row producer with a fixed column layout.
type Source interface {
	Name() string
	Identifier() string
	Columns() []datatable.Column
	Fetch(ctx context.Context) ([]datatable.Row, error)
}

// Classer is implemented by sources that color cell values.
type Classer interface {
	CustomClasses() []datatable.CustomClass
}

// IsKube reports whether kind reads from the Kubernetes API.
func IsKube(kind string) bool {
	switch kind {
	case KindNodes, KindDeployments, KindPods:
		return true
	}
	return false
}

// New builds the source selected by cfg.Source.Kind. kube is only consulted
// for the Kubernetes kinds.
func New(cfg config.Config, kube *k8s.Client) (Source, error) {
	kind := cfg.Source.Kind
	if IsKube(kind) && kube == nil {
		return nil, fmt.Errorf("source %s: %w", kind, ErrNoKubeClient)
	}

	var src Source
	switch kind {
	case KindNodes:
		src = NewNodes(kube, cfg.Kubernetes.Namespace)
	case KindDeployments:
		src = NewDeployments(kube, cfg.Kubernetes.Namespace, k8s.DefaultRookCephPrefixes())
	case KindPods:
		src = NewPods(kube, cfg.Kubernetes.Namespace, "")
	case KindDashboard:
		d, err := NewDashboard(cfg.Source.Dashboard, time.Duration(cfg.Timeouts.FetchTimeoutSeconds)*time.Second)
		if err != nil {
			return nil, err
		}
		src = d
	case KindFile:
		src = NewFile(cfg.Source.File)
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}

	return WithRetry(src, retry.DefaultConfig()), nil
}

// Prime fetches once when src derives its columns from the data, so a table
// can be built before the first reload. The fetched rows are returned; they
// are nil when src already knew its columns.
func Prime(ctx context.Context, src Source) ([]datatable.Row, error) {
	if len(src.Columns()) > 0 {
		return nil, nil
	}
	rows, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("prime %s: %w", src.Name(), err)
	}
	if len(src.Columns()) == 0 {
		return rows, fmt.Errorf("%s: %w", src.Name(), ErrNoColumns)
	}
	return rows, nil
}

type retrying struct {
	Source
	cfg retry.Config
}

// WithRetry retries transient Fetch failures of src.
func WithRetry(src Source, cfg retry.Config) Source {
	return &retrying{Source: src, cfg: cfg}
}

func (r *retrying) Fetch(ctx context.Context) ([]datatable.Row, error) {
	var rows []datatable.Row
	attempt := 0
	err := retry.Do(ctx, r.cfg, func() error {
		attempt++
		var fetchErr error
		rows, fetchErr = r.Source.Fetch(ctx)
		if fetchErr != nil {
			logger.Debug("fetch failed", "source", r.Name(), "attempt", attempt, "error", fetchErr)
		}
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *retrying) CustomClasses() []datatable.CustomClass {
	if c, ok := r.Source.(Classer); ok {
		return c.CustomClasses()
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
