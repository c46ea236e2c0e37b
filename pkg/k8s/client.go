// Package k8s reads the Rook-Ceph cluster objects that back the kube table sources.
package k8s

import (
	"context"
	"fmt"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// DefaultRequestTimeout bounds a single API request when ClientConfig.Timeout is zero.
const DefaultRequestTimeout = 15 * time.Second

// Client wraps a Kubernetes clientset with the list calls the table sources use.
type Client struct {
	Clientset kubernetes.Interface
}

// ClientConfig holds configuration for creating a Kubernetes client
type ClientConfig struct {
	// Kubeconfig overrides the kubeconfig path. Empty uses $KUBECONFIG, then ~/.kube/config.
	Kubeconfig string

	// Context selects a kubeconfig context other than the current one.
	Context string

	// Timeout is the per-request timeout. Zero uses DefaultRequestTimeout.
	Timeout time.Duration
}

// NewClient creates a new Kubernetes client with the given configuration
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	restConfig, err := buildConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubernetes config: %w", err)
	}

	clientset, clientErr := kubernetes.NewForConfig(restConfig)
	if clientErr != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", clientErr)
	}

	client := &Client{
		Clientset: clientset,
	}

	if validateErr := client.validateConnectivity(ctx); validateErr != nil {
		return nil, fmt.Errorf("failed to validate kubernetes connectivity: %w", validateErr)
	}

	return client, nil
}

// NewClientFromClientset creates a Client from an existing clientset.
// Tests use it to inject fake clientsets.
func NewClientFromClientset(clientset kubernetes.Interface) *Client {
	return &Client{Clientset: clientset}
}

// buildConfig resolves a REST config with client-go's standard loading rules:
// in-cluster config, then $KUBECONFIG, then ~/.kube/config. An explicit path
// or context from cfg takes precedence.
func buildConfig(cfg ClientConfig) (*rest.Config, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if cfg.Kubeconfig != "" {
		loadingRules.ExplicitPath = cfg.Kubeconfig
	}

	overrides := &clientcmd.ConfigOverrides{CurrentContext: cfg.Context}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	restConfig.Timeout = cfg.Timeout
	if restConfig.Timeout == 0 {
		restConfig.Timeout = DefaultRequestTimeout
	}

	return restConfig, nil
}

// validateConnectivity checks the /version endpoint
func (c *Client) validateConnectivity(_ context.Context) error {
	_, err := c.Clientset.Discovery().ServerVersion()
	if err != nil {
		return fmt.Errorf("failed to connect to kubernetes API server: %w", err)
	}
	return nil
}
