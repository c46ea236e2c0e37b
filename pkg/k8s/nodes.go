package k8s

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DefaultRookCephPrefixes returns the name prefixes of pods and deployments
// managed by the Rook operator.
func DefaultRookCephPrefixes() []string {
	return []string{
		"rook-ceph-",
		"csi-cephfsplugin",
		"csi-rbdplugin",
	}
}

// ListNodes returns all nodes in the cluster
func (c *Client) ListNodes(ctx context.Context) ([]corev1.Node, error) {
	nodeList, err := c.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	return nodeList.Items, nil
}

// NodeInfo is one row of the nodes table.
type NodeInfo struct {
	Name           string            `json:"name"`
	Status         string            `json:"status"`
	Roles          []string          `json:"roles"`
	Schedulable    bool              `json:"schedulable"`
	Cordoned       bool              `json:"cordoned"`
	CephPodCount   int               `json:"ceph_pod_count"`
	Created        time.Time         `json:"created"`
	KubeletVersion string            `json:"kubelet_version"`
	Labels         map[string]string `json:"labels,omitempty"`
}

// ListNodesWithCephPods returns every node with the number of Rook-Ceph pods
// scheduled on it.
func (c *Client) ListNodesWithCephPods(ctx context.Context, namespace string) ([]NodeInfo, error) {
	prefixes := DefaultRookCephPrefixes()

	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	podList, err := c.Clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %s: %w", namespace, err)
	}

	nodePodCounts := make(map[string]int)
	for _, pod := range podList.Items {
		if matchesAnyPrefix(pod.Name, prefixes) {
			nodePodCounts[pod.Spec.NodeName]++
		}
	}

	result := make([]NodeInfo, 0, len(nodes))

	for _, node := range nodes {
		result = append(result, NodeInfo{
			Name:           node.Name,
			Status:         getNodeStatus(&node),
			Roles:          extractNodeRoles(&node),
			Schedulable:    !node.Spec.Unschedulable,
			Cordoned:       node.Spec.Unschedulable,
			CephPodCount:   nodePodCounts[node.Name],
			Created:        node.CreationTimestamp.UTC(),
			KubeletVersion: node.Status.NodeInfo.KubeletVersion,
			Labels:         node.Labels,
		})
	}

	return result, nil
}

func getNodeStatus(node *corev1.Node) string {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady {
			if condition.Status == corev1.ConditionTrue {
				return "Ready"
			}
			return "NotReady"
		}
	}
	return "Unknown"
}

// extractNodeRoles returns the node-role.kubernetes.io/* labels, sorted.
func extractNodeRoles(node *corev1.Node) []string {
	const rolePrefix = "node-role.kubernetes.io/"

	var roles []string
	for label := range node.Labels {
		if role, ok := strings.CutPrefix(label, rolePrefix); ok && role != "" {
			roles = append(roles, role)
		}
	}
	slices.Sort(roles)

	return roles
}

func matchesAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
