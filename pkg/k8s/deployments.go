package k8s

import (
	"context"
	"fmt"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListDeploymentsInNamespace returns all deployments in a namespace
func (c *Client) ListDeploymentsInNamespace(ctx context.Context, namespace string) ([]appsv1.Deployment, error) {
	deploymentList, err := c.Clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments in namespace %s: %w", namespace, err)
	}

	return deploymentList.Items, nil
}

// FilterDeploymentsByPrefix returns deployments whose names start with any of the given prefixes
func FilterDeploymentsByPrefix(deployments []appsv1.Deployment, prefixes []string) []appsv1.Deployment {
	if len(prefixes) == 0 {
		return deployments
	}

	filtered := make([]appsv1.Deployment, 0, len(deployments))
	for _, deployment := range deployments {
		if matchesAnyPrefix(deployment.Name, prefixes) {
			filtered = append(filtered, deployment)
		}
	}

	return filtered
}

// DeploymentInfo is one row of the deployments table.
type DeploymentInfo struct {
	Name            string    `json:"name"`
	Namespace       string    `json:"namespace"`
	ReadyReplicas   int32     `json:"ready_replicas"`
	DesiredReplicas int32     `json:"desired_replicas"`
	NodeName        string    `json:"node_name"`
	Created         time.Time `json:"created"`
	Status          string    `json:"status"`
	Type            string    `json:"type"`
	OsdID           string    `json:"osd_id,omitempty"`
}

// ListCephDeployments returns the deployments in namespace matching prefixes,
// each resolved to the node it is pinned to or currently running on.
func (c *Client) ListCephDeployments(ctx context.Context, namespace string, prefixes []string) ([]DeploymentInfo, error) {
	deployments, err := c.ListDeploymentsInNamespace(ctx, namespace)
	if err != nil {
		return nil, err
	}

	filtered := FilterDeploymentsByPrefix(deployments, prefixes)

	podList, err := c.Clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %s: %w", namespace, err)
	}

	deploymentNodes := make(map[string]string)
	for _, pod := range podList.Items {
		if name := owningDeployment(&pod, filtered); name != "" {
			deploymentNodes[name] = pod.Spec.NodeName
		}
	}

	result := make([]DeploymentInfo, 0, len(filtered))

	for _, dep := range filtered {
		// nodeSelector also covers deployments scaled to zero
		nodeName := GetDeploymentTargetNode(&dep)
		if nodeName == "" {
			nodeName = deploymentNodes[dep.Name]
		}

		result = append(result, DeploymentInfo{
			Name:            dep.Name,
			Namespace:       dep.Namespace,
			ReadyReplicas:   dep.Status.ReadyReplicas,
			DesiredReplicas: getDeploymentDesiredReplicas(&dep),
			NodeName:        nodeName,
			Created:         dep.CreationTimestamp.UTC(),
			Status:          getDeploymentStatusString(&dep),
			Type:            extractDeploymentType(dep.Name),
			OsdID:           extractOsdID(&dep),
		})
	}

	return result, nil
}

// owningDeployment matches a pod's ReplicaSet (<deployment>-<hash>) to the
// longest deployment name it extends, so "rook-ceph-exporter-rook-m02" wins
// over "rook-ceph-exporter-rook".
func owningDeployment(pod *corev1.Pod, deployments []appsv1.Deployment) string {
	var bestMatch string
	for _, ownerRef := range pod.OwnerReferences {
		if ownerRef.Kind != "ReplicaSet" {
			continue
		}
		for _, dep := range deployments {
			if strings.HasPrefix(ownerRef.Name, dep.Name+"-") && len(dep.Name) > len(bestMatch) {
				bestMatch = dep.Name
			}
		}
	}
	return bestMatch
}

func getDeploymentDesiredReplicas(dep *appsv1.Deployment) int32 {
	if dep.Spec.Replicas != nil {
		return *dep.Spec.Replicas
	}
	return 1
}

// getDeploymentStatusString returns Ready, Scaling, Unavailable or Scaled Down.
func getDeploymentStatusString(dep *appsv1.Deployment) string {
	desired := getDeploymentDesiredReplicas(dep)
	ready := dep.Status.ReadyReplicas

	if ready == desired && desired > 0 {
		return "Ready"
	}
	if ready == 0 {
		if desired == 0 {
			return "Scaled Down"
		}
		return "Unavailable"
	}
	return "Scaling"
}

// deploymentTypePrefixes is ordered longest prefix first.
var deploymentTypePrefixes = []struct {
	prefix string
	typ    string
}{
	{"rook-ceph-csi-cephfs-provisioner", "csi"},
	{"rook-ceph-csi-addons-controller", "csi"},
	{"rook-ceph-csi-rbd-provisioner", "csi"},
	{"rook-ceph-csi-nfs-provisioner", "csi"},
	{"rook-ceph-csi-detect-version", "detect"},
	{"csi-cephfsplugin-provisioner", "csi"},
	{"rook-ceph-filesystem-mirror", "mirror"},
	{"csi-rbdplugin-provisioner", "csi"},
	{"rook-ceph-crashcollector", "crashcollector"},
	{"rook-ceph-detect-version", "detect"},
	{"rook-ceph-object-realm", "realm"},
	{"rook-ceph-object-store", "store"},
	{"rook-ceph-direct-mount", "mount"},
	{"rook-ceph-object-zone", "zone"},
	{"rook-ceph-osd-prepare", "prepare"},
	{"ceph-volumemodechange", "volumemode"},
	{"rook-ceph-remove-mon", "remove"},
	{"rook-ceph-purge-osd", "purge"},
	{"rook-ceph-exporter", "exporter"},
	{"rook-ceph-operator", "operator"},
	{"rook-ceph-cleanup", "cleanup"},
	{"rook-ceph-mirror", "mirror"},
	{"rook-ceph-tools", "tools"},
	{"rook-ceph-osd", "osd"},
	{"rook-ceph-mon", "mon"},
	{"rook-ceph-mgr", "mgr"},
	{"rook-ceph-mds", "mds"},
	{"rook-ceph-rgw", "rgw"},
	{"rook-ceph-nfs", "nfs"},
}

func extractDeploymentType(name string) string {
	for _, entry := range deploymentTypePrefixes {
		if strings.HasPrefix(name, entry.prefix) {
			return entry.typ
		}
	}
	return "other"
}

func extractOsdID(dep *appsv1.Deployment) string {
	return dep.Labels["ceph-osd-id"]
}

// GetDeploymentTargetNode extracts the target node from a deployment's spec.
// Returns empty string if deployment is not node-pinned.
func GetDeploymentTargetNode(dep *appsv1.Deployment) string {
	if ns := dep.Spec.Template.Spec.NodeSelector; ns != nil {
		if hostname, ok := ns["kubernetes.io/hostname"]; ok {
			return hostname
		}
	}

	affinity := dep.Spec.Template.Spec.Affinity
	if affinity == nil || affinity.NodeAffinity == nil {
		return ""
	}
	req := affinity.NodeAffinity.RequiredDuringSchedulingIgnoredDuringExecution
	if req == nil {
		return ""
	}
	for _, term := range req.NodeSelectorTerms {
		for _, expr := range term.MatchExpressions {
			if expr.Key == "kubernetes.io/hostname" &&
				expr.Operator == corev1.NodeSelectorOpIn && len(expr.Values) > 0 {
				return expr.Values[0]
			}
		}
	}
	return ""
}
