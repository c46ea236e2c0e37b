package k8s

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andri/cdtable/internal/logger"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PodInfo is one row of the pods table.
type PodInfo struct {
	Name            string    `json:"name"`
	Namespace       string    `json:"namespace"`
	Status          string    `json:"status"`
	ReadyContainers int       `json:"ready_containers"`
	TotalContainers int       `json:"total_containers"`
	Restarts        int32     `json:"restarts"`
	NodeName        string    `json:"node_name"`
	Created         time.Time `json:"created"`
	Type            string    `json:"type"`
	IP              string    `json:"ip,omitempty"`
	OwnerDeployment string    `json:"owner_deployment,omitempty"`
}

// ListCephPods returns the Rook-Ceph pods in namespace, optionally restricted
// to one node.
func (c *Client) ListCephPods(ctx context.Context, namespace string, nodeFilter string) ([]PodInfo, error) {
	prefixes := DefaultRookCephPrefixes()

	listOpts := metav1.ListOptions{}
	if nodeFilter != "" {
		listOpts.FieldSelector = fmt.Sprintf("spec.nodeName=%s", nodeFilter)
	}

	podList, err := c.Clientset.CoreV1().Pods(namespace).List(ctx, listOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %s: %w", namespace, err)
	}

	var result []PodInfo

	for _, pod := range podList.Items {
		if !matchesAnyPrefix(pod.Name, prefixes) {
			continue
		}

		readyContainers, totalContainers, restarts := getPodContainerStats(&pod)

		result = append(result, PodInfo{
			Name:            pod.Name,
			Namespace:       pod.Namespace,
			Status:          getPodStatus(&pod),
			ReadyContainers: readyContainers,
			TotalContainers: totalContainers,
			Restarts:        restarts,
			NodeName:        pod.Spec.NodeName,
			Created:         pod.CreationTimestamp.UTC(),
			Type:            extractPodType(pod.Name),
			IP:              pod.Status.PodIP,
			OwnerDeployment: c.ownerDeployment(ctx, &pod),
		})
	}

	return result, nil
}

// ownerDeployment follows the pod's controlling ReplicaSet to its Deployment.
// Lookup failures are logged and yield "".
func (c *Client) ownerDeployment(ctx context.Context, pod *corev1.Pod) string {
	for _, ownerRef := range pod.OwnerReferences {
		if ownerRef.Controller == nil || !*ownerRef.Controller {
			continue
		}
		switch strings.ToLower(ownerRef.Kind) {
		case "deployment":
			return ownerRef.Name
		case "replicaset":
			rs, err := c.Clientset.AppsV1().ReplicaSets(pod.Namespace).Get(ctx, ownerRef.Name, metav1.GetOptions{})
			if err != nil {
				logger.Debug("failed to resolve replicaset owner",
					"pod", pod.Name,
					"namespace", pod.Namespace,
					"replicaset", ownerRef.Name,
					"error", err)
				return ""
			}
			for _, rsOwner := range rs.OwnerReferences {
				if rsOwner.Controller != nil && *rsOwner.Controller && strings.EqualFold(rsOwner.Kind, "deployment") {
					return rsOwner.Name
				}
			}
		}
	}
	return ""
}

// getPodStatus prefers a container waiting/terminated reason over the phase.
func getPodStatus(pod *corev1.Pod) string {
	if pod.DeletionTimestamp != nil {
		return "Terminating"
	}

	for _, cs := range pod.Status.ContainerStatuses {
		if cs.State.Waiting != nil && cs.State.Waiting.Reason != "" {
			return cs.State.Waiting.Reason
		}
		if cs.State.Terminated != nil && cs.State.Terminated.Reason != "" {
			return cs.State.Terminated.Reason
		}
	}

	for _, cs := range pod.Status.InitContainerStatuses {
		if cs.State.Waiting != nil && cs.State.Waiting.Reason != "" {
			return "Init:" + cs.State.Waiting.Reason
		}
		if cs.State.Terminated != nil && cs.State.Terminated.ExitCode != 0 {
			return "Init:Error"
		}
	}

	return string(pod.Status.Phase)
}

func getPodContainerStats(pod *corev1.Pod) (ready int, total int, restarts int32) {
	total = len(pod.Spec.Containers)
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
		restarts += cs.RestartCount
	}
	return ready, total, restarts
}

// podTypePrefixes is ordered longest prefix first so rook-ceph-osd-prepare
// never classifies as osd.
var podTypePrefixes = []struct {
	prefix string
	typ    string
}{
	{"rook-ceph-crashcollector", "crashcollector"},
	{"rook-ceph-osd-prepare", "prepare"},
	{"rook-ceph-exporter", "exporter"},
	{"rook-ceph-operator", "operator"},
	{"rook-ceph-cleanup", "cleanup"},
	{"csi-cephfsplugin", "csi"},
	{"rook-ceph-tools", "tools"},
	{"csi-rbdplugin", "csi"},
	{"rook-ceph-osd", "osd"},
	{"rook-ceph-mon", "mon"},
	{"rook-ceph-mgr", "mgr"},
	{"rook-ceph-mds", "mds"},
	{"rook-ceph-rgw", "rgw"},
}

func extractPodType(name string) string {
	for _, entry := range podTypePrefixes {
		if strings.HasPrefix(name, entry.prefix) {
			return entry.typ
		}
	}
	return "other"
}
