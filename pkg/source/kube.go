package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/format"
	"github.com/andri/cdtable/pkg/k8s"
)

// Nodes lists cluster nodes with their Rook-Ceph pod count.
type Nodes struct {
	client    *k8s.Client
	namespace string
}

// NewNodes returns a nodes source counting pods in namespace.
func NewNodes(client *k8s.Client, namespace string) *Nodes {
	return &Nodes{client: client, namespace: namespace}
}

func (s *Nodes) Name() string       { return KindNodes }
func (s *Nodes) Identifier() string { return "name" }

func (s *Nodes) Columns() []datatable.Column {
	return []datatable.Column{
		{Prop: "name", Name: "Name", CellTransformation: datatable.CellBold},
		{Prop: "status", Name: "Status", Filterable: true, CellTransformation: datatable.CellClasses},
		{Prop: "roles", Name: "Roles"},
		{Prop: "cordoned", Name: "Cordoned", Filterable: true, CellTransformation: datatable.CellCheckIcon},
		{Prop: "ceph_pod_count", Name: "Ceph Pods"},
		{Prop: "created", Name: "Age", Pipe: format.Age, CellTransformation: datatable.CellTimeAgo},
		{Prop: "kubelet_version", Name: "Kubelet", Filterable: true, IsHidden: true},
		{Prop: "labels", Name: "Labels", IsHidden: true, Sortable: boolPtr(false)},
	}
}

func (s *Nodes) CustomClasses() []datatable.CustomClass {
	return statusClasses("Ready")
}

func (s *Nodes) Fetch(ctx context.Context) ([]datatable.Row, error) {
	nodes, err := s.client.ListNodesWithCephPods(ctx, s.namespace)
	if err != nil {
		return nil, err
	}
	rows := make([]datatable.Row, 0, len(nodes))
	for _, n := range nodes {
		labels := make(map[string]any, len(n.Labels))
		for k, v := range n.Labels {
			labels[k] = v
		}
		rows = append(rows, datatable.Row{
			"name":            n.Name,
			"status":          n.Status,
			"roles":           n.Roles,
			"schedulable":     n.Schedulable,
			"cordoned":        n.Cordoned,
			"ceph_pod_count":  n.CephPodCount,
			"created":         n.Created,
			"kubelet_version": n.KubeletVersion,
			"labels":          labels,
		})
	}
	return rows, nil
}

// Deployments lists Rook-Ceph deployments and the node each runs on.
type Deployments struct {
	client    *k8s.Client
	namespace string
	prefixes  []string
}

// NewDeployments returns a deployments source for names matching prefixes.
func NewDeployments(client *k8s.Client, namespace string, prefixes []string) *Deployments {
	return &Deployments{client: client, namespace: namespace, prefixes: prefixes}
}

func (s *Deployments) Name() string       { return KindDeployments }
func (s *Deployments) Identifier() string { return "name" }

func (s *Deployments) Columns() []datatable.Column {
	return []datatable.Column{
		{Prop: "name", Name: "Name", CellTransformation: datatable.CellBold},
		{Prop: "namespace", Name: "Namespace", IsHidden: true},
		{Prop: "type", Name: "Type", Filterable: true, CellTransformation: datatable.CellBadge},
		{Prop: "node_name", Name: "Node", Filterable: true},
		{Prop: "ready", Name: "Ready", Sortable: boolPtr(false)},
		{Prop: "status", Name: "Status", Filterable: true, CellTransformation: datatable.CellExecuting},
		{Prop: "osd_id", Name: "OSD", IsHidden: true},
		{Prop: "created", Name: "Age", Pipe: format.Age, CellTransformation: datatable.CellTimeAgo},
	}
}

func (s *Deployments) CustomClasses() []datatable.CustomClass {
	return statusClasses("Ready")
}

func (s *Deployments) Fetch(ctx context.Context) ([]datatable.Row, error) {
	deps, err := s.client.ListCephDeployments(ctx, s.namespace, s.prefixes)
	if err != nil {
		return nil, err
	}
	rows := make([]datatable.Row, 0, len(deps))
	for _, d := range deps {
		row := datatable.Row{
			"name":             d.Name,
			"namespace":        d.Namespace,
			"type":             d.Type,
			"node_name":        d.NodeName,
			"ready":            fmt.Sprintf("%d/%d", d.ReadyReplicas, d.DesiredReplicas),
			"ready_replicas":   d.ReadyReplicas,
			"desired_replicas": d.DesiredReplicas,
			"status":           d.Status,
			"osd_id":           d.OsdID,
			"created":          d.Created,
		}
		if d.Status == "Scaling" {
			row[datatable.ExecutingKey] = fmt.Sprintf("%d of %d ready", d.ReadyReplicas, d.DesiredReplicas)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Pods lists Rook-Ceph pods, optionally on a single node.
type Pods struct {
	client    *k8s.Client
	namespace string
	node      string
}

// NewPods returns a pods source. An empty node lists every node.
func NewPods(client *k8s.Client, namespace, node string) *Pods {
	return &Pods{client: client, namespace: namespace, node: node}
}

func (s *Pods) Name() string       { return KindPods }
func (s *Pods) Identifier() string { return "name" }

func (s *Pods) Columns() []datatable.Column {
	return []datatable.Column{
		{Prop: "name", Name: "Name", CellTransformation: datatable.CellBold},
		{Prop: "type", Name: "Type", Filterable: true, CellTransformation: datatable.CellBadge},
		{Prop: "node_name", Name: "Node", Filterable: true},
		{Prop: "status", Name: "Status", Filterable: true, CellTransformation: datatable.CellClasses},
		{Prop: "ready", Name: "Ready", Sortable: boolPtr(false)},
		{Prop: "restarts", Name: "Restarts"},
		{Prop: "ip", Name: "IP", IsHidden: true},
		{Prop: "owner_deployment", Name: "Deployment", IsHidden: true},
		{Prop: "created", Name: "Age", Pipe: format.Age, CellTransformation: datatable.CellTimeAgo},
	}
}

func (s *Pods) CustomClasses() []datatable.CustomClass {
	return statusClasses("Running", "Completed", "Succeeded")
}

func (s *Pods) Fetch(ctx context.Context) ([]datatable.Row, error) {
	pods, err := s.client.ListCephPods(ctx, s.namespace, s.node)
	if err != nil {
		return nil, err
	}
	rows := make([]datatable.Row, 0, len(pods))
	for _, p := range pods {
		rows = append(rows, datatable.Row{
			"name":             p.Name,
			"type":             p.Type,
			"node_name":        p.NodeName,
			"status":           p.Status,
			"ready":            fmt.Sprintf("%d/%d", p.ReadyContainers, p.TotalContainers),
			"restarts":         p.Restarts,
			"ip":               p.IP,
			"owner_deployment": p.OwnerDeployment,
			"created":          p.Created,
		})
	}
	return rows, nil
}

// statusClasses marks the healthy values "success" and any other status
// string "danger". Pending-like states ("Scaling", "Pending", "Init:*")
// are "warning".
func statusClasses(healthy ...string) []datatable.CustomClass {
	isHealthy := func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, h := range healthy {
			if s == h {
				return true
			}
		}
		return false
	}
	isPending := func(v any) bool {
		s, ok := v.(string)
		return ok && (s == "Scaling" || s == "Pending" || s == "ContainerCreating" || strings.HasPrefix(s, "Init:"))
	}
	return []datatable.CustomClass{
		{Class: "success", Match: isHealthy},
		{Class: "warning", Match: isPending},
		{Class: "danger", Match: func(v any) bool {
			s, ok := v.(string)
			return ok && s != "" && !isHealthy(v) && !isPending(v)
		}},
	}
}
