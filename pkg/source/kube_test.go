package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/andri/cdtable/pkg/datatable"
	"github.com/andri/cdtable/pkg/k8s"
	"github.com/andri/cdtable/pkg/source"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/utils/ptr"
)

func fakeCluster() *k8s.Client {
	created := metav1.Time{Time: time.Now().Add(-3 * time.Hour)}
	return k8s.NewClientFromClientset(fake.NewClientset(
		&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{
				Name:              "worker-1",
				Labels:            map[string]string{"node-role.kubernetes.io/worker": "", "zone": "a"},
				CreationTimestamp: created,
			},
			Status: corev1.NodeStatus{Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}}},
		},
		&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: "worker-2", CreationTimestamp: created},
			Spec:       corev1.NodeSpec{Unschedulable: true},
		},
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "rook-ceph-osd-0", Namespace: "rook-ceph", CreationTimestamp: created},
			Spec: appsv1.DeploymentSpec{
				Replicas: ptr.To[int32](2),
				Template: corev1.PodTemplateSpec{Spec: corev1.PodSpec{
					NodeSelector: map[string]string{"kubernetes.io/hostname": "worker-1"},
				}},
			},
			Status: appsv1.DeploymentStatus{ReadyReplicas: 1},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "rook-ceph-osd-0-abc", Namespace: "rook-ceph", CreationTimestamp: created},
			Spec:       corev1.PodSpec{NodeName: "worker-1", Containers: []corev1.Container{{Name: "osd"}}},
			Status: corev1.PodStatus{
				Phase:             corev1.PodRunning,
				ContainerStatuses: []corev1.ContainerStatus{{Ready: true}},
			},
		},
	))
}

func TestNodesSource(t *testing.T) {
	t.Parallel()

	src := source.NewNodes(fakeCluster(), "rook-ceph")
	rows, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	table, err := datatable.New(datatable.Options{Columns: src.Columns(), Identifier: src.Identifier()})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	table.SetData(rows)

	view := table.View()
	if len(view) != 2 || view[0]["name"] != "worker-1" {
		t.Fatalf("unexpected view: %v", view)
	}
	if view[0]["ceph_pod_count"] != 1 || view[1]["status"] != "Unknown" {
		t.Fatalf("unexpected rows: %v", view)
	}

	var age *datatable.Column
	for _, c := range table.Columns() {
		if c.Prop == "created" {
			age = c
		}
	}
	if got := age.CellText(view[0]); got != "3h" {
		t.Fatalf("age cell = %q, want 3h", got)
	}

	table.SetSearch("zone")
	if len(table.Rows()) != 0 {
		t.Fatal("labels are objects and should not be searched by default")
	}
	table.SetSearch("roles:worker")
	if len(table.Rows()) != 1 {
		t.Fatalf("expected one worker, got %v", table.Rows())
	}

	cordoned, err := table.Filter("cordoned")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(cordoned.Options) != 2 {
		t.Fatalf("expected true/false options, got %+v", cordoned.Options)
	}
}

func TestDeploymentsSourceMarksScaling(t *testing.T) {
	t.Parallel()

	src := source.NewDeployments(fakeCluster(), "rook-ceph", k8s.DefaultRookCephPrefixes())
	rows, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 deployment, got %d", len(rows))
	}

	row := rows[0]
	if row["ready"] != "1/2" || row["status"] != "Scaling" || row["node_name"] != "worker-1" {
		t.Fatalf("unexpected row: %v", row)
	}

	var status datatable.Column
	for _, c := range src.Columns() {
		if c.Prop == "status" {
			status = c
		}
	}
	if got := status.CellText(row); got != "Scaling (1 of 2 ready)" {
		t.Fatalf("status cell = %q", got)
	}
}

func TestPodsSource(t *testing.T) {
	t.Parallel()

	rows, err := source.NewPods(fakeCluster(), "rook-ceph", "").Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 1 || rows[0]["ready"] != "1/1" || rows[0]["type"] != "osd" || rows[0]["status"] != "Running" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
