package commands

import (
	"github.com/andri/cdtable/pkg/k8s"
	"github.com/andri/cdtable/pkg/tui/models"
)

var newK8sClient = k8s.NewClient
var runTableBrowser = models.Run
