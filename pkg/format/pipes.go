package format

import (
	"fmt"
	"slices"
	"time"

	"github.com/andri/cdtable/pkg/datatable"
	"github.com/spf13/cast"
	"k8s.io/apimachinery/pkg/util/duration"
)

var pipes = map[string]datatable.Pipe{
	"age":       Age,
	"bytes":     bytesPipe,
	"percent":   percentPipe,
	"perSecond": perSecondPipe,
}

// Pipe returns the named pipe.
func Pipe(name string) (datatable.Pipe, error) {
	p, ok := pipes[name]
	if !ok {
		return nil, fmt.Errorf("unknown pipe %q: allowed values are %v", name, PipeNames())
	}
	return p, nil
}

// PipeNames lists the names Pipe accepts, sorted.
func PipeNames() []string {
	names := make([]string, 0, len(pipes))
	for name := range pipes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Age renders a creation time as a Kubernetes-style age ("5d", "36h").
// Values that are not times pass through.
func Age(v any) any {
	if v == nil {
		return nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil || t.IsZero() {
		return v
	}
	return duration.HumanDuration(time.Since(t))
}

func bytesPipe(v any) any {
	f, err := cast.ToFloat64E(v)
	if err != nil || v == nil {
		return v
	}
	return Bytes(int64(f))
}

func percentPipe(v any) any {
	f, err := cast.ToFloat64E(v)
	if err != nil || v == nil {
		return v
	}
	return Percent(f)
}

func perSecondPipe(v any) any {
	f, err := cast.ToFloat64E(v)
	if err != nil || v == nil {
		return v
	}
	return Bytes(int64(f)) + "/s"
}
