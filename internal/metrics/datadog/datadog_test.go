package datadog

import (
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"atopetl/internal/metrics"
)

func TestNewBackendRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("NewBackend(empty Addr) error = nil")
	}
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil) = %v, want nil", got)
	}
	got := labelsToTags(metrics.Labels{"step": "parse", "job": "atop", "status": "success"})
	want := []string{"job:atop", "status:success", "step:parse"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labelsToTags = %v, want %v", got, want)
	}
}

func TestZeroBackendIsNoop(t *testing.T) {
	t.Parallel()

	var b Backend
	b.IncCounter(metrics.FilesTotal, 1, nil)
	b.ObserveHistogram(metrics.StepDuration, 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

// TestFlushSendsDatagrams points the backend at a local UDP listener standing
// in for the agent and checks the counter reaches it on Flush.
func TestFlushSendsDatagrams(t *testing.T) {
	t.Parallel()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	defer conn.Close()

	b, err := NewBackend(Config{Addr: conn.LocalAddr().String(), GlobalTags: []string{"env:test"}})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RecordsTotal, 5, metrics.Labels{"kind": "inserted"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	var got strings.Builder
	buf := make([]byte, 64*1024)
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && !strings.Contains(got.String(), metrics.RecordsTotal+":5|c") {
		_ = conn.SetReadDeadline(deadline)
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			break
		}
		got.Write(buf[:n])
	}
	if !strings.Contains(got.String(), metrics.RecordsTotal+":5|c") {
		t.Fatalf("datagrams %q lack %s count", got.String(), metrics.RecordsTotal)
	}
}
