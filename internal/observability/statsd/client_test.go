package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestCleanPrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  rosterd  ":  "rosterd",
		"..rosterd..":  "rosterd",
		".":            "",
		"":             "",
		"rosterd.prod": "rosterd.prod",
	}

	for input, want := range tests {
		if got := cleanPrefix(input); got != want {
			t.Fatalf("cleanPrefix(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" run.transition ":  "run.transition",
		"run..duration":     "run.duration",
		"reaper/cleanup":    "reaper_cleanup",
		"job type":          "job_type",
		"run:solver|status": "run_solver_status",
		"gap@5#pct":         "gap_5_pct",
		".run.":             "run",
	}

	for input, want := range tests {
		if got := cleanName(input); got != want {
			t.Fatalf("cleanName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTagSuffix(t *testing.T) {
	t.Parallel()

	global := map[string]string{
		"env":      "prod",
		" worker ": " opt-1 ",
	}
	local := map[string]string{
		"transition": " completed ",
		"":           "dropped",
		"env":        "test",
	}

	got := tagSuffix(global, local)
	want := "|#env:test,transition:completed,worker:opt-1"

	if got != want {
		t.Fatalf("tagSuffix mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestTagSuffixEmpty(t *testing.T) {
	t.Parallel()

	if got := tagSuffix(nil, nil); got != "" {
		t.Fatalf("tagSuffix(nil, nil) = %q, want empty string", got)
	}
	if got := tagSuffix(map[string]string{"": "x"}, nil); got != "" {
		t.Fatalf("tagSuffix with only blank keys = %q, want empty string", got)
	}
}

func TestCopyTagsReturnsCopy(t *testing.T) {
	t.Parallel()

	original := map[string]string{
		"job_type": "schedule_optimization",
		"":         "dropped",
	}

	copied := copyTags(original)
	if copied == nil {
		t.Fatal("copyTags returned nil map")
	}

	copied["job_type"] = "reaper"
	if original["job_type"] != "schedule_optimization" {
		t.Fatal("copyTags did not copy values")
	}

	if _, ok := copied[""]; ok {
		t.Fatal("copyTags kept blank key")
	}
}

func TestClientWireFormat(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled:     true,
		Address:     pc.LocalAddr().String(),
		Prefix:      "rosterd",
		DialTimeout: time.Second,
		GlobalTags:  map[string]string{"env": "test"},
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	defer client.Close()

	read := func() string {
		t.Helper()
		buf := make([]byte, 512)
		if err := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatalf("set deadline: %v", err)
		}
		n, _, err := pc.ReadFrom(buf)
		if err != nil {
			t.Fatalf("read metric: %v", err)
		}
		return string(buf[:n])
	}

	client.Count("run.transition", 1, map[string]string{"to": "completed"})
	if got, want := read(), "rosterd.run.transition:1|c|#env:test,to:completed"; got != want {
		t.Fatalf("count line = %q, want %q", got, want)
	}

	client.Gauge("reaper.last_success_epoch", 1700000000, nil)
	if got, want := read(), "rosterd.reaper.last_success_epoch:1700000000|g|#env:test"; got != want {
		t.Fatalf("gauge line = %q, want %q", got, want)
	}

	client.Timing("run.duration", 1500*time.Millisecond, nil)
	if got, want := read(), "rosterd.run.duration:1500|ms|#env:test"; got != want {
		t.Fatalf("timing line = %q, want %q", got, want)
	}

	client.Histogram("run.solver_runtime", 2.5, map[string]string{"solver_status": "optimal"})
	if got, want := read(), "rosterd.run.solver_runtime:2.5|h|#env:test,solver_status:optimal"; got != want {
		t.Fatalf("histogram line = %q, want %q", got, want)
	}
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{
		enabled: true,
		conn:    clientConn,
	}

	if !client.Enabled() {
		t.Fatal("expected an active connection to report enabled")
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if client.Enabled() {
		t.Fatal("expected client to report disabled after Close")
	}

	// A second Close is a no-op, not an error.
	if err := client.Close(); err != nil {
		t.Fatalf("Close (second call) error: %v", err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
	nilClient.Count("run.transition", 1, nil)
	nilClient.Gauge("reaper.last_success_epoch", 1, nil)
	nilClient.Timing("run.duration", time.Second, nil)
	nilClient.Histogram("run.solver_runtime", 1, nil)
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{
		Enabled: true,
		Address: "   ",
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if client.Enabled() {
		t.Fatal("expected client to stay disabled when address is blank")
	}

	// Emissions against a disabled client are dropped silently.
	client.Count("run.transition", 1, nil)
	client.Histogram("run.mip_gap", 0.01, nil)
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{
		Enabled: true,
		Address: "bad address",
	})
	if err == nil {
		t.Fatal("expected NewClient to error for an unparsable address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}
