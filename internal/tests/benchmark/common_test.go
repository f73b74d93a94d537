package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/craftgate/internal/host"
)

// ClientCounts defines the distinct client addresses used by admission
// benchmarks.
var ClientCounts = []int{10, 1000, 10000, 100000}

// SmallClientCounts for quick benchmarks.
var SmallClientCounts = []int{10, 1000}

// PlayerCounts defines the online player counts for snapshot benchmarks.
var PlayerCounts = []int{2, 20, 200}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clientKeys returns count distinct remote addresses.
func clientKeys(count int) []string {
	keys := make([]string, count)
	for i := range keys {
		keys[i] = fmt.Sprintf("10.%d.%d.%d", (i>>16)&0xff, (i>>8)&0xff, i&0xff)
	}
	return keys
}

// playerNames returns count distinct player names.
func playerNames(count int) []string {
	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("player%d", i)
	}
	return names
}

// startHost starts a game host with the given players online and stops it
// when the benchmark ends.
func startHost(b *testing.B, players []string) *host.Server {
	b.Helper()
	h, err := host.New(host.Config{
		Name:         "CraftBukkit",
		Version:      "1.20.4",
		APIVersion:   "1.20.4-R0.1-SNAPSHOT",
		OnlineMode:   true,
		MaxPlayers:   len(players) + 1,
		TickInterval: time.Hour,
		QueueSize:    4096,
		Worlds:       []string{"world"},
		SeedPlayers:  players,
		Logger:       discardLogger(),
	})
	if err != nil {
		b.Fatalf("host.New failed: %v", err)
	}
	if err := h.Start(); err != nil {
		b.Fatalf("host.Start failed: %v", err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Stop(ctx)
	})

	deadline := time.Now().Add(5 * time.Second)
	for len(h.Players()) != len(players) {
		if time.Now().After(deadline) {
			b.Fatalf("host did not publish %d players", len(players))
		}
		time.Sleep(time.Millisecond)
	}
	return h
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithClientCounts runs a benchmark function with various client counts.
func runWithClientCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("clients_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
