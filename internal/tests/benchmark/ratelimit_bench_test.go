package benchmark

import (
	"testing"

	"github.com/yndnr/craftgate/internal/core/service"
)

// BenchmarkRateLimitAdmit benchmarks admission for a spread of clients.
func BenchmarkRateLimitAdmit(b *testing.B) {
	runWithClientCounts(b, ClientCounts, func(b *testing.B, count int) {
		rl := service.NewRateLimiter(service.RateLimiterConfig{Limit: 1 << 30, Logger: discardLogger()})
		keys := clientKeys(count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if ok, _ := rl.AdmitWithRetry(keys[i%len(keys)]); !ok {
				b.Fatal("request rejected under the limit")
			}
		}
		b.StopTimer()
		reportMemory(b, "limiter")
	})
}

// BenchmarkRateLimitAdmitConcurrent benchmarks concurrent admission.
func BenchmarkRateLimitAdmitConcurrent(b *testing.B) {
	runWithClientCounts(b, SmallClientCounts, func(b *testing.B, count int) {
		rl := service.NewRateLimiter(service.RateLimiterConfig{Limit: 1 << 30, Logger: discardLogger()})
		keys := clientKeys(count)

		b.ResetTimer()
		b.ReportAllocs()

		b.RunParallel(func(pb *testing.PB) {
			i := 0
			for pb.Next() {
				rl.Admit(keys[i%len(keys)])
				i++
			}
		})
	})
}

// BenchmarkRateLimitRejected benchmarks a client that is over its limit.
func BenchmarkRateLimitRejected(b *testing.B) {
	rl := service.NewRateLimiter(service.RateLimiterConfig{Limit: 1, Logger: discardLogger()})
	rl.Admit("10.0.0.1")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if ok, _ := rl.AdmitWithRetry("10.0.0.1"); ok {
			b.Fatal("request admitted over the limit")
		}
	}
}

// BenchmarkRateLimitSweep benchmarks sweeping idle windows.
func BenchmarkRateLimitSweep(b *testing.B) {
	rl := service.NewRateLimiter(service.RateLimiterConfig{Limit: 100, Logger: discardLogger()})
	for _, key := range clientKeys(10000) {
		rl.Admit(key)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rl.Sweep()
	}
}
