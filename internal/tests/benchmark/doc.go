// Package benchmark provides performance benchmarks for the craftgate
// gateway: request admission, session tokens, the logic-goroutine
// dispatcher and the full HTTP stack.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run with specific client counts:
//
//	go test -bench=BenchmarkDispatch -benchmem -benchtime=10s ./internal/tests/benchmark/...
//
// Generate performance report:
//
//	go test -bench=. -benchmem -count=5 ./internal/tests/benchmark/... | tee benchmark.txt
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
