package benchmark

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/craftgate/internal/core/service"
)

func newTokenService(b *testing.B) *service.TokenService {
	b.Helper()
	tokens, err := service.NewTokenService("benchmark-secret")
	if err != nil {
		b.Fatalf("NewTokenService failed: %v", err)
	}
	return tokens
}

// BenchmarkTokenIssue benchmarks session token signing.
func BenchmarkTokenIssue(b *testing.B) {
	tokens := newTokenService(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, _, err := tokens.Issue("admin"); err != nil {
			b.Fatalf("Issue failed: %v", err)
		}
	}
}

// BenchmarkTokenVerify benchmarks bearer token verification.
func BenchmarkTokenVerify(b *testing.B) {
	tokens := newTokenService(b)
	tok, _, err := tokens.Issue("admin")
	if err != nil {
		b.Fatalf("Issue failed: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if !tokens.Verify(tok) {
			b.Fatal("Verify rejected a valid token")
		}
	}
}

// BenchmarkTokenVerifyConcurrent benchmarks concurrent verification.
func BenchmarkTokenVerifyConcurrent(b *testing.B) {
	tokens := newTokenService(b)
	tok, _, err := tokens.Issue("admin")
	if err != nil {
		b.Fatalf("Issue failed: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens.Verify(tok)
		}
	})
}

// BenchmarkTokenVerifyInvalid benchmarks rejecting a forged token.
func BenchmarkTokenVerifyInvalid(b *testing.B) {
	tokens := newTokenService(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if tokens.Verify("eyJhbGciOiJIUzI1NiJ9.e30.forged") {
			b.Fatal("Verify accepted a forged token")
		}
	}
}

// BenchmarkLogin benchmarks the full login path, dominated by bcrypt.
func BenchmarkLogin(b *testing.B) {
	creds, err := service.NewCredentialStore("admin", "hunter2", bcrypt.MinCost)
	if err != nil {
		b.Fatalf("NewCredentialStore failed: %v", err)
	}
	auth := service.NewAuthService(creds, newTokenService(b), discardLogger())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := auth.Login("admin", "hunter2"); err != nil {
			b.Fatalf("Login failed: %v", err)
		}
	}
}
