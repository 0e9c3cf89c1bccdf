package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginLimiterAllowsUpToMax(t *testing.T) {
	rl := NewLoginRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("4th attempt should be blocked")
	}

	// Başka IP etkilenmez.
	if !rl.Allow("5.6.7.8") {
		t.Fatal("different IP must not be affected")
	}
}

func TestLoginLimiterReset(t *testing.T) {
	rl := NewLoginRateLimiter(2, time.Minute)
	defer rl.Close()

	rl.Allow("1.2.3.4")
	rl.Allow("1.2.3.4")
	if rl.Allow("1.2.3.4") {
		t.Fatal("3rd attempt should be blocked")
	}

	// Başarılı login sayacı sıfırlar.
	rl.Reset("1.2.3.4")
	if !rl.Allow("1.2.3.4") {
		t.Fatal("attempt after reset should be allowed")
	}
}

func TestLoginLimiterRetryAfter(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)
	defer rl.Close()

	if rl.RetryAfterSeconds("1.2.3.4") != 0 {
		t.Fatal("unknown IP should have zero retry-after")
	}

	rl.Allow("1.2.3.4")
	rl.Allow("1.2.3.4") // blocked

	retry := rl.RetryAfterSeconds("1.2.3.4")
	if retry <= 0 || retry > 61 {
		t.Fatalf("retry-after out of range: %d", retry)
	}
}

func TestCommentLimiterCooldown(t *testing.T) {
	rl := NewCommentRateLimiter(2, time.Minute, time.Minute)
	defer rl.Close()

	rl.Allow("user-1")
	rl.Allow("user-1")
	if rl.Allow("user-1") {
		t.Fatal("burst limit exceeded, should be blocked")
	}

	// Cooldown aktif — sonraki denemeler de reddedilir.
	if rl.Allow("user-1") {
		t.Fatal("cooldown must keep blocking")
	}
	if rl.RetryAfterSeconds("user-1") <= 0 {
		t.Fatal("expected positive retry-after during cooldown")
	}

	// Başka kullanıcı etkilenmez.
	if !rl.Allow("user-2") {
		t.Fatal("other users must not be affected")
	}
}

func TestExtractIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "10.0.0.1:54321",
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 70.1.2.3"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:54321",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			want:       "198.51.100.9",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/login", nil)
			r.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}

			if got := ExtractIP(r); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
