package out

import (
	"testing"
	"time"

	"worktrack/internal/modules/plugin/domain"
)

func TestTimeoutFor(t *testing.T) {
	t.Parallel()
	fallback := 5 * time.Second

	if got := timeoutFor(domain.ExecuteRequest{}, fallback); got != fallback {
		t.Fatalf("no declared timeout: got %v, want fallback %v", got, fallback)
	}
	if got := timeoutFor(domain.ExecuteRequest{TimeoutMS: 2500}, fallback); got != 2500*time.Millisecond {
		t.Fatalf("declared timeout: got %v, want 2.5s", got)
	}
	if got := timeoutFor(domain.ExecuteRequest{TimeoutMS: -1}, fallback); got != fallback {
		t.Fatalf("negative timeout must fall back, got %v", got)
	}
}
