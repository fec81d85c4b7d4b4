package redis

import (
	"context"
	"testing"
	"time"

	"github.com/ankurdental/dentaldesk/config"
)

func TestFromCentralConfig(t *testing.T) {
	got := FromCentralConfig(config.RedisConfig{Addr: "cache:6379", PoolSize: 32})
	if got.Addr != "cache:6379" {
		t.Errorf("Addr = %q", got.Addr)
	}
	if got.PoolSize != 32 {
		t.Errorf("PoolSize = %d, want 32", got.PoolSize)
	}
	if got.MinIdleConns != DefaultConfig().MinIdleConns {
		t.Errorf("MinIdleConns = %d, want default", got.MinIdleConns)
	}
	if got.DialTimeout() != 5*time.Second {
		t.Errorf("DialTimeout() = %v, want 5s", got.DialTimeout())
	}
}

func TestTimeoutFallbacks(t *testing.T) {
	var c Config
	if c.ReadTimeout() != 3*time.Second || c.WriteTimeout() != 3*time.Second {
		t.Errorf("zero config timeouts = %v/%v", c.ReadTimeout(), c.WriteTimeout())
	}
}

func TestNewRedis_EmptyAddr(t *testing.T) {
	if _, err := NewRedis(context.Background(), Config{}); err == nil {
		t.Error("NewRedis() with empty addr succeeded")
	}
}
