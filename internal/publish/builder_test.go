// internal/publish/builder_test.go
package publish

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tamzrod/dht-gateway/internal/config"
)

func TestBuild_NoTargets(t *testing.T) {
	pub, err := Build(config.GatewayConfig{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := pub.(Multi)
	if !ok || len(m) != 0 {
		t.Fatalf("pub = %T, want empty Multi", pub)
	}
}

func TestAwaitConnect_Success(t *testing.T) {
	fake := &fakeMQTTClient{}
	if err := awaitConnect(fake, &fakeToken{}, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.disconnected {
		t.Fatalf("successful connect must leave the client open")
	}
}

func TestAwaitConnect_BrokerError(t *testing.T) {
	fake := &fakeMQTTClient{}
	err := awaitConnect(fake, &fakeToken{err: errors.New("not authorized")}, time.Second)
	if err == nil || !strings.Contains(err.Error(), "not authorized") {
		t.Fatalf("err = %v, want broker error", err)
	}
	if !fake.disconnected {
		t.Fatalf("failed connect must disconnect the client")
	}
}

func TestAwaitConnect_Timeout(t *testing.T) {
	fake := &fakeMQTTClient{}
	if err := awaitConnect(fake, &fakeToken{expired: true}, time.Millisecond); err == nil {
		t.Fatalf("expected timeout error")
	}
	if !fake.disconnected {
		t.Fatalf("timed-out connect must disconnect the client")
	}
}
