package raster

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestDataURL(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`
	u := DataURL(svg)
	if !strings.HasPrefix(u, "data:image/svg+xml;base64,") {
		t.Fatalf("unexpected prefix: %s", u[:40])
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(u, "data:image/svg+xml;base64,"))
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != svg {
		t.Errorf("round-trip mismatch: %s", decoded)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.defaults()
	if o.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", o.Timeout)
	}
	if o.Logger == nil {
		t.Error("Logger not defaulted")
	}
}
