package audio

import (
	"testing"
	"time"
)

func TestSelectDeviceNoDevices(t *testing.T) {
	ctx := NewFakeContext(nil, time.Millisecond)
	if _, err := SelectDevice(ctx, ""); err == nil {
		t.Fatal("expected error with no capture devices")
	}
}

func TestSelectDeviceSingleDeviceSkipsPrompt(t *testing.T) {
	ctx := NewFakeContext(nil, time.Millisecond)
	ctx.SetDevices([]DeviceInfo{{ID: "1", Name: "Built-in Mic"}})

	dev, err := SelectDevice(ctx, "")
	if err != nil {
		t.Fatalf("SelectDevice: %v", err)
	}
	if dev.Name != "Built-in Mic" {
		t.Errorf("device = %q", dev.Name)
	}
}
