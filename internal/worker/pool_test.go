package worker

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsAndDrains(t *testing.T) {
	p := NewPool(3, 64)
	var n atomic.Int32
	for i := 0; i < 50; i++ {
		if !p.Submit(func() { n.Add(1) }) {
			t.Fatal("submit refused")
		}
	}
	p.Stop()
	if n.Load() != 50 {
		t.Fatalf("ran %d jobs, want 50", n.Load())
	}
	if p.Submit(func() {}) {
		t.Fatal("submit after stop accepted")
	}
	p.Stop()
}

func TestPoolFullQueue(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	p := NewPool(1, 1)
	p.Submit(func() { close(started); <-block })
	<-started
	if !p.Submit(func() {}) {
		t.Fatal("queue slot should be free")
	}
	if p.Submit(func() {}) {
		t.Fatal("full queue accepted a job")
	}
	close(block)
	p.Stop()
}
