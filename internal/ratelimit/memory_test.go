package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryAdmitsUpToLimit(t *testing.T) {
	m := NewMemory(5, time.Minute)
	now := time.Now()
	for i := 0; i < 5; i++ {
		ok, err := m.Admit(context.Background(), "1.2.3.4", now.Add(time.Duration(i)*time.Second))
		if err != nil || !ok {
			t.Fatalf("request %d should be admitted (ok=%v err=%v)", i+1, ok, err)
		}
	}
	ok, err := m.Admit(context.Background(), "1.2.3.4", now.Add(6*time.Second))
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if ok {
		t.Fatal("sixth request within the window should be rejected")
	}
}

func TestMemoryRejectionNotRecorded(t *testing.T) {
	m := NewMemory(1, time.Minute)
	now := time.Now()
	if ok, _ := m.Admit(context.Background(), "c", now); !ok {
		t.Fatal("first request should pass")
	}
	// rejections must not extend the window
	for i := 0; i < 10; i++ {
		if ok, _ := m.Admit(context.Background(), "c", now.Add(time.Duration(i)*time.Second)); ok {
			t.Fatal("request inside window should be rejected")
		}
	}
	if ok, _ := m.Admit(context.Background(), "c", now.Add(61*time.Second)); !ok {
		t.Fatal("request after the window should be admitted again")
	}
}

func TestMemoryWindowSlides(t *testing.T) {
	m := NewMemory(2, time.Minute)
	now := time.Now()
	m.Admit(context.Background(), "c", now)
	m.Admit(context.Background(), "c", now.Add(30*time.Second))
	if ok, _ := m.Admit(context.Background(), "c", now.Add(40*time.Second)); ok {
		t.Fatal("expected rejection while both entries in window")
	}
	// first entry expires at now+60s
	if ok, _ := m.Admit(context.Background(), "c", now.Add(61*time.Second)); !ok {
		t.Fatal("expected admission after oldest entry left the window")
	}
}

func TestMemoryClientsIndependent(t *testing.T) {
	m := NewMemory(1, time.Minute)
	now := time.Now()
	if ok, _ := m.Admit(context.Background(), "a", now); !ok {
		t.Fatal("client a should pass")
	}
	if ok, _ := m.Admit(context.Background(), "b", now); !ok {
		t.Fatal("client b should pass independently")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory(50, time.Minute)
	now := time.Now()
	var wg sync.WaitGroup
	admitted := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, _ := m.Admit(context.Background(), "shared", now.Add(time.Duration(i)*time.Millisecond))
			admitted <- ok
		}(i)
	}
	wg.Wait()
	close(admitted)
	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	if count != 50 {
		t.Fatalf("expected exactly 50 admissions, got %d", count)
	}
}
