package ibl_test

import (
	"sync"
	"testing"

	"pbr-ibl/ibl"
)

func TestSlotTakeOnce(t *testing.T) {
	var slot ibl.Slot[int]
	if v := slot.TryTake(); v != nil {
		t.Fatalf("empty slot returned %v", *v)
	}

	x := 7
	slot.Publish(&x)
	if v := slot.TryTake(); v == nil || *v != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
	if v := slot.TryTake(); v != nil {
		t.Errorf("slot should be empty after a take, got %v", *v)
	}
}

func TestSlotLastWriteWins(t *testing.T) {
	var slot ibl.Slot[int]
	a, b := 1, 2
	slot.Publish(&a)
	slot.Publish(&b)
	if v := slot.TryTake(); v == nil || *v != 2 {
		t.Errorf("expected the second value, got %v", v)
	}
}

func TestSlotConcurrentPublish(t *testing.T) {
	var slot ibl.Slot[[]int]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		data := make([]int, 1000)
		for i := range data {
			data[i] = i
		}
		slot.Publish(&data)
	}()
	wg.Wait()

	v := slot.TryTake()
	if v == nil {
		t.Fatal("published value not visible")
	}
	for i, x := range *v {
		if x != i {
			t.Fatalf("element %d should be %d but was %d", i, i, x)
		}
	}
}
