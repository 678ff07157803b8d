package core

import (
	"math"
	"testing"
)

func TestMask_Operations(t *testing.T) {
	m := Mask{true, false, true, true}
	other := Mask{true, true, false, true}

	if m.Count() != 3 {
		t.Errorf("Expected count 3, got %d", m.Count())
	}
	if !m.Any() {
		t.Error("Expected Any to be true")
	}
	if NewMask(3, false).Any() {
		t.Error("Expected empty mask to have no selection")
	}
	if NewMask(3, true).Count() != 3 {
		t.Error("Expected full mask to select every entry")
	}

	indices := m.Indices()
	expected := []int{0, 2, 3}
	if len(indices) != len(expected) {
		t.Fatalf("Expected indices %v, got %v", expected, indices)
	}
	for i := range expected {
		if indices[i] != expected[i] {
			t.Errorf("Expected indices %v, got %v", expected, indices)
		}
	}

	and := m.And(other)
	if and.Count() != 2 || !and[0] || !and[3] {
		t.Errorf("Unexpected conjunction %v", and)
	}
}

func TestRayBatch_SetAndGet(t *testing.T) {
	batch := NewRayBatch(2)
	if batch.Len() != 2 {
		t.Fatalf("Expected length 2, got %d", batch.Len())
	}

	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -1))
	batch.Set(1, ray)
	if batch.Ray(1) != ray {
		t.Errorf("Expected %v, got %v", ray, batch.Ray(1))
	}
	if batch.Ray(0) != (Ray{}) {
		t.Errorf("Untouched entry should be zero, got %v", batch.Ray(0))
	}
}

func TestHitBatch_Defaults(t *testing.T) {
	hb := NewHitBatch(3)
	for i := 0; i < hb.Len(); i++ {
		if hb.Hit[i] {
			t.Errorf("Entry %d should start as a miss", i)
		}
		if !math.IsInf(hb.T[i], 1) {
			t.Errorf("Entry %d should start at t=+Inf, got %f", i, hb.T[i])
		}
		if hb.Index[i] != -1 {
			t.Errorf("Entry %d should start with index -1, got %d", i, hb.Index[i])
		}
	}

	hb.Hit[1], hb.Index[1] = true, 4
	hb.Hit[2], hb.Index[2] = true, 0
	mask := hb.IndexMask(4)
	if mask.Count() != 1 || !mask[1] {
		t.Errorf("Expected only entry 1 selected, got %v", mask)
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	outward := NewVec3(0, 0, 1)

	var front HitRecord
	front.SetFaceNormal(NewRay(NewVec3(0, 0, 2), NewVec3(0, 0, -1)), outward)
	if !front.FrontFace || front.Normal != outward {
		t.Errorf("Expected front face with outward normal, got %+v", front)
	}

	var back HitRecord
	back.SetFaceNormal(NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1)), outward)
	if back.FrontFace || back.Normal != outward.Negate() {
		t.Errorf("Expected back face with flipped normal, got %+v", back)
	}
}
