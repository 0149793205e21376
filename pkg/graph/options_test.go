package graph

import "testing"

func TestOptionsTypedLookups(t *testing.T) {
	o := Options{
		"iterations":    500,
		"node distance": 2.5,
		"cut policy":    "edges",
		"coarsen":       true,
	}

	if got, ok := o.Int("iterations"); !ok || got != 500 {
		t.Errorf("Int(iterations) = %d, %v", got, ok)
	}
	if got, ok := o.Float("node distance"); !ok || got != 2.5 {
		t.Errorf("Float(node distance) = %g, %v", got, ok)
	}
	// Integral values read back as floats.
	if got, ok := o.Float("iterations"); !ok || got != 500 {
		t.Errorf("Float(iterations) = %g, %v", got, ok)
	}
	if got, ok := o.String("cut policy"); !ok || got != "edges" {
		t.Errorf("String(cut policy) = %q, %v", got, ok)
	}
	if got, ok := o.Bool("coarsen"); !ok || !got {
		t.Errorf("Bool(coarsen) = %v, %v", got, ok)
	}

	if _, ok := o.Float("cut policy"); ok {
		t.Error("Float(string value) reported ok")
	}
	if _, ok := o.Int("missing"); ok {
		t.Error("Int(missing key) reported ok")
	}
}

func TestOptionsClone(t *testing.T) {
	o := Options{"k": 1}
	c := o.Clone()
	c["k"] = 2
	if v, _ := o.Int("k"); v != 1 {
		t.Error("Clone() shares storage with the original")
	}
}
