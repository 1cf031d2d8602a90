package cost

import "testing"

func TestLedger_RoundTrip(t *testing.T) {
	l := NewLedger(7, []int{0, 3}, 2, 4)

	if err := l.Set(3, ComponentOPEX, 1, 2, 42.5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := l.Value(3, ComponentOPEX, 1, 2)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if got != 42.5 {
		t.Errorf("Expected 42.5, got %v", got)
	}
	// Neighbouring cells stay zero.
	if v, _ := l.Value(3, ComponentOPEX, 1, 1); v != 0 {
		t.Errorf("Expected untouched cell zero, got %v", v)
	}
	if v, _ := l.Value(0, ComponentOPEX, 1, 2); v != 0 {
		t.Errorf("Expected other year zero, got %v", v)
	}
}

func TestLedger_RejectsUnknownCoordinates(t *testing.T) {
	l := NewLedger(7, []int{0}, 1, 2)

	if err := l.Set(5, ComponentCAPEX, 0, 0, 1); err == nil {
		t.Error("Expected error for unknown year")
	}
	if err := l.Set(0, Component(0), 0, 0, 1); err == nil {
		t.Error("Expected error for component below range")
	}
	if err := l.Set(0, Component(NumComponents+1), 0, 0, 1); err == nil {
		t.Error("Expected error for component above range")
	}
}

func TestLedger_EachRowOrder(t *testing.T) {
	l := NewLedger(7, []int{2, 5}, 1, 3)

	type key struct {
		year int
		c    Component
	}
	var visited []key
	err := l.EachRow(func(year int, c Component, draws []float64) error {
		if len(draws) != 3 {
			t.Fatalf("Expected 3 draw columns, got %d", len(draws))
		}
		visited = append(visited, key{year, c})
		return nil
	})
	if err != nil {
		t.Fatalf("EachRow failed: %v", err)
	}
	if len(visited) != 2*NumComponents {
		t.Fatalf("Expected %d rows, got %d", 2*NumComponents, len(visited))
	}
	if visited[0] != (key{2, ComponentCAPEX}) {
		t.Errorf("Expected first row (2, CAPEX), got %+v", visited[0])
	}
	if visited[NumComponents] != (key{5, ComponentCAPEX}) {
		t.Errorf("Expected year rollover at row %d, got %+v", NumComponents, visited[NumComponents])
	}
}
