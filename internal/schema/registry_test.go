package schema

import "testing"

func TestMarshalDeterministicSortsKeys(t *testing.T) {
	v := map[string]any{"b": 1, "a": 2, "c": map[string]any{"z": 1, "y": 2}}
	data, err := MarshalDeterministic(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"a":2,"b":1,"c":{"y":2,"z":1}}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestMarshalDeterministicStable(t *testing.T) {
	v := map[string]any{"x": 1, "y": 2}
	a, err := MarshalDeterministic(v)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalDeterministic(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected stable output, got %s and %s", a, b)
	}
}

func TestFormatJSONCompactMode(t *testing.T) {
	SetCompactMode(true)
	defer SetCompactMode(false)
	out, err := FormatJSON([]byte(`{"a": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":1}` {
		t.Fatalf("got %s", out)
	}
}

func TestFormatJSONPretty(t *testing.T) {
	out, err := FormatJSON([]byte(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": 1\n}"
	if string(out) != want {
		t.Fatalf("got %q want %q", out, want)
	}
}
