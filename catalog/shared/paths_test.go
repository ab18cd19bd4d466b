package shared

import "testing"

func TestIsLanceTable(t *testing.T) {
	if !IsLanceTable(map[string]string{"table_type": "lance"}) {
		t.Error("Exact marker not recognized")
	}
	if !IsLanceTable(map[string]string{"TABLE_TYPE": "LANCE"}) {
		t.Error("Marker matching should be case-insensitive")
	}
	if IsLanceTable(map[string]string{"table_type": "iceberg"}) {
		t.Error("Foreign table type recognized as lance")
	}
	if IsLanceTable(map[string]string{"owner": "me"}) {
		t.Error("Missing marker recognized as lance")
	}
	if IsLanceTable(nil) {
		t.Error("Nil properties recognized as lance")
	}
}

func TestLanceTableProperties(t *testing.T) {
	in := map[string]string{"owner": "me"}
	out := LanceTableProperties(in)

	if !IsLanceTable(out) {
		t.Error("Stamped properties missing marker")
	}
	if out["owner"] != "me" {
		t.Error("User properties lost during stamping")
	}
	if _, ok := in[TableTypeKey]; ok {
		t.Error("Caller's map was mutated")
	}
}

func TestDefaultTableLocation(t *testing.T) {
	got := DefaultTableLocation("/warehouse/", Of("analytics", "events"), "clicks")
	want := "/warehouse/analytics/events/clicks.lance"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	got = DefaultTableLocation("s3://bucket/root", Of("db"), "tbl")
	want = "s3://bucket/root/db/tbl.lance"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
