package field

import "testing"

func TestIsValid(t *testing.T) {
	for _, f := range []Field{Title, Creator, Subjects, Description, Popular} {
		if !f.IsValid() {
			t.Errorf("IsValid() = false for %q", f)
		}
	}
	if Field("isbn").IsValid() {
		t.Error("IsValid() = true for unknown field")
	}
	if Field("").IsValid() {
		t.Error("IsValid() = true for empty field")
	}
}
