package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"0", "42", "0012345"}
	invalid := []string{"", "12a", "-1", "1.5", " 1"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2026-01-15")
	if !ok {
		t.Fatal("IsValidDate(\"2026-01-15\") = false, want true")
	}
	if date.Year() != 2026 || date.Month() != 1 || date.Day() != 15 {
		t.Errorf("IsValidDate parsed %v, want 2026-01-15", date)
	}

	invalid := []string{"", "15-01-2026", "2026/01/15", "2026-13-01", "2026-01-32", "not-a-date"}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"present", "absent", "late"}
	if !IsInSlice("present", slice) {
		t.Error("IsInSlice(\"present\") = false, want true")
	}
	if IsInSlice("asleep", slice) {
		t.Error("IsInSlice(\"asleep\") = true, want false")
	}
	if IsInSlice("present", nil) {
		t.Error("IsInSlice on nil slice = true, want false")
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"EMP041", "AB12", "STAFF123456"}
	invalid := []string{"", "emp041", "E1", "EMPLOYEE01", "EMP", "041", "EMP-41", "EMP1234567"}
	for _, code := range valid {
		if !IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", code)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "employee_id", Message: "employee_id is required"},
		{Field: "status", Message: "status must be present, absent, or late"},
	}

	want := "employee_id: employee_id is required; status: status must be present, absent, or late"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() has %d entries, want 2", len(m))
	}
	if m["employee_id"] != "employee_id is required" {
		t.Errorf("ToMap()[\"employee_id\"] = %q", m["employee_id"])
	}
}
