package handlers

import (
	"testing"
	"time"
)

func TestParseBoolish(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{val: "1", want: true},
		{val: "true", want: true},
		{val: "TRUE", want: true},
		{val: "yes", want: true},
		{val: "Y", want: true},
		{val: " true ", want: true},
		{val: "", want: false},
		{val: "0", want: false},
		{val: "false", want: false},
		{val: "no", want: false},
		{val: "maybe", want: false},
	}

	for _, tt := range tests {
		t.Run("val="+tt.val, func(t *testing.T) {
			if got := parseBoolish(tt.val); got != tt.want {
				t.Errorf("parseBoolish(%q) = %v, want %v", tt.val, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	if got := parseDate(""); got != nil {
		t.Errorf("parseDate(\"\") = %v, want nil", got)
	}

	got := parseDate("2026-09-12")
	if got == nil {
		t.Fatal("parseDate returned nil for valid input")
	}
	want := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDate = %v, want %v", got, want)
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate(nil); got != nil {
		t.Errorf("formatDate(nil) = %v, want nil", got)
	}

	d := time.Date(2026, 9, 12, 14, 30, 0, 0, time.UTC)
	got := formatDate(&d)
	if got == nil || *got != "2026-09-12" {
		t.Errorf("formatDate = %v, want 2026-09-12", got)
	}
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	type sample struct {
		DisplayTitle string `json:"title" validate:"required"`
		Contact      string `json:"email" validate:"omitempty,email"`
	}

	err := validate.Struct(sample{Contact: "nope"})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	fields := fieldErrors(err)
	if _, ok := fields["title"]; !ok {
		t.Errorf("fields = %v, want json name \"title\"", fields)
	}
	if _, ok := fields["email"]; !ok {
		t.Errorf("fields = %v, want json name \"email\"", fields)
	}
	if _, ok := fields["DisplayTitle"]; ok {
		t.Error("struct field name leaked into error map")
	}
}
