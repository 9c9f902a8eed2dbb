package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "iso string", input: `"2024-03-05T14:30:00.000Z"`, want: want},
		{name: "epoch millis", input: `1709649000000`, want: want},
		{name: "loose date string", input: `"2024-03-05 14:30:00"`, want: want},
		{name: "null", input: `null`, want: time.Time{}},
		{name: "empty string", input: `""`, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampUnmarshalUnreadable(t *testing.T) {
	for _, input := range []string{`"definitely not a date"`, `"n/a"`, `true`, `{"v":1}`, `[1]`} {
		ts := Timestamp{Time: time.Now()}
		if err := json.Unmarshal([]byte(input), &ts); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", input, err)
		}
		if !ts.IsZero() {
			t.Errorf("Unmarshal(%s) = %v, want zero time", input, ts.Time)
		}
	}

	if _, err := ParseTimestamp("definitely not a date"); err == nil {
		t.Error("ParseTimestamp() with garbage should return error")
	}
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations {
		got, err := ParseOperation(string(op))
		if err != nil {
			t.Fatalf("ParseOperation(%q) error = %v", op, err)
		}
		if got != op {
			t.Errorf("ParseOperation(%q) = %q", op, got)
		}
	}

	if _, err := ParseOperation("deleteEverything"); err == nil {
		t.Error("ParseOperation() with unknown name should return error")
	}
}

func TestOperationMethod(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpGetBlogPosts, "GET"},
		{OpGetComments, "GET"},
		{OpAddComment, "POST"},
		{OpAddRecommendation, "POST"},
	}
	for _, tt := range tests {
		if got := tt.op.Method(); got != tt.want {
			t.Errorf("%s.Method() = %s, want %s", tt.op, got, tt.want)
		}
	}
}
