package position

import "testing"

func TestPositionString(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want string
	}{
		{"with file", Position{Filename: "a.fr", Line: 3, Column: 5}, "a.fr:3:5"},
		{"without file", Position{Line: 1, Column: 1}, "1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanUnion(t *testing.T) {
	a := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 3, Offset: 2}}
	b := Span{Start: Position{Line: 1, Column: 5, Offset: 4}, End: Position{Line: 1, Column: 9, Offset: 8}}

	u := a.Union(b)
	if u.Start != a.Start || u.End != b.End {
		t.Errorf("Union() = %+v, want start=%+v end=%+v", u, a.Start, b.End)
	}
}

func TestPositionBefore(t *testing.T) {
	a := Position{Offset: 0}
	b := Position{Offset: 5}
	if !a.Before(b) {
		t.Error("expected a to be before b")
	}
	if b.Before(a) {
		t.Error("expected b not to be before a")
	}
}
