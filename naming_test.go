package jdto_test

import (
	"testing"

	jdto "github.com/jdto/jdto"
)

func TestSnakeCaseToSource(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"firstName", "first_name"},
		{"name", "name"},
		{"htmlParser", "html_parser"},
		{"userID", "user_id"},
		{"already_snake", "already_snake"},
		{"Mixed_Case", "mixed_case"},
		{"a", "a"},
		{"", ""},
	}
	s := jdto.SnakeCaseStrategy{}
	for _, c := range cases {
		if got := s.Convert(c.in, jdto.ToSource); got != c.want {
			t.Errorf("Convert(%q, ToSource) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSnakeCaseToProperty(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"first_name", "firstName"},
		{"name", "name"},
		{"html_parser", "htmlParser"},
		{"a_b_c", "aBC"},
		{"__padded__", "padded"},
	}
	s := jdto.SnakeCaseStrategy{}
	for _, c := range cases {
		if got := s.Convert(c.in, jdto.ToProperty); got != c.want {
			t.Errorf("Convert(%q, ToProperty) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSnakeCaseRoundTrip(t *testing.T) {
	s := jdto.SnakeCaseStrategy{}
	for _, name := range []string{"firstName", "zipCode", "status", "streetAddress"} {
		key := s.Convert(name, jdto.ToSource)
		back := s.Convert(key, jdto.ToProperty)
		if back != name {
			t.Errorf("round trip %q -> %q -> %q", name, key, back)
		}
	}
}

func TestSnakeCaseIdempotentOnSource(t *testing.T) {
	s := jdto.SnakeCaseStrategy{}
	key := s.Convert("firstName", jdto.ToSource)
	if again := s.Convert(key, jdto.ToSource); again != key {
		t.Errorf("Convert(%q, ToSource) = %q, want unchanged", key, again)
	}
}

func TestSnakeCaseUnknownDirection(t *testing.T) {
	s := jdto.SnakeCaseStrategy{}
	if got := s.Convert("firstName", jdto.Direction(42)); got != "firstName" {
		t.Errorf("unknown direction changed the name to %q", got)
	}
}

func TestSnakeCaseCustomSeparator(t *testing.T) {
	s := jdto.SnakeCaseStrategy{Separator: "-"}
	if got := s.Convert("firstName", jdto.ToSource); got != "first-name" {
		t.Errorf("Convert with custom separator = %q, want first-name", got)
	}
	if got := s.Convert("first-name", jdto.ToProperty); got != "firstName" {
		t.Errorf("Convert back with custom separator = %q, want firstName", got)
	}
}

func TestIdentityStrategy(t *testing.T) {
	s := jdto.IdentityStrategy{}
	if got := s.Convert("FirstName", jdto.ToSource); got != "FirstName" {
		t.Errorf("identity changed the name to %q", got)
	}
}
