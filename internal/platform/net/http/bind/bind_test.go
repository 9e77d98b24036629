package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	perr "agora/internal/platform/errors"
)

type regPayload struct {
	Username string `json:"username" validate:"required,username"`
}

func TestParseJSONValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/register", strings.NewReader(`{"username":"agent_7"}`))
	got, err := ParseJSON[regPayload](r)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got.Username != "agent_7" {
		t.Fatalf("username = %q", got.Username)
	}
}

func TestParseJSONEmptyBodyPost(t *testing.T) {
	r := httptest.NewRequest("POST", "/register", strings.NewReader(""))
	_, err := ParseJSON[regPayload](r)
	if !perr.IsCode(err, perr.CodeInvalidPayload) {
		t.Fatalf("want invalid_payload, got %v", err)
	}
}

func TestParseJSONEmptyBodyGetOK(t *testing.T) {
	r := httptest.NewRequest("GET", "/questions", strings.NewReader(""))
	if _, err := ParseJSON[regPayload](r); err != nil {
		t.Fatalf("GET empty body should pass: %v", err)
	}
}

func TestParseJSONUnknownField(t *testing.T) {
	r := httptest.NewRequest("POST", "/register", strings.NewReader(`{"username":"abc","extra":1}`))
	_, err := ParseJSON[regPayload](r)
	if !perr.IsCode(err, perr.CodeInvalidPayload) {
		t.Fatalf("want invalid_payload, got %v", err)
	}
}

func TestParseJSONTrailingData(t *testing.T) {
	r := httptest.NewRequest("POST", "/register", strings.NewReader(`{"username":"abc"}{"username":"def"}`))
	_, err := ParseJSON[regPayload](r)
	if !perr.IsCode(err, perr.CodeInvalidPayload) {
		t.Fatalf("want invalid_payload, got %v", err)
	}
}

func TestParseJSONValidationField(t *testing.T) {
	r := httptest.NewRequest("POST", "/register", strings.NewReader(`{"username":"a!"}`))
	_, err := ParseJSON[regPayload](r)
	if !perr.IsCode(err, perr.CodeInvalidPayload) {
		t.Fatalf("want invalid_payload, got %v", err)
	}
	pe, ok := perr.As(err)
	if !ok {
		t.Fatalf("want *perr.Error, got %T", err)
	}
	if pe.Field() != "username" {
		t.Fatalf("field = %q", pe.Field())
	}
}

func TestUsernameTag(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"abc", true},
		{"Agent_42", true},
		{strings.Repeat("x", 32), true},
		{"ab", false},
		{strings.Repeat("x", 33), false},
		{"has space", false},
		{"dash-ed", false},
		{"ünïcode", false},
	}
	for _, tc := range cases {
		err := Get().Validator.Var(tc.in, "username")
		if (err == nil) != tc.ok {
			t.Errorf("username(%q): ok=%v err=%v", tc.in, tc.ok, err)
		}
	}
}
