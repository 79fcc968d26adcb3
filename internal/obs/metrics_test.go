package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                      "/",
		"/metrics":              "/metrics",
		"/auth/token":           "/auth/token",
		"/auth/users/me":        "/auth/users/me",
		"/chat/question?x=1":    "/chat/question",
		"/healthz?verbose=true": "/healthz",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
