package spacetraveling

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Como utilizar Hooks", "como-utilizar-hooks"},
		{"  criando-um-app-cra-do-zero ", "criando-um-app-cra-do-zero"},
		{"Ação rápida!", "acao-rapida"},
		{"post_42", "post-42"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://blog.example.com", nil, "https://blog.example.com"},
		{"https://blog.example.com", []string{"post", "hello"}, "https://blog.example.com/post/hello/"},
		{"https://blog.example.com/sub/", []string{"post", "x"}, "https://blog.example.com/sub/post/x/"},
		{"https://blog.example.com", []string{"post", "a b"}, "https://blog.example.com/post/a%20b/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}
