package elide

import "testing"

func TestExpand(t *testing.T) {
	cases := []struct {
		text string
		args []string
		want string
		ok   bool
	}{
		{text: "std::allocator<$0>", args: []string{"int"}, want: "std::allocator<int>", ok: true},
		{text: "std::pair<$0 const, $1>", args: []string{"int", "float"}, want: "std::pair<int const, float>", ok: true},
		{text: "plain", args: nil, want: "plain", ok: true},
		{text: "std::less<$2>", args: []string{"int"}, ok: false},
	}

	for _, tc := range cases {
		got, ok := expand(tc.text, tc.args)
		if ok != tc.ok {
			t.Fatalf("expand(%q) ok = %v, want %v", tc.text, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("expand(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
