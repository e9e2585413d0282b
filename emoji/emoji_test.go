package emoji

import (
	"testing"
)

func Test_Expand(t *testing.T) {
	tt := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "known",
			in:   "nice :thumbsup:",
			want: "nice 👍",
		},
		{
			name: "unknown",
			in:   "meet at 10:30:00",
			want: "meet at 10:30:00",
		},
		{
			name: "plain",
			in:   "hello",
			want: "hello",
		},
		{
			name: "unknown_then_known",
			in:   ":nope::smile:",
			want: ":nope:😄",
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := Expand(tc.in)
			if tc.want != got {
				t.Errorf("%q want %q; got %q", tc.in, tc.want, got)
			}
		})
	}
}
