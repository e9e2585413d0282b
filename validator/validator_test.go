package validator

import (
	"testing"

	"github.com/SWYP-foreigner/Kori-chatting/id"
	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type sample struct {
	RoomID  string `validate:"required,xid"`
	Content string `validate:"required,max=5"`
}

func TestStruct(t *testing.T) {
	tt := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{name: "ok", in: sample{RoomID: id.Generate(), Content: "hi"}},
		{name: "missing_room", in: sample{Content: "hi"}, wantErr: "RoomID is required"},
		{name: "bad_room", in: sample{RoomID: "x", Content: "hi"}, wantErr: "RoomID is invalid"},
		{name: "long_content", in: sample{RoomID: id.Generate(), Content: "hello!"}, wantErr: "Content must be at most 5 characters"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestMustRegister(t *testing.T) {
	require.NotPanics(t, func() { newValidate() })

	v := newValidate()
	require.Panics(t, func() {
		mustRegister(v, "", func(playground.FieldLevel) bool { return true })
	})
	require.Panics(t, func() { mustRegister(v, "xid", nil) })
}
