package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tmpl   string
		fields map[string]string
		want   string
	}{
		{
			name:   "unknown key renders empty",
			tmpl:   "Hi [fname], visit [link]",
			fields: map[string]string{"fname": "Amy"},
			want:   "Hi Amy, visit ",
		},
		{
			name:   "no placeholders unchanged",
			tmpl:   "Reply STOP to opt out.",
			fields: map[string]string{"fname": "Amy"},
			want:   "Reply STOP to opt out.",
		},
		{
			name: "nil fields",
			tmpl: "Hi [fname]!",
			want: "Hi !",
		},
		{
			name:   "keys are case sensitive",
			tmpl:   "[fname]/[FName]",
			fields: map[string]string{"fname": "amy"},
			want:   "amy/",
		},
		{
			name:   "custom csv column with spaces",
			tmpl:   "Your code: [Promo Code]",
			fields: map[string]string{"Promo Code": "X1"},
			want:   "Your code: X1",
		},
		{
			name:   "single pass",
			tmpl:   "[a][b]",
			fields: map[string]string{"a": "[b]", "b": "B"},
			want:   "[b]B",
		},
		{
			name:   "malformed brackets stay literal",
			tmpl:   "[] [open [fname]",
			fields: map[string]string{"fname": "Amy"},
			want:   "[] [open Amy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Expand(tt.tmpl, tt.fields))
		})
	}
}
