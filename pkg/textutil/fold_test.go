package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Kardex-api/pkg/textutil"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Almacén":      "almacen",
		"PAPELERÍA":    "papeleria",
		"Ñoño S.A.S.":  "nono s.a.s.",
		"sin tildes":   "sin tildes",
		"":             "",
		"Über Küchen":  "uber kuchen",
	}
	for in, want := range cases {
		assert.Equal(t, want, textutil.Fold(in), "entrada %q", in)
	}
}
