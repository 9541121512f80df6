package modkit

import (
	"net/http"
	"testing"
)

func TestOptions_Accumulate(t *testing.T) {
	t.Parallel()
	var c buildCfg
	mw := func(next http.Handler) http.Handler { return next }
	WithMiddlewares(mw)(&c)
	WithMiddlewares(mw, mw)(&c)
	WithName("actionlog")(&c)
	WithPrefix("/log")(&c)
	if len(c.mw) != 3 || c.name != "actionlog" || c.prefix != "/log" {
		t.Fatalf("cfg = %+v", c)
	}
}
