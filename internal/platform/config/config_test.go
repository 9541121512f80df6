package config

import (
	"testing"
	"time"

	kit "confsrv/internal/platform/testkit"
)

func TestPrefix(t *testing.T) {
	c := New().Prefix("CONFSRV_").Prefix("API_")
	if got := c.Key("PORT"); got != "CONFSRV_API_PORT" {
		t.Fatalf("Key = %q", got)
	}
}

func TestMust(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_NAME", "  confsrv ")
	t.Setenv("T_N", " 12 ")
	t.Setenv("T_PORT", "8080")
	t.Setenv("T_BADPORT", "70000")
	t.Setenv("T_BAD", "x")

	if c.MustString("NAME") != "confsrv" {
		t.Fatalf("MustString trims")
	}
	if c.MustInt("N") != 12 {
		t.Fatalf("MustInt")
	}
	if c.MustPort("PORT") != ":8080" {
		t.Fatalf("MustPort")
	}
	kit.MustPanic(t, func() { c.MustString("MISSING") })
	kit.MustPanic(t, func() { c.MustInt("BAD") })
	kit.MustPanic(t, func() { c.MustPort("BADPORT") })
	kit.MustPanic(t, func() { c.Require("NAME", "MISSING") })
}

func TestMay(t *testing.T) {
	c := New().Prefix("M_")
	t.Setenv("M_INT", "5")
	t.Setenv("M_BADINT", "five")
	t.Setenv("M_BIG", "1700000000000")
	t.Setenv("M_ON", "true")
	t.Setenv("M_DUR", "250ms")
	t.Setenv("M_CSV", " a, ,b ,")
	t.Setenv("M_MODE", "JSON")

	if c.MayString("MISSING", "d") != "d" {
		t.Fatalf("MayString default")
	}
	if c.MayInt("INT", 1) != 5 || c.MayInt("BADINT", 1) != 1 {
		t.Fatalf("MayInt")
	}
	if c.MayInt64("BIG", 0) != 1700000000000 {
		t.Fatalf("MayInt64")
	}
	if !c.MayBool("ON", false) {
		t.Fatalf("MayBool")
	}
	if c.MayDuration("DUR", time.Second) != 250*time.Millisecond {
		t.Fatalf("MayDuration")
	}
	if got := c.MayCSV("CSV", nil); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("MayCSV = %v", got)
	}
	if c.MayEnum("MODE", "console", "console", "json") != "json" {
		t.Fatalf("MayEnum normalizes case")
	}
	kit.MustPanic(t, func() { c.MayEnum("MODE", "", "console") })
}

func TestMayPairs(t *testing.T) {
	t.Setenv("P_TOKENS", "abc:1, def:22 ,broken, :3")
	got := New().Prefix("P_").MayPairs("TOKENS")
	if len(got) != 2 || got["abc"] != "1" || got["def"] != "22" {
		t.Fatalf("MayPairs = %v", got)
	}
}
