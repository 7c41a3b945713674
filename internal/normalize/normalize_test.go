package normalize

import "testing"

func TestModuleName(t *testing.T) {
	cases := map[string]string{
		"ModA":              "ModA",
		"Mod B":             "ModB",
		"  Star  Wars  ":    "StarWars",
		"tab\there\nnl":     "tabherenl",
		"nb\u00a0sp":        "nbsp",
		"bom\uFEFFed":       "bomed",
		"ideo\u3000graphic": "ideographic",
		"em\u2003space":     "emspace",
		"line\u2028sep":     "linesep",
		"next\u0085line":    "next\u0085line",
		"":                  "",
		"Café Racer":        "CaféRacer",
	}
	for in, want := range cases {
		if got := ModuleName(in); got != want {
			t.Fatalf("ModuleName(%q)=%q; want %q", in, got, want)
		}
	}
}

func TestIsSpace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\v', '\f', '\r', '\u00a0', '\u1680', '\u2000', '\u200a', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\uFEFF'} {
		if !IsSpace(r) {
			t.Fatalf("IsSpace(%U)=false; want true", r)
		}
	}
	for _, r := range []rune{'a', '0', '\u0085', '\u200b', '\u180e'} {
		if IsSpace(r) {
			t.Fatalf("IsSpace(%U)=true; want false", r)
		}
	}
}
