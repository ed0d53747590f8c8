package fonts

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestTTF(t *testing.T) {
	for _, s := range []Style{Regular, Bold, Mono} {
		data := TTF(s)
		if len(data) < 1000 {
			t.Errorf("style %d: %d bytes of font data", s, len(data))
		}
		dec, err := base64.StdEncoding.DecodeString(TTFBase64(s))
		if err != nil || !bytes.Equal(dec, data) {
			t.Errorf("style %d: base64 does not round-trip (err %v)", s, err)
		}
	}
	if bytes.Equal(TTF(Regular), TTF(Mono)) {
		t.Error("regular and mono faces should differ")
	}
}

func TestSourceIsShared(t *testing.T) {
	a, err := Source(Regular)
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	b, _ := Source(Regular)
	if a != b {
		t.Error("Source() should return the same parsed font on every call")
	}
}
