package bytescan

import "testing"

func TestCountSeparatorsScalarAndWideAgree(t *testing.T) {
	data := []byte("a,b,c,d,e,f,g,h,i,j,k,l,m,n,o,p,q,,,")
	want := countSeparatorsScalar(data, ',')
	got := countSeparatorsWide(data, ',')
	if got != want {
		t.Fatalf("wide scan disagrees with scalar: got %d want %d", got, want)
	}
}

func TestIsCodeByteTable(t *testing.T) {
	if !IsCodeByte['a'] {
		t.Fatal("expected 'a' to be a code byte")
	}
	if IsCodeByte[' '] {
		t.Fatal("expected space to not be a code byte")
	}
	if IsCodeByte['\n'] {
		t.Fatal("expected newline to not be a code byte")
	}
	if IsCodeByte[0x7F] {
		t.Fatal("expected DEL to not be a code byte")
	}
}

func TestHintTable(t *testing.T) {
	hint := HintTable([][]byte{[]byte("//"), []byte("/*")})
	if !hint['/'] {
		t.Fatal("expected hint for '/'")
	}
	if hint['x'] {
		t.Fatal("expected no hint for unrelated byte")
	}
}
