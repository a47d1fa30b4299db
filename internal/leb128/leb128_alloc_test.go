package leb128

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fourBytes is a four byte encoding every decoder accepts.
var fourBytes = []byte{0x80, 0x80, 0x80, 0x4f}

var decoders = []struct {
	name   string
	decode func([]byte) error
}{
	{name: "LoadUint32", decode: func(b []byte) error { _, _, err := LoadUint32(b); return err }},
	{name: "LoadUint64", decode: func(b []byte) error { _, _, err := LoadUint64(b); return err }},
	{name: "LoadInt32", decode: func(b []byte) error { _, _, err := LoadInt32(b); return err }},
	{name: "LoadInt33AsInt64", decode: func(b []byte) error { _, _, err := LoadInt33AsInt64(b); return err }},
	{name: "LoadInt64", decode: func(b []byte) error { _, _, err := LoadInt64(b); return err }},
}

// TestLoad_NoAlloc keeps the decoders off the heap, as the validator calls
// them once per immediate.
func TestLoad_NoAlloc(t *testing.T) {
	for _, d := range decoders {
		d := d
		t.Run(d.name, func(t *testing.T) {
			var err error
			allocs := testing.AllocsPerRun(100, func() { err = d.decode(fourBytes) })
			require.NoError(t, err)
			require.Zero(t, allocs)
		})
	}
}

func BenchmarkLoad(b *testing.B) {
	for _, d := range decoders {
		d := d
		b.Run(d.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := d.decode(fourBytes); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
