package benchmarks

import (
	"bytes"
	"strconv"
	"testing"

	xt "github.com/reoring/xtended"
	"github.com/reoring/xtended/driver/sonic"
)

type item struct {
	xt.Extension
	ID   string `json:"id"`
	Name string `json:"name"`
}

type plainItem item

func (i *item) Declared() any { return (*plainItem)(i) }

// generateArray returns a JSON array of n objects, each with two declared
// fields and three extension fields of mixed shape.
func generateArray(n int) []byte {
	var b bytes.Buffer
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		id := strconv.Itoa(i)
		b.WriteString(`{"id":"u_` + id + `","name":"user` + id + `","x-rank":` + id + `,"x-score":0.5,"x-tags":["a","b",{"k":null}]}`)
	}
	b.WriteByte(']')
	return b.Bytes()
}

func drivers() map[string]xt.JSONDriver {
	return map[string]xt.JSONDriver{
		"go-json": xt.CurrentJSONDriver(),
		"sonic":   sonic.Driver(),
	}
}

func BenchmarkUnmarshalSlice(b *testing.B) {
	data := generateArray(1000)
	for name, d := range drivers() {
		b.Run(name, func(b *testing.B) {
			opt := xt.Opt{Driver: d}
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := xt.UnmarshalSlice[item](data, opt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMarshalSlice(b *testing.B) {
	recs, err := xt.UnmarshalSlice[item](generateArray(1000))
	if err != nil {
		b.Fatal(err)
	}
	for name, d := range drivers() {
		b.Run(name, func(b *testing.B) {
			opt := xt.Opt{Driver: d}
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := xt.MarshalSlice(recs, opt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkParseValue(b *testing.B) {
	data := []byte(`{"a":[1,2.5,"s",true,null,{"b":{"c":[[],{}]}}],"d":-3}`)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := xt.ParseValue(data); err != nil {
			b.Fatal(err)
		}
	}
}
