package lang

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// benchDocument returns a document of n statements exercising every value kind.
func benchDocument(n int) string {
	var sb strings.Builder

	for i := range n {
		fmt.Fprintf(&sb, "# entry %d\n", i)
		fmt.Fprintf(&sb, "name%d, size%d, tags%d -> \"item-%d\", %d, 'a', 'b', [N, 0x%x];\n",
			i, i, i, i, i, i)
	}

	return sb.String()
}

// BenchmarkLoadString benchmarks parsing documents of increasing size.
func BenchmarkLoadString(b *testing.B) {
	subs := Substitutions{"N": Int(42)}

	for _, n := range []int{1, 10, 100, 1000} {
		doc := benchDocument(n)

		b.Run(fmt.Sprintf("statements_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(doc)))

			for b.Loop() {
				if _, err := LoadString(context.Background(), doc, WithSubstitutions(subs)); err != nil {
					b.Fatalf("load error: %v", err)
				}
			}
		})
	}
}

// BenchmarkEvaluateValues benchmarks evaluation of value lists alone.
func BenchmarkEvaluateValues(b *testing.B) {
	tests := []struct {
		name  string
		input string
	}{
		{"integer", `8080`},
		{"text", `"the quick brown fox"`},
		{"list", `1, 2, 3, "four", 'five'`},
		{"nested", `[1, [2, [3, [4, 5]]]]`},
		{"substitution", `[N, N, N]`},
	}

	subs := Substitutions{"N": Int(1)}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()

			for b.Loop() {
				if _, err := EvaluateValues(tt.input, subs); err != nil {
					b.Fatalf("eval error: %v", err)
				}
			}
		})
	}
}

// BenchmarkCache compares a cache hit with a fresh parse of the same document.
func BenchmarkCache(b *testing.B) {
	doc := benchDocument(100)

	b.Run("hit", func(b *testing.B) {
		var c Cache

		if _, err := c.LoadString(context.Background(), doc); err != nil {
			b.Fatalf("load error: %v", err)
		}

		b.ReportAllocs()

		for b.Loop() {
			if _, err := c.LoadString(context.Background(), doc); err != nil {
				b.Fatalf("load error: %v", err)
			}
		}
	})

	b.Run("miss", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			var c Cache

			if _, err := c.LoadString(context.Background(), doc); err != nil {
				b.Fatalf("load error: %v", err)
			}
		}
	})
}
