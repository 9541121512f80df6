package activity

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type world struct {
	reviews  []Record[string]
	comments []Record[string]
	hideMod  int64
}

// genWorld builds two sources with heavy timestamp ties; reviews live on
// even papers and comments on odd ones so no key repeats across kinds
func genWorld(seed int64, nr, nc int) world {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)*31+7))
	w := world{hideMod: int64(rng.IntN(4) + 2)}
	seen := map[Key]bool{}
	add := func(dst *[]Record[string], kind Kind, odd int64) {
		k := Key{
			SortTime:  int64(rng.IntN(25)) - 2, // a few ineligible rows
			ContactID: int64(rng.IntN(6) + 1),
			PaperID:   int64(rng.IntN(10))*2 + odd,
		}
		if seen[k] {
			return
		}
		seen[k] = true
		*dst = append(*dst, Record[string]{Kind: kind, Key: k, Payload: kind.String()})
	}
	for i := 0; i < nr; i++ {
		add(&w.reviews, KindReview, 0)
	}
	for i := 0; i < nc; i++ {
		add(&w.comments, KindComment, 1)
	}
	return w
}

func (w world) visible(r Record[string]) bool { return (r.ContactID+r.PaperID)%w.hideMod != 0 }

func (w world) merger(batch int, parallel bool) *Merger[string] {
	f := FilterFunc[string](func(r Record[string]) (bool, error) { return w.visible(r), nil })
	return New[string](newMem(w.reviews...), newMem(w.comments...), f,
		WithFixedBatch(batch), WithParallelRefill(parallel))
}

// expected is the whole feed computed without any paging
func (w world) expected() []Key {
	var out []Key
	for _, r := range slices.Concat(w.reviews, w.comments) {
		if r.Eligible() && w.visible(r) {
			out = append(out, r.Key)
		}
	}
	slices.SortFunc(out, Key.Compare)
	return out
}

func keys(items []Record[string]) []Key {
	out := make([]Key, len(items))
	for i, r := range items {
		out[i] = r.Key
	}
	return out
}

func pageAll(m *Merger[string], limit int) ([]Key, bool) {
	var out []Key
	pos := ""
	for i := 0; i < 1000; i++ {
		f, err := m.Build(context.Background(), pos, limit)
		if err != nil {
			return nil, false
		}
		if !slices.IsSortedFunc(keys(f.Items), Key.Compare) {
			return nil, false
		}
		out = append(out, keys(f.Items)...)
		if f.Exhausted || len(f.Items) == 0 {
			return out, true
		}
		pos = f.Next
	}
	return nil, false
}

func TestProperty_Paging(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// Paging through the whole feed yields every visible record once, in order
	properties.Property("pages concatenate to the full ordered visible feed", prop.ForAll(
		func(seed int64, nr, nc, limit, batch int, parallel bool) bool {
			w := genWorld(seed, nr, nc)
			got, ok := pageAll(w.merger(batch, parallel), limit)
			if !ok {
				return false
			}
			return slices.Equal(got, w.expected())
		},
		gen.Int64Range(1, 1<<40),
		gen.IntRange(0, 40),
		gen.IntRange(0, 40),
		gen.IntRange(1, 9),
		gen.IntRange(1, 12),
		gen.Bool(),
	))

	// Resuming from Next continues exactly where a larger page would
	properties.Property("resume is idempotent", prop.ForAll(
		func(seed int64, n, m, batch int) bool {
			w := genWorld(seed, 30, 30)
			mg := w.merger(batch, false)
			ctx := context.Background()

			whole, err := mg.Build(ctx, "", n+m)
			if err != nil {
				return false
			}
			first, err := mg.Build(ctx, "", n)
			if err != nil {
				return false
			}
			second, err := mg.Build(ctx, first.Next, m)
			if err != nil {
				return false
			}
			tail := keys(whole.Items)
			if len(tail) < n {
				return len(second.Items) == 0
			}
			return slices.Equal(keys(second.Items), tail[n:])
		},
		gen.Int64Range(1, 1<<40),
		gen.IntRange(1, 15),
		gen.IntRange(1, 15),
		gen.IntRange(1, 8),
	))

	// Every emitted record passed the filter and is eligible
	properties.Property("visibility respected", prop.ForAll(
		func(seed int64, limit int) bool {
			w := genWorld(seed, 25, 25)
			f, err := w.merger(limit, false).Build(context.Background(), "", limit)
			if err != nil {
				return false
			}
			for _, r := range f.Items {
				if !r.Eligible() || !w.visible(r) {
					return false
				}
			}
			return true
		},
		gen.Int64Range(1, 1<<40),
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t)
}
