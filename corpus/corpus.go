// Package corpus runs compiled patterns over collections of segmented words.
//
// A Corpus keeps an inverted index from phones to the words containing them.
// A search first intersects the postings of the phones every match must
// contain (see phonsearch.Pattern.RequiredPhones) and only then scans the
// surviving words, in parallel.
package corpus

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/coregx/phonsearch/inventory"
	"github.com/coregx/phonsearch/internal/conv"
	"golang.org/x/text/unicode/norm"
)

// Corpus is an immutable, indexed list of segmented words. Words are
// identified by their position in the list.
type Corpus struct {
	words [][]string
	index *Index
}

// New indexes words. The slices are retained and must not be modified
// afterwards.
func New(words [][]string) *Corpus {
	return &Corpus{words: words, index: newIndex(words)}
}

// FromText segments each text with seg, adding word boundary markers, and
// indexes the result.
func FromText(texts []string, seg inventory.Segmenter) *Corpus {
	words := make([][]string, len(texts))
	for i, text := range texts {
		words[i] = seg.Segment(text, true)
	}
	return New(words)
}

// Len returns the number of words.
func (c *Corpus) Len() int {
	return len(c.words)
}

// Word returns the phones of the word with the given identifier, or nil if
// there is no such word.
func (c *Corpus) Word(id uint32) []string {
	i := conv.Uint32ToInt(id)
	if i >= len(c.words) {
		return nil
	}
	return c.words[i]
}

// Index returns the phone index.
func (c *Corpus) Index() *Index {
	return c.index
}

// Index maps phones, in canonical decomposition, to the words that contain
// them.
type Index struct {
	postings map[string]*roaring.Bitmap
	all      *roaring.Bitmap
}

func newIndex(words [][]string) *Index {
	ix := &Index{
		postings: make(map[string]*roaring.Bitmap),
		all:      roaring.New(),
	}
	for i, phones := range words {
		id := conv.IntToUint32(i)
		ix.all.Add(id)
		for _, ph := range phones {
			if ph == inventory.BoundaryMarker {
				continue
			}
			key := norm.NFD.String(ph)
			bitmap, ok := ix.postings[key]
			if !ok {
				bitmap = roaring.New()
				ix.postings[key] = bitmap
			}
			bitmap.Add(id)
		}
	}
	return ix
}

// Postings returns the words containing phone. The result is a copy; it is
// empty when no word contains phone.
func (ix *Index) Postings(phone string) *roaring.Bitmap {
	if bitmap, ok := ix.postings[norm.NFD.String(phone)]; ok {
		return bitmap.Clone()
	}
	return roaring.New()
}

// Candidates returns the words containing every phone in required. With no
// required phones every word is a candidate.
func (ix *Index) Candidates(required []string) *roaring.Bitmap {
	if len(required) == 0 {
		return ix.all.Clone()
	}

	var result *roaring.Bitmap
	for _, ph := range required {
		bitmap, ok := ix.postings[norm.NFD.String(ph)]
		if !ok {
			return roaring.New()
		}
		if result == nil {
			result = bitmap.Clone()
		} else {
			result.And(bitmap)
		}
		// Early termination if result is empty
		if result.IsEmpty() {
			return result
		}
	}
	return result
}

// Phones returns the number of distinct indexed phones.
func (ix *Index) Phones() int {
	return len(ix.postings)
}
