package segment

import (
	"container/heap"

	"github.com/corvid-labs/subtok/tokenizers/api"
)

// Symbol is one codepoint (or, after merging, one fused run of
// codepoints) in a SentencePiece-BPE symbol stream.
type Symbol struct {
	Text string
	Refs []uint32
}

// bpeNode is one entry of the intrusive doubly linked list of symbols
// used while merging.
type bpeNode struct {
	text       string
	refs       []uint32
	prev, next int  // node index, -1 for sentinel
	alive      bool
	gen        int // bumped whenever this node's identity/neighbors change, to invalidate stale heap entries
}

type pairCandidate struct {
	left int
	rank int
	gen  int // left node's gen at the time this candidate was queued
}

type pairHeap []pairCandidate

func (h pairHeap) Len() int { return len(h) }
func (h pairHeap) Less(i, j int) bool {
	if h[i].rank != h[j].rank {
		return h[i].rank < h[j].rank
	}
	// Leftmost wins ties.
	return h[i].left < h[j].left
}
func (h pairHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pairHeap) Push(x any)        { *h = append(*h, x.(pairCandidate)) }
func (h *pairHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// BPE runs SentencePiece merge-rank segmentation over an initial symbol
// stream (one per original codepoint, spaces already replaced by the "▁"
// metaspace marker by the caller) and returns the final fused symbols.
// Unknown-fallback and id mapping are the caller's responsibility (via
// api.Vocabulary.TokenToID, which already falls back to the unknown id).
func BPE(initial []Symbol, ranker api.MergeRanker) []Symbol {
	n := len(initial)
	if n == 0 {
		return nil
	}
	nodes := make([]bpeNode, n)
	for i, s := range initial {
		prev, next := i-1, i+1
		if i == 0 {
			prev = -1
		}
		if i == n-1 {
			next = -1
		}
		nodes[i] = bpeNode{text: s.Text, refs: s.Refs, prev: prev, next: next, alive: true}
	}

	h := &pairHeap{}
	heap.Init(h)
	pushPair := func(left int) {
		if left < 0 || nodes[left].next < 0 {
			return
		}
		right := nodes[left].next
		merged := nodes[left].text + nodes[right].text
		rank, ok := ranker.MergeRank(merged)
		if !ok {
			return
		}
		heap.Push(h, pairCandidate{left: left, rank: rank, gen: nodes[left].gen})
	}
	for i := 0; i < n-1; i++ {
		pushPair(i)
	}

	for h.Len() > 0 {
		cand := heap.Pop(h).(pairCandidate)
		left := cand.left
		if !nodes[left].alive || nodes[left].gen != cand.gen {
			continue // stale entry, superseded by a neighboring merge
		}
		right := nodes[left].next
		if right < 0 || !nodes[right].alive {
			continue
		}
		merged := nodes[left].text + nodes[right].text
		rank, ok := ranker.MergeRank(merged)
		if !ok || rank != cand.rank {
			continue
		}

		// Fuse right into left.
		nodes[left].text = merged
		nodes[left].refs = unionRefs(nodes[left].refs, nodes[right].refs)
		nodes[left].next = nodes[right].next
		if nodes[right].next >= 0 {
			nodes[nodes[right].next].prev = left
		}
		nodes[right].alive = false
		nodes[left].gen++

		pushPair(nodes[left].prev)
		pushPair(left)
	}

	var out []Symbol
	for i := 0; i < n; i++ {
		if nodes[i].alive {
			out = append(out, Symbol{Text: nodes[i].text, Refs: nodes[i].refs})
		}
	}
	return out
}

func unionRefs(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
