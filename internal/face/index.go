package face

import (
	"math"
	"sync"

	"github.com/coder/hnsw"
)

const indexMaxNeighbors = 16

// Entry is one indexed embedding, keyed by its face data row.
type Entry struct {
	FaceDataID  string
	PersonnelID string
	StationID   string
	Embedding   []float32
}

// Match is the best recognition result for a query.
type Match struct {
	PersonnelID string
	Similarity  float64
}

// Index is an in-memory nearest-neighbor index over all registered
// face embeddings. It is rebuilt from the database at startup and kept
// current as faces are registered or removed.
type Index struct {
	mu      sync.RWMutex
	graph   *hnsw.Graph[string]
	entries map[string]*Entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string]*Entry),
	}
}

func newGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = indexMaxNeighbors
	g.Ml = 1.0 / float64(indexMaxNeighbors)
	g.Distance = hnsw.CosineDistance
	return g
}

// Build replaces the index contents with the given entries.
func (idx *Index) Build(entries []Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.entries = make(map[string]*Entry, len(entries))
	if len(entries) == 0 {
		idx.graph = nil
		return
	}

	g := newGraph()
	for i := range entries {
		e := &entries[i]
		if len(e.Embedding) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(e.FaceDataID, e.Embedding))
		idx.entries[e.FaceDataID] = e
	}
	idx.graph = g
}

// Add inserts one entry.
func (idx *Index) Add(e Entry) {
	if len(e.Embedding) == 0 {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.graph == nil {
		idx.graph = newGraph()
	}
	idx.graph.Add(hnsw.MakeNode(e.FaceDataID, e.Embedding))
	idx.entries[e.FaceDataID] = &e
}

// RemovePersonnel drops all of a personnel's entries. The graph nodes
// remain but are filtered out of search results.
func (idx *Index) RemovePersonnel(personnelID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for id, e := range idx.entries {
		if e.PersonnelID == personnelID {
			delete(idx.entries, id)
		}
	}
}

// Count returns the number of live entries.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Search finds the personnel whose registered face is closest to the
// query. A non-empty stationID restricts matches to that station.
// Returns nil when no candidate reaches the threshold.
func (idx *Index) Search(query []float32, stationID string, threshold float64) *Match {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph == nil || len(idx.entries) == 0 {
		return nil
	}

	// Over-fetch so station filtering and stale nodes still leave
	// enough candidates.
	k := indexMaxNeighbors
	if k > len(idx.entries) {
		k = len(idx.entries)
	}
	neighbors := idx.graph.Search(query, k)

	var best *Match
	for _, n := range neighbors {
		e, ok := idx.entries[n.Key]
		if !ok {
			continue // removed entry, node is stale
		}
		if stationID != "" && e.StationID != stationID {
			continue
		}
		sim := CosineSimilarity(query, n.Value)
		if sim < threshold {
			continue
		}
		if best == nil || sim > best.Similarity {
			best = &Match{PersonnelID: e.PersonnelID, Similarity: sim}
		}
	}
	return best
}

// CosineSimilarity computes the cosine similarity of two vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
