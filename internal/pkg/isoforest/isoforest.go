// Package isoforest implements isolation-forest outlier scoring: an ensemble
// of randomized binary partition trees in which points isolated by few splits
// receive high anomaly scores.
//
// The implementation follows Liu, Ting & Zhou, "Isolation Forest" (2008):
// each tree is built on a subsample by picking a random feature and a random
// split value within its observed range until a node holds a single point or
// the depth limit is reached. A point's score is 2^(-E(h)/c(n)) where E(h) is
// its average path length across trees and c(n) the expected path length of
// an unsuccessful BST search. Scores are in (0, 1]; higher means more
// anomalous. Exact values are implementation-specific; only the ranking is
// part of the contract.
package isoforest

import (
	"errors"
	"math"
	"math/rand"
)

const (
	defaultTrees      = 100
	defaultSampleSize = 256

	// eulerGamma is the Euler–Mascheroni constant used in c(n).
	eulerGamma = 0.5772156649
)

var ErrNoFeatures = errors.New("isoforest: empty feature matrix")
var ErrRaggedMatrix = errors.New("isoforest: rows have differing widths")

// Options configures a Forest. Zero values select defaults.
type Options struct {
	// Trees is the ensemble size. Defaults to 100.
	Trees int
	// SampleSize is the per-tree subsample size. Defaults to 256, capped at
	// the dataset size.
	SampleSize int
	// Seed makes scoring reproducible. A fixed seed always yields the same
	// trees for the same input.
	Seed int64
}

// Forest scores feature matrices for outliers. It is stateless between calls
// to Score; each call builds a fresh ensemble over the given matrix.
type Forest struct {
	trees      int
	sampleSize int
	seed       int64
}

// New returns a Forest with the given options.
func New(opts Options) *Forest {
	trees := opts.Trees
	if trees <= 0 {
		trees = defaultTrees
	}
	sample := opts.SampleSize
	if sample <= 0 {
		sample = defaultSampleSize
	}
	return &Forest{trees: trees, sampleSize: sample, seed: opts.Seed}
}

type treeNode struct {
	// leaf nodes carry size; internal nodes carry the split.
	size         int
	splitFeature int
	splitValue   float64
	left, right  *treeNode
}

func (n *treeNode) isLeaf() bool { return n.left == nil }

// Score implements ports.OutlierScorer.
func (f *Forest) Score(features [][]float64) ([]float64, error) {
	n := len(features)
	if n == 0 {
		return nil, ErrNoFeatures
	}
	width := len(features[0])
	for _, row := range features {
		if len(row) != width {
			return nil, ErrRaggedMatrix
		}
	}

	rng := rand.New(rand.NewSource(f.seed))
	psi := f.sampleSize
	if psi > n {
		psi = n
	}
	heightLimit := int(math.Ceil(math.Log2(float64(psi)))) + 1

	pathSums := make([]float64, n)
	for t := 0; t < f.trees; t++ {
		sample := subsample(features, psi, rng)
		root := buildTree(sample, 0, heightLimit, rng)
		for i, row := range features {
			pathSums[i] += pathLength(root, row, 0)
		}
	}

	norm := avgPathLength(psi)
	scores := make([]float64, n)
	for i := range scores {
		mean := pathSums[i] / float64(f.trees)
		scores[i] = math.Pow(2, -mean/norm)
	}
	return scores, nil
}

// subsample draws psi rows without replacement.
func subsample(features [][]float64, psi int, rng *rand.Rand) [][]float64 {
	if psi >= len(features) {
		return features
	}
	idx := rng.Perm(len(features))[:psi]
	out := make([][]float64, psi)
	for i, j := range idx {
		out[i] = features[j]
	}
	return out
}

func buildTree(rows [][]float64, depth, limit int, rng *rand.Rand) *treeNode {
	if depth >= limit || len(rows) <= 1 {
		return &treeNode{size: len(rows)}
	}

	// Candidate features are those with a non-degenerate observed range.
	width := len(rows[0])
	candidates := make([]int, 0, width)
	mins := make([]float64, width)
	maxs := make([]float64, width)
	for j := 0; j < width; j++ {
		mins[j], maxs[j] = rows[0][j], rows[0][j]
		for _, row := range rows {
			if row[j] < mins[j] {
				mins[j] = row[j]
			}
			if row[j] > maxs[j] {
				maxs[j] = row[j]
			}
		}
		if maxs[j] > mins[j] {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		// All points identical: nothing left to isolate.
		return &treeNode{size: len(rows)}
	}

	feat := candidates[rng.Intn(len(candidates))]
	split := mins[feat] + rng.Float64()*(maxs[feat]-mins[feat])

	var left, right [][]float64
	for _, row := range rows {
		if row[feat] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &treeNode{
		splitFeature: feat,
		splitValue:   split,
		left:         buildTree(left, depth+1, limit, rng),
		right:        buildTree(right, depth+1, limit, rng),
	}
}

func pathLength(node *treeNode, row []float64, depth int) float64 {
	if node.isLeaf() {
		return float64(depth) + avgPathLength(node.size)
	}
	if row[node.splitFeature] < node.splitValue {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful search
// in a BST of n nodes. It adjusts leaf depths for unsplit subsets.
func avgPathLength(n int) float64 {
	switch {
	case n > 2:
		f := float64(n)
		return 2*(math.Log(f-1)+eulerGamma) - 2*(f-1)/f
	case n == 2:
		return 1
	default:
		return 0
	}
}
