// Package sig provides the gene signature record: an ordered set of gene
// identifiers with per-gene weights, a decision bias and free-form info.
package sig

import (
	"errors"
	"fmt"
)

// ErrWeightLength is returned when a weight list can be neither broadcast
// nor zipped against the gene list.
var ErrWeightLength = errors.New("weight count does not match gene count")

// Signature is a weighted gene set. Gene identifiers are unique and keep
// first-occurrence order; weights are keyed per gene.
type Signature struct {
	order   []string
	weights map[string]float64
	bias    float64
	info    string
}

// New builds a signature with unit weights and zero bias. Duplicate gene
// identifiers collapse to a single entry keeping the first position.
func New(genes []string, info string) *Signature {
	return build(genes, func(int) float64 { return 1 }, 0, info)
}

// NewUniform builds a signature with the same weight for every gene.
func NewUniform(genes []string, weight, bias float64, info string) *Signature {
	return build(genes, func(int) float64 { return weight }, bias, info)
}

// NewWeighted builds a signature with per-gene weights. A single weight is
// broadcast to all genes; otherwise the list must match the gene list
// position by position, counted before duplicates collapse. On a duplicate
// gene the last paired weight wins while the first position is kept.
func NewWeighted(genes []string, weights []float64, bias float64, info string) (*Signature, error) {
	switch len(weights) {
	case 1:
		return build(genes, func(int) float64 { return weights[0] }, bias, info), nil
	case len(genes):
		return build(genes, func(i int) float64 { return weights[i] }, bias, info), nil
	default:
		return nil, fmt.Errorf("%d weights for %d genes: %w", len(weights), len(genes), ErrWeightLength)
	}
}

// build collapses the gene list into unique first-occurrence order with
// last-wins weights.
func build(genes []string, weightAt func(int) float64, bias float64, info string) *Signature {
	s := &Signature{
		weights: make(map[string]float64, len(genes)),
		bias:    bias,
		info:    info,
	}
	for i, g := range genes {
		if _, seen := s.weights[g]; !seen {
			s.order = append(s.order, g)
		}
		s.weights[g] = weightAt(i)
	}
	return s
}

// Genes returns the gene identifiers in record order.
func (s *Signature) Genes() []string {
	genes := make([]string, len(s.order))
	copy(genes, s.order)
	return genes
}

// Weights returns the weights aligned with Genes.
func (s *Signature) Weights() []float64 {
	weights := make([]float64, len(s.order))
	for i, g := range s.order {
		weights[i] = s.weights[g]
	}
	return weights
}

// Weight returns the weight for a gene and whether the gene is present.
func (s *Signature) Weight(gene string) (float64, bool) {
	w, ok := s.weights[gene]
	return w, ok
}

// Bias returns the decision bias.
func (s *Signature) Bias() float64 {
	return s.bias
}

// Info returns the descriptive metadata.
func (s *Signature) Info() string {
	return s.info
}

// Len returns the number of genes.
func (s *Signature) Len() int {
	return len(s.order)
}

// Remap rewrites gene identifiers through oldToNew, keeping positions and
// carrying weights. Identifiers absent from the map stay unchanged and are
// returned in record order; nil means every identifier was mapped. When two
// identifiers land on the same new identifier the later occurrence's weight
// wins and the record shrinks by one.
func (s *Signature) Remap(oldToNew map[string]string) []string {
	var unmapped []string

	order := make([]string, 0, len(s.order))
	weights := make(map[string]float64, len(s.order))
	for _, g := range s.order {
		id, ok := oldToNew[g]
		if !ok {
			id = g
			unmapped = append(unmapped, g)
		}
		if _, seen := weights[id]; !seen {
			order = append(order, id)
		}
		weights[id] = s.weights[g]
	}

	s.order = order
	s.weights = weights
	return unmapped
}
