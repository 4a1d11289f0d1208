package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"TrendLabeler/internal/model"
)

var ErrInvalidRatio = errors.New("train ratio must be in (0, 1]")

// NewRand returns a generator for seed; seed 0 picks a time-based seed. The
// seed actually used is returned so a build can be reproduced.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// Partition shuffles 0..n-1 and puts the first floor(n*trainRatio) indices in
// the training set. Labels are not stratified.
func Partition(n int, trainRatio float64, rng *rand.Rand) (train, val []int, err error) {
	if !(trainRatio > 0 && trainRatio <= 1) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRatio, trainRatio)
	}
	if n < 0 {
		return nil, nil, fmt.Errorf("negative sample count %d", n)
	}
	if rng == nil {
		rng, _ = NewRand(0)
	}
	perm := rng.Perm(n)
	trainSize := int(float64(n) * trainRatio)
	return perm[:trainSize], perm[trainSize:], nil
}

// Split partitions samples into training and validation splits.
func Split(samples []model.Sample, trainRatio float64, rng *rand.Rand) (train, val model.Split, err error) {
	trainIdx, valIdx, err := Partition(len(samples), trainRatio, rng)
	if err != nil {
		return model.Split{}, model.Split{}, err
	}
	return model.NewSplit(pick(samples, trainIdx)), model.NewSplit(pick(samples, valIdx)), nil
}

func pick(samples []model.Sample, idx []int) []model.Sample {
	out := make([]model.Sample, len(idx))
	for i, j := range idx {
		out[i] = samples[j]
	}
	return out
}
