package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/pkg/errors"
)

// BlobsConfig controls MakeBlobs.
type BlobsConfig struct {
	NSamples   int
	NFeatures  int
	NCenters   int
	ClusterStd float64
	CenterLow  float64
	CenterHigh float64
	Seed       int64
}

// DefaultBlobsConfig mirrors common generator defaults: 100 samples in 3
// isotropic Gaussian clusters on 2 features.
func DefaultBlobsConfig() BlobsConfig {
	return BlobsConfig{
		NSamples:   100,
		NFeatures:  2,
		NCenters:   3,
		ClusterStd: 1.0,
		CenterLow:  -10.0,
		CenterHigh: 10.0,
		Seed:       0,
	}
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// MakeBlobs draws samples from isotropic Gaussian clusters with uniformly
// placed centers. Samples are assigned to centers round-robin so classes
// stay balanced up to remainder.
func MakeBlobs(cfg BlobsConfig) (*Dataset, error) {
	if cfg.NSamples <= 0 || cfg.NFeatures <= 0 || cfg.NCenters <= 0 {
		return nil, errors.NewValueError("MakeBlobs", "NSamples, NFeatures and NCenters must be positive")
	}
	if cfg.ClusterStd < 0 {
		return nil, errors.NewValidationError("ClusterStd", "must be non-negative", cfg.ClusterStd)
	}

	rng := newRNG(cfg.Seed)

	centers := make([][]float64, cfg.NCenters)
	for c := range centers {
		centers[c] = make([]float64, cfg.NFeatures)
		for j := range centers[c] {
			centers[c][j] = cfg.CenterLow + rng.Float64()*(cfg.CenterHigh-cfg.CenterLow)
		}
	}

	X := mat.NewDense(cfg.NSamples, cfg.NFeatures, nil)
	Y := mat.NewDense(cfg.NSamples, 1, nil)
	for i := 0; i < cfg.NSamples; i++ {
		c := i % cfg.NCenters
		for j := 0; j < cfg.NFeatures; j++ {
			X.Set(i, j, centers[c][j]+rng.NormFloat64()*cfg.ClusterStd)
		}
		Y.Set(i, 0, float64(c))
	}
	return &Dataset{X: X, Y: Y}, nil
}

// ClassificationConfig controls MakeClassification.
type ClassificationConfig struct {
	NSamples int
	// NInformative features carry class signal; NNoise features are pure
	// standard normal noise appended after them.
	NInformative int
	NNoise       int
	NClasses     int
	// ClassSep scales the distance between class centroids.
	ClassSep float64
	Seed     int64
}

// DefaultClassificationConfig generates 100 samples with 2 informative and
// 2 noise features in 2 classes.
func DefaultClassificationConfig() ClassificationConfig {
	return ClassificationConfig{
		NSamples:     100,
		NInformative: 2,
		NNoise:       2,
		NClasses:     2,
		ClassSep:     2.0,
		Seed:         0,
	}
}

// MakeClassification builds a labeled dataset where only the first
// NInformative features separate the classes. Feature selectors should
// recover exactly those columns.
func MakeClassification(cfg ClassificationConfig) (*Dataset, error) {
	if cfg.NSamples <= 0 || cfg.NInformative <= 0 || cfg.NClasses < 2 {
		return nil, errors.NewValueError("MakeClassification", "need positive NSamples, NInformative and at least 2 classes")
	}
	if cfg.NNoise < 0 {
		return nil, errors.NewValidationError("NNoise", "must be non-negative", cfg.NNoise)
	}

	rng := newRNG(cfg.Seed)
	nFeatures := cfg.NInformative + cfg.NNoise

	// One centroid per class on the informative subspace.
	centroids := make([][]float64, cfg.NClasses)
	for c := range centroids {
		centroids[c] = make([]float64, cfg.NInformative)
		for j := range centroids[c] {
			centroids[c][j] = rng.NormFloat64() * cfg.ClassSep
		}
	}

	X := mat.NewDense(cfg.NSamples, nFeatures, nil)
	Y := mat.NewDense(cfg.NSamples, 1, nil)
	for i := 0; i < cfg.NSamples; i++ {
		c := i % cfg.NClasses
		for j := 0; j < cfg.NInformative; j++ {
			X.Set(i, j, centroids[c][j]+rng.NormFloat64())
		}
		for j := cfg.NInformative; j < nFeatures; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		Y.Set(i, 0, float64(c))
	}
	return &Dataset{X: X, Y: Y}, nil
}

// RegressionConfig controls MakeRegression.
type RegressionConfig struct {
	NSamples  int
	NFeatures int
	// Noise is the standard deviation of the Gaussian noise added to the
	// targets.
	Noise float64
	Bias  float64
	Seed  int64
}

// DefaultRegressionConfig generates 100 samples on 4 features with unit
// target noise.
func DefaultRegressionConfig() RegressionConfig {
	return RegressionConfig{
		NSamples:  100,
		NFeatures: 4,
		Noise:     1.0,
		Bias:      0.0,
		Seed:      0,
	}
}

// MakeRegression builds a random linear problem y = Xw + bias + noise and
// returns the dataset together with the true coefficients.
func MakeRegression(cfg RegressionConfig) (*Dataset, []float64, error) {
	if cfg.NSamples <= 0 || cfg.NFeatures <= 0 {
		return nil, nil, errors.NewValueError("MakeRegression", "NSamples and NFeatures must be positive")
	}
	if cfg.Noise < 0 {
		return nil, nil, errors.NewValidationError("Noise", "must be non-negative", cfg.Noise)
	}

	rng := newRNG(cfg.Seed)

	coef := make([]float64, cfg.NFeatures)
	for j := range coef {
		coef[j] = rng.Float64() * 100
	}

	X := mat.NewDense(cfg.NSamples, cfg.NFeatures, nil)
	Y := mat.NewDense(cfg.NSamples, 1, nil)
	for i := 0; i < cfg.NSamples; i++ {
		target := cfg.Bias
		for j := 0; j < cfg.NFeatures; j++ {
			v := rng.NormFloat64()
			X.Set(i, j, v)
			target += v * coef[j]
		}
		if cfg.Noise > 0 {
			target += rng.NormFloat64() * cfg.Noise
		}
		Y.Set(i, 0, target)
	}
	return &Dataset{X: X, Y: Y}, coef, nil
}
